// Package errors provides the structured error type shared by svcreg
// packages. Every error carries a machine-readable code so callers can branch
// on the kind of failure without matching on message text.
package errors
