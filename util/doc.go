// Package util provides small generic slice and map helpers used across
// svcreg packages.
package util
