// Package logger provides structured logging for svcreg using zerolog.
//
// It supports JSON and console output, level configuration, component-scoped
// loggers and trace-aware context enrichment.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("di")
//	log.Debug("service resolved", logger.Fields(logger.FieldKey, "db"))
package logger
