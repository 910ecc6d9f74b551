package logger

import (
	"time"
)

// Standard field key constants for structured logging.
const (
	FieldComponent  = "component"
	FieldRegistryID = "registry_id"
	FieldKey        = "key"
	FieldTag        = "tag"
	FieldTags       = "tags"
	FieldMode       = "mode"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldTraceID    = "trace_id"
	FieldSpanID     = "span_id"
	FieldConfigFile = "config_file"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Debug("resolved", logger.Fields(logger.FieldKey, "db", "cached", true))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation on key that failed.
func ErrorFields(key string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldKey:   key,
		FieldError: err.Error(),
	}
}

// DurationFields creates fields for a timed operation on key.
func DurationFields(key string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldKey:      key,
		FieldDuration: d.Milliseconds(),
	}
}
