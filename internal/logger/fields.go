package logger

import (
	"log/slog"
)

// Standard field keys for structured logging. Use these consistently across
// all log statements so aggregated logs stay queryable.
const (
	// Distributed tracing
	KeyTraceID = "trace_id"
	KeySpanID  = "span_id"

	// Request handling
	KeyRequestID = "request_id"
	KeyMethod    = "method"
	KeyRoute     = "route"
	KeyStatus    = "status"
	KeyClientIP  = "client_ip"

	// Catalog records
	KeyFileID     = "file_id"
	KeyFilename   = "filename"
	KeyPath       = "path"
	KeyOldPath    = "old_path"
	KeyNewPath    = "new_path"
	KeyFolder     = "folder"
	KeyCategory   = "category"
	KeySize       = "size"
	KeyUsername   = "username"

	// Lifecycle operations
	KeyOutcome = "outcome"
	KeyEntries = "entries"
	KeyIntent  = "intent_id"

	// Operation metadata
	KeyDurationMs = "duration_ms"
	KeyError      = "error"
)

// Field constructors for the keys used on hot paths. Plain key-value pairs
// are fine everywhere else.

// TraceID returns a slog.Attr for an OpenTelemetry trace ID
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for an OpenTelemetry span ID
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// FileID returns a slog.Attr for a catalog file id
func FileID(id uint) slog.Attr {
	return slog.Uint64(KeyFileID, uint64(id))
}

// Path returns a slog.Attr for a storage path
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// Username returns a slog.Attr for the acting user
func Username(name string) slog.Attr {
	return slog.String(KeyUsername, name)
}

// Err returns a slog.Attr for an error value
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}
