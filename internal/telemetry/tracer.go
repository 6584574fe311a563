package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Common attribute keys for API and storage spans.
// These follow OpenTelemetry semantic conventions where applicable.
const (
	// Client attributes
	AttrClientIP = "client.ip"

	// HTTP request attributes
	AttrHTTPMethod = "http.method"
	AttrHTTPRoute  = "http.route"
	AttrHTTPStatus = "http.status_code"
	AttrRequestID  = "http.request_id"

	// File attributes
	AttrFileID   = "file.id"
	AttrFilename = "file.name"
	AttrFolder   = "file.folder"
	AttrFileSize = "file.size"

	// Vault operation attributes
	AttrOutcome = "vault.outcome"
	AttrEntries = "vault.entries"

	// User attributes
	AttrUsername = "user.name"

	// Offsite storage attributes
	AttrBucket = "storage.bucket"
	AttrKey    = "storage.key"
)

// SpanHTTPRequest is the root span for API request processing. Vault and
// backup spans are named by their starters as vault.<operation> and
// backup.<operation>.
const SpanHTTPRequest = "http.request"

// ClientIP returns an attribute for client IP address
func ClientIP(ip string) attribute.KeyValue {
	return attribute.String(AttrClientIP, ip)
}

// HTTPMethod returns an attribute for the request method
func HTTPMethod(method string) attribute.KeyValue {
	return attribute.String(AttrHTTPMethod, method)
}

// HTTPRoute returns an attribute for the matched route pattern
func HTTPRoute(route string) attribute.KeyValue {
	return attribute.String(AttrHTTPRoute, route)
}

// HTTPStatus returns an attribute for the response status code
func HTTPStatus(status int) attribute.KeyValue {
	return attribute.Int(AttrHTTPStatus, status)
}

// RequestID returns an attribute for the request ID
func RequestID(id string) attribute.KeyValue {
	return attribute.String(AttrRequestID, id)
}

// FileID returns an attribute for a catalog file id
func FileID(id uint) attribute.KeyValue {
	return attribute.Int64(AttrFileID, int64(id))
}

// Filename returns an attribute for a file name
func Filename(name string) attribute.KeyValue {
	return attribute.String(AttrFilename, name)
}

// FolderPath returns an attribute for a logical folder path
func FolderPath(path string) attribute.KeyValue {
	return attribute.String(AttrFolder, path)
}

// FileSize returns an attribute for a payload size in bytes
func FileSize(size int64) attribute.KeyValue {
	return attribute.Int64(AttrFileSize, size)
}

// Outcome returns an attribute for a vault operation outcome
func Outcome(outcome string) attribute.KeyValue {
	return attribute.String(AttrOutcome, outcome)
}

// EntryCount returns an attribute for the number of entries in an operation
func EntryCount(n int) attribute.KeyValue {
	return attribute.Int(AttrEntries, n)
}

// Username returns an attribute for the authenticated user
func Username(name string) attribute.KeyValue {
	return attribute.String(AttrUsername, name)
}

// Bucket returns an attribute for an S3 bucket name
func Bucket(name string) attribute.KeyValue {
	return attribute.String(AttrBucket, name)
}

// StorageKey returns an attribute for an S3 object key
func StorageKey(key string) attribute.KeyValue {
	return attribute.String(AttrKey, key)
}

// StartVaultSpan starts a span for a vault storage operation.
func StartVaultSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, "vault."+operation, trace.WithAttributes(attrs...))
}

// StartBackupSpan starts a span for a backup archive operation.
func StartBackupSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, "backup."+operation, trace.WithAttributes(attrs...))
}
