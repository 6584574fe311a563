package logger

import "context"

// LogContext carries the request-scoped fields every log line should
// repeat. Middleware builds one per request; the Ctx logging functions
// read it back out.
type LogContext struct {
	TraceID   string
	SpanID    string
	RequestID string
	Username  string // authenticated principal, empty until login
	ClientIP  string // remote address without the port
}

type ctxKey struct{}

// NewLogContext starts a LogContext for a request from clientIP.
func NewLogContext(clientIP string) *LogContext {
	return &LogContext{ClientIP: clientIP}
}

// WithContext attaches lc to ctx.
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, lc)
}

// FromContext returns the LogContext attached to ctx, or nil.
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(ctxKey{}).(*LogContext)
	return lc
}

// The With helpers copy rather than mutate, so a context shared between
// goroutines never observes a half-updated LogContext.

// WithUser returns a copy carrying the authenticated username.
func (lc *LogContext) WithUser(username string) *LogContext {
	if lc == nil {
		return nil
	}
	c := *lc
	c.Username = username
	return &c
}

// WithRequestID returns a copy carrying the request ID.
func (lc *LogContext) WithRequestID(id string) *LogContext {
	if lc == nil {
		return nil
	}
	c := *lc
	c.RequestID = id
	return &c
}

// WithTrace returns a copy carrying the trace identifiers.
func (lc *LogContext) WithTrace(traceID, spanID string) *LogContext {
	if lc == nil {
		return nil
	}
	c := *lc
	c.TraceID = traceID
	c.SpanID = spanID
	return &c
}
