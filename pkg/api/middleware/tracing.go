package middleware

import (
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/marmos91/cubby/internal/logger"
	"github.com/marmos91/cubby/internal/telemetry"
)

// Tracing starts a span per request and seeds the logging context with the
// request ID, client IP and trace identifiers, so handlers logging through
// the Ctx variants pick them up automatically. The route pattern and status
// code are attached once routing has resolved. With telemetry disabled the
// spans are no-ops and only the logging context remains.
func Tracing() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := chimiddleware.GetReqID(r.Context())
			ip := clientIP(r)

			ctx, span := telemetry.StartSpan(r.Context(), telemetry.SpanHTTPRequest,
				trace.WithAttributes(
					telemetry.HTTPMethod(r.Method),
					telemetry.ClientIP(ip),
					telemetry.RequestID(requestID),
				))
			defer span.End()

			lc := logger.NewLogContext(ip).
				WithRequestID(requestID).
				WithTrace(telemetry.TraceID(ctx), telemetry.SpanID(ctx))
			ctx = logger.WithContext(ctx, lc)

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			telemetry.SetAttributes(ctx,
				telemetry.HTTPRoute(route),
				telemetry.HTTPStatus(ww.Status()))
			if ww.Status() >= 500 {
				telemetry.SetStatus(ctx, codes.Error, http.StatusText(ww.Status()))
			}
		})
	}
}

// clientIP strips the port from RemoteAddr when one is present. The RealIP
// middleware has already substituted trusted proxy headers by this point.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
