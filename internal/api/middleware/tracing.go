package middleware

import (
	"net/http"
	"strings"

	"github.com/Togather-Foundation/venues/internal/domain/ids"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/Togather-Foundation/venues/internal/api"

// Tracing opens a server span per request, continuing any W3C trace context
// in the headers. It must be outermost so engine spans nest under it.
func Tracing(next http.Handler) http.Handler {
	tracer := otel.Tracer(tracerName)
	propagator := otel.GetTextMapPropagator()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		route := spanRoute(r.URL.Path)
		ctx, span := tracer.Start(ctx, r.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPMethod(r.Method),
				semconv.HTTPRoute(route),
				semconv.HTTPURL(r.URL.String()),
				semconv.HTTPScheme(requestScheme(r)),
				semconv.NetHostName(r.Host),
				attribute.String("http.user_agent", r.UserAgent()),
			),
		)
		defer span.End()

		// CorrelationID runs inside this middleware, so read the raw header.
		if requestID := r.Header.Get(RequestIDHeader); requestID != "" {
			span.SetAttributes(attribute.String("request_id", requestID))
		}

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r.WithContext(ctx))

		span.SetAttributes(semconv.HTTPStatusCode(sw.status))
		if sw.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(sw.status))
			return
		}
		span.SetStatus(codes.Ok, "")
	})
}

// spanRoute replaces ULID path segments with {id} so span names stay
// low-cardinality.
func spanRoute(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if ids.IsULID(seg) {
			segments[i] = "{id}"
		}
	}
	return strings.Join(segments, "/")
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func requestScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
