package client

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// startSpan opens the client span for req and writes the propagation
// headers of the global propagator into req.Header.
func (s *Session) startSpan(ctx context.Context, req *Request) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, "httpsreq.request", trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("http.request.method", req.Method),
		attribute.String("server.address", req.Host),
		attribute.Int("server.port", req.Port),
		attribute.String("url.path", req.Target),
	)

	otel.GetTextMapPropagator().Inject(ctx, &req.Header)

	return ctx, span
}

// traceIDFor returns the span's trace id, or a random one when tracing
// is disabled so log records can still be correlated.
func traceIDFor(span trace.Span) string {
	if id := span.SpanContext().TraceID(); id.IsValid() {
		return id.String()
	}

	return uuid.New().String()
}
