package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/adamwoolhether/httpsreq/client/throttle"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Session holds the defaults applied to every call: headers, timeout and
// the TLS verify flag. It is immutable once built and safe for
// concurrent use; it keeps no connection state between calls.
type Session struct {
	headers   Header
	timeout   time.Duration
	verify    bool
	transport Transport
	logger    *slog.Logger
	tracer    trace.Tracer
}

// Build creates a [Session] from the given options. Without options the
// session verifies certificates, has no timeout, logs nothing and sends
// requests over a [TLSTransport].
func Build(optFns ...Option) (*Session, error) {
	s := &Session{
		verify: true,
		logger: slog.New(slog.DiscardHandler),
		tracer: noop.NewTracerProvider().Tracer("no-op tracer"),
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying session option: %w", err)
		}
	}

	s.headers = opts.headers.Clone()

	if opts.timeout != nil {
		s.timeout = *opts.timeout
	}

	if opts.verify != nil {
		s.verify = *opts.verify
	}

	if opts.logger != nil {
		s.logger = opts.logger
	}

	if opts.tracer != nil {
		s.tracer = opts.tracer
	}

	var transport Transport
	switch {
	case opts.transport != nil:
		transport = opts.transport
	default:
		transport = &TLSTransport{RootCAs: opts.rootCAs, Logger: s.logger}
	}
	if opts.throttle != nil {
		l, err := throttle.New(opts.throttle.RPS, opts.throttle.Burst, func() *slog.Logger { return s.logger })
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = throttled{limiter: l, next: transport}
	}
	s.transport = transport

	return s, nil
}

// Request builds a request from the session defaults and opts, sends it
// and decodes the response. Call-level headers, timeout and verify flag
// override the session's.
func (s *Session) Request(ctx context.Context, method, rawURL string, opts ...RequestOption) (*Response, error) {
	settings, err := applyRequestOptions(opts)
	if err != nil {
		return nil, err
	}

	req, err := buildRequest(method, rawURL, s.headers, settings)
	if err != nil {
		return nil, err
	}

	timeout := s.timeout
	if settings.timeout != nil {
		timeout = *settings.timeout
	}

	verify := s.verify
	if settings.verify != nil {
		verify = *settings.verify
	}

	return s.send(ctx, req, timeout, verify)
}

// Do sends a descriptor built with [NewRequest] using the session
// timeout, verify flag and transport. Session headers are not merged.
func (s *Session) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, invalidRequest("request must not be nil", nil)
	}

	return s.send(ctx, req, s.timeout, s.verify)
}

// Get is shorthand for Request with GET.
func (s *Session) Get(ctx context.Context, rawURL string, opts ...RequestOption) (*Response, error) {
	return s.Request(ctx, http.MethodGet, rawURL, opts...)
}

// Post is shorthand for Request with POST.
func (s *Session) Post(ctx context.Context, rawURL string, opts ...RequestOption) (*Response, error) {
	return s.Request(ctx, http.MethodPost, rawURL, opts...)
}

// Put is shorthand for Request with PUT.
func (s *Session) Put(ctx context.Context, rawURL string, opts ...RequestOption) (*Response, error) {
	return s.Request(ctx, http.MethodPut, rawURL, opts...)
}

// Delete is shorthand for Request with DELETE.
func (s *Session) Delete(ctx context.Context, rawURL string, opts ...RequestOption) (*Response, error) {
	return s.Request(ctx, http.MethodDelete, rawURL, opts...)
}

// Head is shorthand for Request with HEAD.
func (s *Session) Head(ctx context.Context, rawURL string, opts ...RequestOption) (*Response, error) {
	return s.Request(ctx, http.MethodHead, rawURL, opts...)
}

// Options is shorthand for Request with OPTIONS.
func (s *Session) Options(ctx context.Context, rawURL string, opts ...RequestOption) (*Response, error) {
	return s.Request(ctx, http.MethodOptions, rawURL, opts...)
}

// Patch is shorthand for Request with PATCH.
func (s *Session) Patch(ctx context.Context, rawURL string, opts ...RequestOption) (*Response, error) {
	return s.Request(ctx, http.MethodPatch, rawURL, opts...)
}

// send runs the transport under the timeout and decodes the result.
func (s *Session) send(ctx context.Context, req *Request, timeout time.Duration, verify bool) (*Response, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	out := *req
	out.Header = req.Header.Clone()

	ctx, span := s.startSpan(ctx, &out)
	defer span.End()

	traceID := traceIDFor(span)
	start := time.Now()

	s.logger.DebugContext(ctx, "request started", "trace_id", traceID, "method", out.Method, "host", out.Host, "target", out.Target)

	raw, err := s.transport.Send(ctx, &out, verify)
	if err != nil {
		err = classify(ctx, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.DebugContext(ctx, "request failed", "trace_id", traceID, "method", out.Method, "host", out.Host, "target", out.Target, "since", time.Since(start).String(), "error", err)
		return nil, err
	}

	resp := newResponse(raw, out.URL)
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if !resp.OK() {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	}

	s.logger.DebugContext(ctx, "request completed", "trace_id", traceID, "method", out.Method, "host", out.Host, "target", out.Target, "status", resp.StatusCode, "since", time.Since(start).String())

	return resp, nil
}

// classify maps transport failures onto the error kinds. Anything that
// is not a timeout or a cancellation is passed through with context.
func classify(ctx context.Context, err error) error {
	var netErr net.Error

	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return fmt.Errorf("sending request: %w: %w", context.Canceled, err)

	case errors.Is(ctx.Err(), context.DeadlineExceeded),
		errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return &Error{Err: ErrTimeout, Detail: "request timed out", Cause: err}

	case errors.Is(err, throttle.ErrWaitingFailed):
		if _, ok := ctx.Deadline(); ok {
			return &Error{Err: ErrTimeout, Detail: "throttle wait exceeds timeout", Cause: err}
		}
	}

	return fmt.Errorf("sending request: %w", err)
}
