package client

import (
	"crypto/x509"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/adamwoolhether/httpsreq/client/throttle"
	"go.opentelemetry.io/otel/trace"
)

// Option is a functional option for configuring a [Session] via [Build].
type Option func(*options) error
type options struct {
	headers   Header
	timeout   *time.Duration
	verify    *bool
	transport Transport
	rootCAs   *x509.CertPool
	throttle  *throttle.Config
	logger    *slog.Logger
	tracer    trace.Tracer
}

// WithDefaultHeader adds a header sent on every request of the [Session].
// Call headers with the same name take precedence.
func WithDefaultHeader(name, value string) Option {
	return func(o *options) error {
		if name == "" {
			return errors.New("header name must not be empty")
		}
		o.headers.Set(name, value)
		return nil
	}
}

// WithDefaultHeaders adds every header in m, in sorted name order.
func WithDefaultHeaders(m map[string]string) Option {
	return func(o *options) error {
		h := headerFromMap(m)
		for _, f := range h.fields {
			o.headers.Set(f.Name, f.Value)
		}
		return nil
	}
}

// WithUserAgent replaces the default User-Agent for the [Session].
func WithUserAgent(ua string) Option {
	return WithDefaultHeader("User-Agent", ua)
}

// WithTimeout bounds every request of the [Session]. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		o.timeout = &d
		return nil
	}
}

// WithVerify controls TLS certificate and hostname validation.
// It defaults to true.
func WithVerify(verify bool) Option {
	return func(o *options) error {
		o.verify = &verify
		return nil
	}
}

// WithInsecureSkipVerify is shorthand for WithVerify(false).
func WithInsecureSkipVerify() Option {
	return WithVerify(false)
}

// WithTransport replaces the default [TLSTransport].
func WithTransport(t Transport) Option {
	return func(o *options) error {
		if t == nil {
			return errors.New("transport must not be nil")
		}
		o.transport = t
		return nil
	}
}

// WithRootCAs sets the certificate pool the default transport verifies
// servers against. It has no effect together with [WithTransport].
func WithRootCAs(pool *x509.CertPool) Option {
	return func(o *options) error {
		if pool == nil {
			return errors.New("root CA pool must not be nil")
		}
		o.rootCAs = pool
		return nil
	}
}

// WithThrottle enables token-bucket rate limiting with the given requests
// per second and burst capacity.
func WithThrottle(rps, burst int) Option {
	return func(o *options) error {
		if rps <= 0 || burst <= 0 {
			return fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, throttle.ErrMustNotBeZero)
		}
		o.throttle = &throttle.Config{RPS: rps, Burst: burst}
		return nil
	}
}

// WithLogger injects a [slog.Logger]. Without it the session logs nothing.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithTracer sets the tracer used to record one span per request.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) error {
		o.tracer = tracer
		return nil
	}
}

// RequestOption is a functional option for a single call.
type RequestOption func(options *requestOpts) error

type requestOpts struct {
	params  Values
	json    any
	hasJSON bool
	data    Body
	headers Header
	timeout *time.Duration
	verify  *bool
}

// WithParams appends query parameters, in order, after any query already
// present in the URL.
func WithParams(params Values) RequestOption {
	return func(opts *requestOpts) error {
		opts.params = append(opts.params, params...)
		return nil
	}
}

// WithParam appends a single query parameter.
func WithParam(key string, values ...string) RequestOption {
	return WithParams(Values{Param(key, values...)})
}

// WithJSON sets v as the JSON request body. It takes precedence over
// [WithData]. A nil v is sent as JSON null.
func WithJSON(v any) RequestOption {
	return func(opts *requestOpts) error {
		opts.json = v
		opts.hasJSON = true
		return nil
	}
}

// WithData sets a [Raw], [Text] or [Form] request body.
func WithData(body Body) RequestOption {
	return func(opts *requestOpts) error {
		if body == nil {
			return errors.New("data must not be nil")
		}
		opts.data = body
		return nil
	}
}

// WithHeader sets a header for this call only.
func WithHeader(name, value string) RequestOption {
	return func(opts *requestOpts) error {
		if name == "" {
			return errors.New("header name must not be empty")
		}
		opts.headers.Set(name, value)
		return nil
	}
}

// WithHeaders sets every header in m for this call, in sorted name order.
func WithHeaders(m map[string]string) RequestOption {
	return func(opts *requestOpts) error {
		h := headerFromMap(m)
		for _, f := range h.fields {
			opts.headers.Set(f.Name, f.Value)
		}
		return nil
	}
}

// WithRequestTimeout overrides the session timeout for this call.
func WithRequestTimeout(d time.Duration) RequestOption {
	return func(opts *requestOpts) error {
		opts.timeout = &d
		return nil
	}
}

// WithRequestVerify overrides the session verify flag for this call.
func WithRequestVerify(verify bool) RequestOption {
	return func(opts *requestOpts) error {
		opts.verify = &verify
		return nil
	}
}
