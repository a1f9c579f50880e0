// Package httpsreq exposes a zero-configuration entry point to the
// [client] package: free functions that send a single HTTPS request with
// a shared default session, and NewSession for everything else.
package httpsreq

import (
	"context"
	"net/http"
	"sync"

	"github.com/adamwoolhether/httpsreq/client"
)

// NewSession instantiates a new *client.Session with the provided
// options. Without options it verifies certificates, has no timeout and
// sends the default user agent.
func NewSession(opts ...client.Option) (*client.Session, error) {
	return client.Build(opts...)
}

var defaultSession = sync.OnceValues(func() (*client.Session, error) {
	return client.Build()
})

// Request sends a single request with the default session.
func Request(ctx context.Context, method, rawURL string, opts ...client.RequestOption) (*client.Response, error) {
	s, err := defaultSession()
	if err != nil {
		return nil, err
	}

	return s.Request(ctx, method, rawURL, opts...)
}

// Get is shorthand for Request with GET.
func Get(ctx context.Context, rawURL string, opts ...client.RequestOption) (*client.Response, error) {
	return Request(ctx, http.MethodGet, rawURL, opts...)
}

// Post is shorthand for Request with POST.
func Post(ctx context.Context, rawURL string, opts ...client.RequestOption) (*client.Response, error) {
	return Request(ctx, http.MethodPost, rawURL, opts...)
}

// Put is shorthand for Request with PUT.
func Put(ctx context.Context, rawURL string, opts ...client.RequestOption) (*client.Response, error) {
	return Request(ctx, http.MethodPut, rawURL, opts...)
}

// Delete is shorthand for Request with DELETE.
func Delete(ctx context.Context, rawURL string, opts ...client.RequestOption) (*client.Response, error) {
	return Request(ctx, http.MethodDelete, rawURL, opts...)
}

// Head is shorthand for Request with HEAD.
func Head(ctx context.Context, rawURL string, opts ...client.RequestOption) (*client.Response, error) {
	return Request(ctx, http.MethodHead, rawURL, opts...)
}

// Options is shorthand for Request with OPTIONS.
func Options(ctx context.Context, rawURL string, opts ...client.RequestOption) (*client.Response, error) {
	return Request(ctx, http.MethodOptions, rawURL, opts...)
}

// Patch is shorthand for Request with PATCH.
func Patch(ctx context.Context, rawURL string, opts ...client.RequestOption) (*client.Response, error) {
	return Request(ctx, http.MethodPatch, rawURL, opts...)
}
