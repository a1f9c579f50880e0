package client

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// Request is a fully resolved request descriptor, ready for a [Transport].
type Request struct {
	Method string
	URL    string
	Host   string
	Port   int
	Target string
	Header Header
	// Body is nil when the request carries no payload.
	Body []byte
}

// NewRequest resolves rawURL, encodes the body and merges headers into a
// request descriptor without any session defaults.
func NewRequest(method, rawURL string, opts ...RequestOption) (*Request, error) {
	settings, err := applyRequestOptions(opts)
	if err != nil {
		return nil, err
	}

	return buildRequest(method, rawURL, Header{}, settings)
}

func applyRequestOptions(opts []RequestOption) (requestOpts, error) {
	var settings requestOpts
	for _, opt := range opts {
		if err := opt(&settings); err != nil {
			return requestOpts{}, fmt.Errorf("applying request option: %w", err)
		}
	}

	return settings, nil
}

func buildRequest(method, rawURL string, defaults Header, settings requestOpts) (*Request, error) {
	u, err := ResolveURL(rawURL, settings.params)
	if err != nil {
		return nil, err
	}

	method = strings.ToUpper(method)

	var timeout time.Duration
	if settings.timeout != nil {
		timeout = *settings.timeout
	}

	if err := validateSettings(callSettings{Method: method, Timeout: timeout}); err != nil {
		return nil, err
	}

	body, err := encodeBody(settings)
	if err != nil {
		return nil, err
	}

	header, err := mergeHeaders(u.Host, defaults, settings.headers, body)
	if err != nil {
		return nil, err
	}

	req := Request{
		Method: method,
		URL:    rawURL,
		Host:   u.Host,
		Port:   u.Port,
		Target: u.Target(),
		Header: header,
	}

	if body.present {
		req.Body = body.payload
	}

	return &req, nil
}

// Write serializes r as an HTTP/1.1 request: request line, headers in
// order with their casing preserved, a blank line and the body.
func (r *Request) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%s %s HTTP/1.1\r\n", r.Method, r.Target); err != nil {
		return fmt.Errorf("writing request line: %w", err)
	}

	for _, f := range r.Header.fields {
		if _, err := fmt.Fprintf(bw, "%s: %s\r\n", f.Name, f.Value); err != nil {
			return fmt.Errorf("writing header %q: %w", f.Name, err)
		}
	}

	if _, err := bw.WriteString("\r\n"); err != nil {
		return fmt.Errorf("writing header terminator: %w", err)
	}

	if _, err := bw.Write(r.Body); err != nil {
		return fmt.Errorf("writing body: %w", err)
	}

	return bw.Flush()
}
