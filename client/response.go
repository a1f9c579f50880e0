package client

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
)

// Response is the decoded result of a single call.
type Response struct {
	StatusCode int
	// Headers holds lower-cased names; the last value wins on duplicates.
	Headers map[string]string
	Content []byte
	URL     string

	textOnce sync.Once
	text     string
	encoding string
}

// RawResponse is what a [Transport] returns.
type RawResponse struct {
	StatusCode int
	Header     []HeaderField
	Body       []byte
}

func newResponse(raw *RawResponse, rawURL string) *Response {
	headers := make(map[string]string, len(raw.Header))
	for _, f := range raw.Header {
		headers[strings.ToLower(f.Name)] = f.Value
	}

	content := raw.Body
	if content == nil {
		content = []byte{}
	}

	return &Response{
		StatusCode: raw.StatusCode,
		Headers:    headers,
		Content:    content,
		URL:        rawURL,
	}
}

// OK reports whether the status code is in [200, 400).
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 400
}

// Text returns the body decoded with the charset named in the
// Content-Type header, or UTF-8. It never fails; undecodable bytes are
// replaced with U+FFFD.
func (r *Response) Text() string {
	r.decode()
	return r.text
}

// Encoding returns the charset [Response.Text] decoded with.
func (r *Response) Encoding() string {
	r.decode()
	return r.encoding
}

func (r *Response) decode() {
	r.textOnce.Do(func() {
		label := charsetFromContentType(r.Headers["content-type"])
		r.text, r.encoding = decodeText(r.Content, label)
	})
}

// JSON parses [Response.Text] into a generic value.
func (r *Response) JSON() (any, error) {
	var v any
	if err := r.DecodeJSON(&v); err != nil {
		return nil, err
	}

	return v, nil
}

// DecodeJSON parses [Response.Text] into dest, which must be a pointer.
func (r *Response) DecodeJSON(dest any) error {
	return r.decodeJSON(dest, false)
}

// DecodeJSONNumber is DecodeJSON with [json.Decoder.UseNumber], preserving
// number precision.
func (r *Response) DecodeJSONNumber(dest any) error {
	return r.decodeJSON(dest, true)
}

func (r *Response) decodeJSON(dest any, useNumber bool) error {
	d := json.NewDecoder(strings.NewReader(r.Text()))
	if useNumber {
		d.UseNumber()
	}

	if err := d.Decode(dest); err != nil {
		return &Error{Err: ErrJSON, Detail: "decoding body", Cause: err}
	}

	if _, err := d.Token(); !errors.Is(err, io.EOF) {
		return &Error{Err: ErrJSON, Detail: "decoding body: trailing data after json value"}
	}

	return nil
}

// RaiseForStatus returns an [*HTTPError] unless [Response.OK].
func (r *Response) RaiseForStatus() error {
	if r.OK() {
		return nil
	}

	return &HTTPError{StatusCode: r.StatusCode, Response: r}
}
