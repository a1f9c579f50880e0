package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// Body is the payload sent with [WithData]. It is a closed set:
// [Raw], [Text] and [Form].
type Body interface {
	encode() (payload []byte, contentType string)
}

// Raw bytes are sent unchanged with no default Content-Type.
type Raw []byte

// Text is sent as UTF-8 with no default Content-Type.
type Text string

// Form is sent URL encoded with Content-Type
// application/x-www-form-urlencoded.
type Form Values

func (r Raw) encode() ([]byte, string) {
	if r == nil {
		return []byte{}, ""
	}

	return r, ""
}

func (t Text) encode() ([]byte, string) {
	return []byte(t), ""
}

func (f Form) encode() ([]byte, string) {
	return []byte(Values(f).Encode()), contentTypeForm
}

// encodedBody is the BodyEncoder output.
type encodedBody struct {
	payload     []byte
	contentType string
	present     bool
}

// encodeBody serializes the call payload. A JSON value takes precedence
// over data when both are set.
func encodeBody(opts requestOpts) (encodedBody, error) {
	switch {
	case opts.hasJSON:
		payload, err := canonicalJSON(opts.json)
		if err != nil {
			return encodedBody{}, invalidRequest("encoding json payload", err)
		}
		return encodedBody{payload: payload, contentType: contentTypeJSON, present: true}, nil

	case opts.data != nil:
		payload, contentType := opts.data.encode()
		return encodedBody{payload: payload, contentType: contentType, present: true}, nil
	}

	return encodedBody{}, nil
}

// canonicalJSON encodes v with ", " and ": " separators and every
// non-ASCII character escaped as \uXXXX.
func canonicalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	compact := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	out := make([]byte, 0, len(compact)+len(compact)/4)
	var inString, escaped bool
	for i := 0; i < len(compact); {
		c := compact[i]

		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRune(compact[i:])
			out = appendEscapedRune(out, r)
			i += size
			continue
		}

		out = append(out, c)
		i++

		switch {
		case inString && escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && (c == ',' || c == ':'):
			out = append(out, ' ')
		}
	}

	return out, nil
}

func appendEscapedRune(out []byte, r rune) []byte {
	if r > 0xFFFF {
		hi, lo := utf16.EncodeRune(r)
		out = appendUnicodeEscape(out, hi)
		return appendUnicodeEscape(out, lo)
	}

	return appendUnicodeEscape(out, r)
}

func appendUnicodeEscape(out []byte, r rune) []byte {
	return fmt.Appendf(out, `\u%04x`, r)
}
