package client

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

const defaultCharset = "utf-8"

// charsetFromContentType returns the token after the last "charset=" up
// to the next ";", trimmed and unquoted. It returns "" when absent.
func charsetFromContentType(contentType string) string {
	i := strings.LastIndex(contentType, "charset=")
	if i < 0 {
		return ""
	}

	value := contentType[i+len("charset="):]
	if end := strings.IndexByte(value, ';'); end >= 0 {
		value = value[:end]
	}

	return strings.Trim(strings.TrimSpace(value), `"'`)
}

// lookupEncoding resolves a charset label. It reports false for unknown
// or unsupported labels.
func lookupEncoding(label string) (encoding.Encoding, bool) {
	if label == "" {
		return nil, false
	}

	if enc, err := ianaindex.IANA.Encoding(label); err == nil && enc != nil {
		return enc, true
	}

	if enc, err := htmlindex.Get(label); err == nil && enc != nil {
		return enc, true
	}

	return nil, false
}

// decodeText decodes content with the named charset, falling back to
// UTF-8 for unknown labels. Invalid sequences become U+FFFD; it never
// fails. The returned name is the charset actually used.
func decodeText(content []byte, label string) (string, string) {
	if enc, ok := lookupEncoding(label); ok {
		if out, err := enc.NewDecoder().Bytes(content); err == nil {
			return string(out), label
		}
	}

	out, err := unicode.UTF8.NewDecoder().Bytes(content)
	if err != nil {
		return strings.ToValidUTF8(string(content), "\uFFFD"), defaultCharset
	}

	return string(out), defaultCharset
}
