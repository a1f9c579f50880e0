package client

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// DefaultUserAgent is sent unless a session or call overrides it.
const DefaultUserAgent = "httpsreq/0.1"

// HeaderField is a single header as it goes on the wire.
type HeaderField struct {
	Name  string
	Value string
}

// Header is an ordered set of header fields whose names are unique
// case-insensitively. Setting an existing name replaces its value and
// casing in place. The zero value is ready to use.
type Header struct {
	fields []HeaderField
}

// Get returns the value for name, matched case-insensitively.
func (h *Header) Get(name string) string {
	if i := h.index(name); i >= 0 {
		return h.fields[i].Value
	}

	return ""
}

// Has reports whether name is present.
func (h *Header) Has(name string) bool {
	return h.index(name) >= 0
}

// Set adds or replaces name.
func (h *Header) Set(name, value string) {
	if i := h.index(name); i >= 0 {
		h.fields[i] = HeaderField{Name: name, Value: value}
		return
	}

	h.fields = append(h.fields, HeaderField{Name: name, Value: value})
}

// SetDefault sets name only when it is not present yet.
func (h *Header) SetDefault(name, value string) {
	if !h.Has(name) {
		h.fields = append(h.fields, HeaderField{Name: name, Value: value})
	}
}

// Len returns the number of fields.
func (h *Header) Len() int {
	return len(h.fields)
}

// Fields returns a copy of the fields in wire order.
func (h *Header) Fields() []HeaderField {
	return slices.Clone(h.fields)
}

// Map returns the header as a lower-cased name to value mapping.
func (h *Header) Map() map[string]string {
	m := make(map[string]string, len(h.fields))
	for _, f := range h.fields {
		m[strings.ToLower(f.Name)] = f.Value
	}

	return m
}

// Keys returns the lower-cased header names. Together with Get and Set
// it lets a Header act as a propagation.TextMapCarrier.
func (h *Header) Keys() []string {
	keys := make([]string, len(h.fields))
	for i, f := range h.fields {
		keys[i] = strings.ToLower(f.Name)
	}

	return keys
}

// Clone returns a deep copy of h.
func (h *Header) Clone() Header {
	return Header{fields: slices.Clone(h.fields)}
}

func (h *Header) index(name string) int {
	return slices.IndexFunc(h.fields, func(f HeaderField) bool {
		return strings.EqualFold(f.Name, name)
	})
}

// headerFromMap builds a Header from m with names in sorted order, so the
// wire order does not depend on map iteration.
func headerFromMap(m map[string]string) Header {
	var h Header
	for _, k := range slices.Sorted(maps.Keys(m)) {
		h.Set(k, m[k])
	}

	return h
}

// mergeHeaders applies, in increasing precedence, the built-in defaults,
// the session defaults, the call headers and finally the body defaults,
// which only fill names nobody else set.
func mergeHeaders(host string, session, call Header, body encodedBody) (Header, error) {
	var merged Header
	merged.Set("host", host)
	merged.Set("user-agent", DefaultUserAgent)
	merged.Set("accept", "*/*")

	for _, src := range []Header{session, call} {
		for _, f := range src.fields {
			merged.Set(f.Name, f.Value)
		}
	}

	if body.contentType != "" {
		merged.SetDefault("content-type", body.contentType)
	}
	if body.present {
		merged.SetDefault("content-length", strconv.Itoa(len(body.payload)))
	}

	for _, f := range merged.fields {
		if !httpguts.ValidHeaderFieldName(f.Name) {
			return Header{}, invalidRequest(fmt.Sprintf("header name %q", f.Name), nil)
		}
		if !httpguts.ValidHeaderFieldValue(f.Value) {
			return Header{}, invalidRequest(fmt.Sprintf("value for header %q", f.Name), nil)
		}
	}

	return merged, nil
}
