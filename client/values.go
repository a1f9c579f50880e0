package client

import (
	"net/url"
	"slices"
	"strings"
)

// Field is a single query or form key with one or more values.
type Field struct {
	Key    string
	Values []string
}

// Values is an ordered list of fields. Unlike [url.Values] it keeps the
// order the caller supplied, which is the order they are encoded in.
type Values []Field

// Param builds a [Field]. Multiple values expand to repeated key=value
// pairs when encoded; no values encodes nothing.
func Param(key string, values ...string) Field {
	return Field{Key: key, Values: values}
}

// ValuesFrom converts a [url.Values] into [Values], sorted by key.
func ValuesFrom(v url.Values) Values {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make(Values, 0, len(keys))
	for _, k := range keys {
		out = append(out, Field{Key: k, Values: v[k]})
	}

	return out
}

// Encode renders the values in "URL encoded" form, in order.
func (v Values) Encode() string {
	var sb strings.Builder
	for _, f := range v {
		key := url.QueryEscape(f.Key)
		for _, val := range f.Values {
			if sb.Len() > 0 {
				sb.WriteByte('&')
			}
			sb.WriteString(key)
			sb.WriteByte('=')
			sb.WriteString(url.QueryEscape(val))
		}
	}

	return sb.String()
}
