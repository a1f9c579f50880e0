package client

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

// DefaultPort is used when a URL carries no explicit port.
const DefaultPort = 443

// ResolvedURL is a validated https URL broken into the pieces the
// request descriptor needs.
type ResolvedURL struct {
	Scheme string
	Host   string
	Port   int
	Path   string
	Query  string
}

// Target returns the request-target sent on the request line.
func (u ResolvedURL) Target() string {
	if u.Query == "" {
		return u.Path
	}

	return u.Path + "?" + u.Query
}

// Addr returns host:port for dialing.
func (u ResolvedURL) Addr() string {
	return net.JoinHostPort(u.Host, strconv.Itoa(u.Port))
}

// ResolveURL validates rawURL and merges params into its query string.
// Only https URLs with a hostname are accepted. Existing query parameters
// are kept first, followed by params in the order given.
func ResolveURL(rawURL string, params Values) (ResolvedURL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ResolvedURL{}, invalidURL("parsing url", err)
	}

	if u.Scheme != "https" {
		return ResolvedURL{}, invalidURL(fmt.Sprintf("only https:// urls are supported, got scheme %q", u.Scheme), nil)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return ResolvedURL{}, invalidURL("url must include a hostname", nil)
	}

	if !isASCII(host) {
		ascii, err := idna.Lookup.ToASCII(host)
		if err != nil {
			return ResolvedURL{}, invalidURL(fmt.Sprintf("hostname %q", host), err)
		}
		host = ascii
	}

	port := DefaultPort
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil || port < 1 || port > 65535 {
			return ResolvedURL{}, invalidURL(fmt.Sprintf("port %q out of range", p), nil)
		}
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}

	query := u.RawQuery
	if extra := params.Encode(); extra != "" {
		if query != "" {
			query = query + "&" + extra
		} else {
			query = extra
		}
	}

	resolved := ResolvedURL{
		Scheme: u.Scheme,
		Host:   host,
		Port:   port,
		Path:   path,
		Query:  query,
	}

	return resolved, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}

	return true
}
