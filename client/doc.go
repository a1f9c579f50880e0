// Package client implements a minimal HTTPS client: it builds a wire-level
// HTTP/1.1 request, sends it over a fresh TLS connection and decodes the
// response.
//
// # Building a Session
//
// Use [Build] to create a [Session] with functional options:
//
//	s, err := client.Build(
//		client.WithTimeout(10 * time.Second),
//		client.WithDefaultHeader("Authorization", "Bearer token"),
//	)
//
// # Making Requests
//
// Every verb has a shorthand on [Session]; call options set query
// parameters, the body and per-call headers:
//
//	resp, err := s.Get(ctx, "https://example.com/search",
//		client.WithParam("q", "test"),
//	)
//	resp, err = s.Post(ctx, "https://example.com/items",
//		client.WithJSON(map[string]int{"a": 1}),
//	)
//	resp, err = s.Post(ctx, "https://example.com/login",
//		client.WithData(client.Form{client.Param("user", "alice")}),
//	)
//
// Only https URLs are accepted. Headers are merged in increasing
// precedence: built-in defaults, session headers, call headers, and
// finally Content-Type/Content-Length derived from the body, which only
// apply when nobody else set them.
//
// # Reading Responses
//
// [Response.Text] decodes the body with the charset from Content-Type,
// falling back to UTF-8. [Response.JSON] and [Response.DecodeJSON] parse
// it. [Response.RaiseForStatus] turns a status outside [200, 400) into an
// [*HTTPError].
//
// # Errors
//
// All error kinds wrap [ErrClient]; match them with errors.Is:
//
//	switch {
//	case errors.Is(err, client.ErrInvalidURL):
//	case errors.Is(err, client.ErrTimeout):
//	case errors.Is(err, client.ErrHTTP):
//	case errors.Is(err, client.ErrJSON):
//	}
//
// # Downloading Files
//
// [Session.Download] writes a response body to disk atomically with
// optional checksum verification:
//
//	err = s.Download(ctx, "https://example.com/file.bin", "/tmp/file.bin",
//		client.WithChecksum(sha256.New(), expectedHex),
//	)
package client
