package client

import (
	"bufio"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/adamwoolhether/httpsreq/client/throttle"
)

// Transport performs the wire exchange for a single request. The
// timeout, if any, arrives as the context deadline. When verify is
// false, certificate and hostname validation are skipped.
type Transport interface {
	Send(ctx context.Context, req *Request, verify bool) (*RawResponse, error)
}

// TransportFunc adapts a function to [Transport].
type TransportFunc func(ctx context.Context, req *Request, verify bool) (*RawResponse, error)

func (f TransportFunc) Send(ctx context.Context, req *Request, verify bool) (*RawResponse, error) {
	return f(ctx, req, verify)
}

// TLSTransport opens one TLS connection per request and closes it
// before returning.
type TLSTransport struct {
	// RootCAs replaces the system pool when set.
	RootCAs *x509.CertPool
	Logger  *slog.Logger
}

func (t *TLSTransport) Send(ctx context.Context, req *Request, verify bool) (*RawResponse, error) {
	logger := t.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	dialer := &tls.Dialer{
		Config: &tls.Config{
			ServerName:         req.Host,
			RootCAs:            t.RootCAs,
			InsecureSkipVerify: !verify,
			MinVersion:         tls.VersionTLS12,
		},
	}

	addr := net.JoinHostPort(req.Host, strconv.Itoa(req.Port))
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", addr, err)
	}
	defer func() {
		if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			logger.Error("failed to close connection", "addr", addr, "error", err)
		}
	}()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return nil, fmt.Errorf("setting deadline: %w", err)
		}
	}

	// Unblock any pending read or write once ctx ends.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	if err := req.Write(conn); err != nil {
		return nil, fmt.Errorf("writing request: %w", err)
	}

	br := bufio.NewReader(conn)
	probe := &http.Request{Method: req.Method}

	var resp *http.Response
	for {
		resp, err = http.ReadResponse(br, probe)
		if err != nil {
			return nil, fmt.Errorf("reading response: %w", err)
		}

		// Skip interim responses such as 100 Continue.
		if resp.StatusCode >= http.StatusOK || resp.StatusCode == http.StatusSwitchingProtocols {
			break
		}
	}

	body, err := io.ReadAll(resp.Body)
	if cerr := resp.Body.Close(); cerr != nil {
		logger.Error("failed to close response body", "error", cerr)
	}
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	raw := RawResponse{
		StatusCode: resp.StatusCode,
		Header:     headerFields(resp.Header),
		Body:       body,
	}

	return &raw, nil
}

// headerFields flattens h in sorted name order, keeping repeated values
// in the order they were received.
func headerFields(h http.Header) []HeaderField {
	var fields []HeaderField
	for _, name := range slices.Sorted(maps.Keys(h)) {
		for _, v := range h[name] {
			fields = append(fields, HeaderField{Name: name, Value: v})
		}
	}

	return fields
}

// throttled waits on the limiter before delegating to next.
type throttled struct {
	limiter *throttle.Limiter
	next    Transport
}

func (t throttled) Send(ctx context.Context, req *Request, verify bool) (*RawResponse, error) {
	if err := t.limiter.Wait(ctx, req.Host+req.Target); err != nil {
		return nil, err
	}

	return t.next.Send(ctx, req, verify)
}
