package client

import (
	"bytes"
	"context"
	"fmt"
	"hash"
	"strconv"

	"github.com/adamwoolhether/httpsreq/client/download"
)

// --------------------------------------------------------------------
// Type aliases: re-export user-facing types from [download].
// --------------------------------------------------------------------

type (
	// DownloadOption configures [Session.Download].
	DownloadOption = download.Option

	// DownloadError wraps a sentinel error with additional detail.
	DownloadError = download.Error
)

// --------------------------------------------------------------------
// Sentinel errors
// --------------------------------------------------------------------

var (
	// ErrContentLengthMismatch indicates the byte count did not match Content-Length.
	ErrContentLengthMismatch = download.ErrContentLengthMismatch

	// ErrChecksumMismatch indicates the file checksum did not match the expected value.
	ErrChecksumMismatch = download.ErrChecksumMismatch

	// ErrDownloadCancelled indicates the write was cancelled via context.
	ErrDownloadCancelled = download.ErrDownloadCancelled
)

// --------------------------------------------------------------------
// Download option forwarding functions
// --------------------------------------------------------------------

// WithChecksum enables checksum validation of the downloaded file.
// h is a [hash.Hash] instance (e.g. sha256.New()), and expected is the
// hex-encoded expected checksum string.
func WithChecksum(h hash.Hash, expected string) DownloadOption {
	return download.WithChecksum(h, expected)
}

// WithSkipExisting causes a download to return nil immediately when
// the destination file already exists.
func WithSkipExisting() DownloadOption { return download.WithSkipExisting() }

// Download GETs rawURL with the session defaults and writes the body to
// destPath atomically. Non-OK responses fail with [*HTTPError] and
// leave destPath untouched.
func (s *Session) Download(ctx context.Context, rawURL, destPath string, opts ...DownloadOption) error {
	resp, err := s.Get(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}

	if err := resp.RaiseForStatus(); err != nil {
		return fmt.Errorf("download: %w", err)
	}

	contentLength := int64(-1)
	if cl, ok := resp.Headers["content-length"]; ok {
		if n, err := strconv.ParseInt(cl, 10, 64); err == nil {
			contentLength = n
		}
	}

	if err := download.Handle(ctx, bytes.NewReader(resp.Content), contentLength, destPath, s.logger, opts...); err != nil {
		return fmt.Errorf("download: %w", err)
	}

	return nil
}
