package download

import (
	"errors"
	"hash"
)

// Option defines optional settings for writing files.
//
// WithChecksum enables checksum validation of the written file.
// h is a hash.Hash instance (e.g. sha256.New()), and expected is the
// hex-encoded expected checksum string.
//
// WithSkipExisting causes Handle to return nil immediately when
// the destination file already exists.
type Option func(*options) error

type options struct {
	checksum     *checksumVerifier
	skipExisting bool
}

func WithChecksum(h hash.Hash, expected string) Option {
	return func(opts *options) error {
		if h == nil {
			return errors.New("hash must not be nil")
		}

		if expected == "" {
			return errors.New("expected checksum must not be empty")
		}

		opts.checksum = &checksumVerifier{hash: h, expected: expected}
		return nil
	}
}

func WithSkipExisting() Option {
	return func(opts *options) error {
		opts.skipExisting = true
		return nil
	}
}
