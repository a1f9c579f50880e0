// Package download writes response bodies to disk atomically with
// optional checksum and length validation.
//
// [Handle] writes the body to a temporary file alongside the destination
// path, then renames it on success:
//
//	err := download.Handle(ctx, bytes.NewReader(body), contentLength, destPath, logger,
//		download.WithChecksum(sha256.New(), expectedHex),
//	)
//
// Most callers should use [github.com/adamwoolhether/httpsreq/client.Session.Download],
// which invokes Handle internally and re-exports the options as
// client.With* functions.
package download
