// Package throttle rate-limits outbound requests using a token-bucket
// algorithm from [golang.org/x/time/rate].
//
// # Usage
//
// Create a [Limiter] with [New] and call [Limiter.Wait] before each send:
//
//	l, err := throttle.New(
//		10, // requests per second
//		5,  // burst capacity
//		func() *slog.Logger { return slog.Default() },
//	)
//	if err := l.Wait(ctx, "example.com/"); err != nil { ... }
//
// When the rate limit is exceeded, Wait blocks until a token becomes
// available or the context ends.
package throttle
