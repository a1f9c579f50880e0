package throttle

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNew_Validation(t *testing.T) {
	testCases := []struct {
		name   string
		rps    int
		burst  int
		expErr error
	}{
		{
			name:   "Invalid RPS (zero)",
			rps:    0,
			burst:  10,
			expErr: ErrMustNotBeZero,
		},
		{
			name:   "Invalid RPS (negative)",
			rps:    -5,
			burst:  10,
			expErr: ErrMustNotBeZero,
		},
		{
			name:   "Invalid Burst (zero)",
			rps:    10,
			burst:  0,
			expErr: ErrMustNotBeZero,
		},
		{
			name:   "Invalid Burst (negative)",
			rps:    10,
			burst:  -5,
			expErr: ErrMustNotBeZero,
		},
		{
			name:  "Valid input",
			rps:   10,
			burst: 20,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l, err := New(tc.rps, tc.burst, func() *slog.Logger { return nil })

			if tc.expErr != nil {
				if !errors.Is(err, tc.expErr) {
					t.Errorf("exp err %v; got: %v", tc.expErr, err)
				}
			} else {
				if err != nil {
					t.Errorf("exp nil err, got: %v", err)
				}

				if l == nil {
					t.Error("exp non-nil Limiter")
				}
			}
		})
	}
}

func TestLimiter_Wait(t *testing.T) {
	checkWaitingFailed := func(t *testing.T, err error, caseName string) {
		if !errors.Is(err, ErrWaitingFailed) {
			t.Errorf("%s should have returned ErrWaitingFailed, got: %v", caseName, err)
		}
	}
	checkContextEnded := func(t *testing.T, err error, caseName string) {
		if !errors.Is(err, context.Canceled) {
			t.Errorf("%s should have returned context.Canceled, got %v", caseName, err)
		}
		if !errors.Is(err, ErrContextEnded) {
			t.Errorf("%s should have returned ErrContextEnded, got: %v", caseName, err)
		}
	}
	checkFast := func(t *testing.T, duration time.Duration, threshold time.Duration, caseName string) {
		if duration > threshold {
			t.Errorf("[%s] should be fast (< %v); but took %v", caseName, threshold, duration)
		}
	}
	checkSlowedDown := func(t *testing.T, duration time.Duration, minThreshold time.Duration, caseName string) {
		if duration < minThreshold {
			t.Errorf("[%s] execution should be slowed down by throttle (>= %v), but took %v", caseName, minThreshold, duration)
		}
	}

	testCases := []struct {
		name          string
		rps           int
		burst         int
		numWaits      int
		waitTimeout   time.Duration
		preCancel     bool
		expectErrs    int
		errorCheck    func(t *testing.T, err error, caseName string)
		durationCheck func(t *testing.T, duration time.Duration, caseName string)
	}{
		{
			name:       "High Limits - Concurrent Load",
			rps:        10000,
			burst:      100,
			numWaits:   50,
			expectErrs: 0,
			durationCheck: func(t *testing.T, duration time.Duration, caseName string) {
				checkFast(t, duration, 200*time.Millisecond, caseName)
			},
		},
		{
			name:        "Low Limit - Exceed Burst & Timeout Waiting",
			rps:         5,
			burst:       2,
			numWaits:    5, // 2 use burst, the rest would wait >= 200ms
			waitTimeout: 50 * time.Millisecond,
			expectErrs:  3,
			errorCheck:  checkWaitingFailed,
		},
		{
			name:        "Low Limit - Exceed Burst - Succeed Waiting",
			rps:         10,
			burst:       5,
			numWaits:    8,
			waitTimeout: 500 * time.Millisecond,
			expectErrs:  0,
			durationCheck: func(t *testing.T, duration time.Duration, caseName string) {
				// (8-5 waits) / 10 RPS = 0.3 seconds
				minDuration := time.Duration(float64(time.Second) * float64(8-5) / float64(10))
				checkSlowedDown(t, duration, minDuration, caseName)
			},
		},
		{
			name:       "Pre-Cancelled Context Fails Early",
			rps:        20,
			burst:      10,
			numWaits:   1,
			preCancel:  true,
			expectErrs: 1,
			errorCheck: checkContextEnded,
			durationCheck: func(t *testing.T, duration time.Duration, caseName string) {
				checkFast(t, duration, 50*time.Millisecond, caseName)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l, err := New(tc.rps, tc.burst, func() *slog.Logger { return nil })
			if err != nil {
				t.Fatal(err)
			}

			var wg sync.WaitGroup
			errs := make([]error, tc.numWaits)

			start := time.Now()
			for i := range tc.numWaits {
				wg.Add(1)
				go func(idx int) {
					defer wg.Done()

					var ctx context.Context
					var cancel context.CancelFunc
					if tc.waitTimeout > 0 {
						ctx, cancel = context.WithTimeout(t.Context(), tc.waitTimeout)
					} else {
						ctx, cancel = context.WithCancel(t.Context())
					}
					defer cancel()

					if tc.preCancel {
						cancel()
					}

					errs[idx] = l.Wait(ctx, "example.com/")
				}(i)
			}
			wg.Wait()
			duration := time.Since(start)

			failed := 0
			for i, err := range errs {
				if err != nil {
					failed++
					t.Logf("Wait %d failed with: %v", i, err)
					if tc.errorCheck != nil {
						tc.errorCheck(t, err, tc.name)
					}
				}
			}

			if tc.expectErrs != failed {
				t.Errorf("expected %d failed waits; got %d", tc.expectErrs, failed)
			}

			if tc.durationCheck != nil {
				tc.durationCheck(t, duration, tc.name)
			}
		})
	}
}

func TestLimiter_LogsWhenExhausted(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	l, err := New(50, 1, func() *slog.Logger { return logger })
	if err != nil {
		t.Fatal(err)
	}

	for range 2 {
		if err := l.Wait(t.Context(), "example.com/logs"); err != nil {
			t.Fatalf("exp nil err, got: %v", err)
		}
	}

	out := buf.String()
	if !strings.Contains(out, "throttle tokens exhausted") {
		t.Errorf("expected exhausted log record, got: %s", out)
	}
	if !strings.Contains(out, "throttle wait complete") {
		t.Errorf("expected wait complete log record, got: %s", out)
	}
}
