package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds how often a single mutation is resubmitted.
type RetryPolicy struct {
	// MaxAttempts is the total number of submissions, including the first. Values below 1 mean 1.
	MaxAttempts int

	// InitialInterval is the wait after the first failure.
	InitialInterval time.Duration

	// MaxInterval caps the exponential growth of the wait.
	MaxInterval time.Duration

	// Multiplier scales the wait after every failure.
	Multiplier float64
}

// DefaultRetryPolicy starts at the five second wait the vendor sync has always used
// and gives up after five submissions.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     5,
		InitialInterval: 5 * time.Second,
		MaxInterval:     time.Minute,
		Multiplier:      2,
	}
}

// Attempt records one submission and how it was classified.
type Attempt struct {
	Outcome Outcome
	Err     error
}

// Result is the outcome of running an operation under a RetryPolicy.
type Result struct {
	// Outcome is OutcomeSucceeded or OutcomeTerminalFailure.
	Outcome  Outcome
	Err      error
	Attempts []Attempt
}

// Retries returns the number of resubmissions after the first attempt.
func (r Result) Retries() int {
	if len(r.Attempts) == 0 {
		return 0
	}
	return len(r.Attempts) - 1
}

// Classify maps a submission error to an Outcome.
// Context cancellation and errors marked permanent are terminal; errors that
// implement Retryable() report their own class; anything else is retryable.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeSucceeded
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return OutcomeTerminalFailure
	}
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return OutcomeTerminalFailure
	}
	var r retryable
	if errors.As(err, &r) && !r.Retryable() {
		return OutcomeTerminalFailure
	}
	return OutcomeRetryableFailure
}

// Do runs op until it succeeds, fails terminally, or MaxAttempts is reached.
// notify, if non-nil, is called before every wait.
func (p RetryPolicy) Do(ctx context.Context, op func(ctx context.Context) error, notify func(attempt int, err error, wait time.Duration)) Result {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	b := p.backOff()
	var res Result
	for attempt := 1; ; attempt++ {
		err := op(ctx)
		outcome := Classify(err)
		res.Attempts = append(res.Attempts, Attempt{Outcome: outcome, Err: err})

		switch {
		case outcome == OutcomeSucceeded:
			res.Outcome = OutcomeSucceeded
			return res
		case outcome == OutcomeTerminalFailure, attempt >= maxAttempts:
			res.Outcome = OutcomeTerminalFailure
			res.Err = err
			return res
		}

		wait := b.NextBackOff()
		if wait == backoff.Stop {
			res.Outcome = OutcomeTerminalFailure
			res.Err = err
			return res
		}
		if notify != nil {
			notify(attempt, err, wait)
		}
		if serr := sleep(ctx, wait); serr != nil {
			res.Outcome = OutcomeTerminalFailure
			res.Err = errors.Join(err, serr)
			return res
		}
	}
}

func (p RetryPolicy) backOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	if p.Multiplier > 0 {
		b.Multiplier = p.Multiplier
	}
	b.RandomizationFactor = 0
	// Attempts, not elapsed time, bound the policy.
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
