package dispatch

import (
	"errors"
	"time"

	"github.com/tgfetch/TGFetch/internal/errs"
)

// Retry discipline for one message.
const (
	MaxRetries        = 3
	InitialRetryDelay = 5 * time.Second
	MaxRetryDelay     = 300 * time.Second
)

// phase is the control state of one message's download loop.
type phase int

const (
	phaseAttempt phase = iota
	phaseRefetch
	phaseBackoff
	phaseDone
	phaseFailed
)

func (p phase) String() string {
	switch p {
	case phaseAttempt:
		return "attempt"
	case phaseRefetch:
		return "refetch"
	case phaseBackoff:
		return "backoff"
	case phaseDone:
		return "done"
	case phaseFailed:
		return "failed"
	}
	return "unknown"
}

// nextPhase maps the outcome of attempt number `attempt` (zero-based) to
// the next control state. Expired file references are retried through a
// refetch, timeouts through a backoff sleep; both become terminal once
// maxRetries attempts are spent. Everything else fails immediately.
func nextPhase(err error, attempt int, maxRetries int) phase {
	if err == nil {
		return phaseDone
	}
	exhausted := attempt+1 >= maxRetries
	var refErr *errs.FileReferenceExpiredErr
	if errors.As(err, &refErr) {
		if exhausted {
			return phaseFailed
		}
		return phaseRefetch
	}
	var toErr *errs.RequestTimeoutErr
	if errors.As(err, &toErr) {
		if exhausted {
			return phaseFailed
		}
		return phaseBackoff
	}
	return phaseFailed
}

// backoffDelay computes an exponential delay for the given zero-based
// attempt with a jitter fraction in [0,1), capped at MaxRetryDelay.
func backoffDelay(attempt int, jitter float64) time.Duration {
	d := time.Duration(1<<uint(attempt))*InitialRetryDelay + time.Duration(jitter*float64(time.Second))
	if d > MaxRetryDelay {
		return MaxRetryDelay
	}
	return d
}

// unexpected reports whether err falls outside the known failure taxonomy
// and should be escalated as critical.
func unexpected(err error) bool {
	var (
		refErr  *errs.FileReferenceExpiredErr
		toErr   *errs.RequestTimeoutErr
		badErr  *errs.BadRequestErr
		authErr *errs.UnauthorizedErr
		bigErr  *errs.FileTooLargeErr
	)
	switch {
	case errors.As(err, &refErr), errors.As(err, &toErr), errors.As(err, &badErr),
		errors.As(err, &authErr), errors.As(err, &bigErr):
		return false
	}
	return true
}
