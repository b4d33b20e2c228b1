package errs

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/tgfetch/TGFetch/internal/log"
)

// Classify maps any error to its taxonomy Record. Total over all inputs;
// everything unmapped falls through to UNKNOWN.
func Classify(err error) Record {
	var (
		refErr     *FileReferenceExpiredErr
		timeoutErr *RequestTimeoutErr
		badReqErr  *BadRequestErr
		authErr    *UnauthorizedErr
		largeErr   *FileTooLargeErr
		netWrapErr *NetworkErr
		cfgErr     *ConfigInvalidErr
	)
	switch {
	case errors.As(err, &refErr):
		return RecordFor(TagFileReferenceExpired)
	case errors.As(err, &timeoutErr):
		return RecordFor(TagTimeout)
	case errors.As(err, &badReqErr):
		return RecordFor(TagBadRequest)
	case errors.As(err, &authErr):
		return RecordFor(TagUnauthorized)
	case errors.As(err, &largeErr):
		return RecordFor(TagFileTooLarge)
	case errors.As(err, &netWrapErr):
		return RecordFor(TagNetworkError)
	case errors.As(err, &cfgErr):
		return RecordFor(TagConfigInvalid)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return RecordFor(TagTimeout)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return RecordFor(TagTimeout)
		}
		return RecordFor(TagNetworkError)
	}
	if errors.Is(err, os.ErrNotExist) {
		return RecordFor(TagDirectoryNotFound)
	}
	return RecordFor(TagUnknown)
}

// Handler accumulates error and warning counts across one session and
// renders classified failures at the right log level.
type Handler struct {
	mu            sync.Mutex
	errorCount    int
	warningsCount int
}

func NewHandler() *Handler {
	return &Handler{}
}

// Handle classifies err, bumps the matching counter and logs the rendered
// record. The critical flag forces error-severity bookkeeping. The raw
// error is always logged at debug level too.
func (h *Handler) Handle(err error, messageID int, critical bool) {
	ll := h.getLogger("Handle")
	record := Classify(err)
	prefix := ""
	if messageID != 0 {
		prefix = fmt.Sprintf("Message[%d]: ", messageID)
	}
	h.mu.Lock()
	if critical || record.Severity == SeverityError {
		h.errorCount++
		h.mu.Unlock()
		ll.Errorf("%s%s", prefix, record.Format())
	} else {
		h.warningsCount++
		h.mu.Unlock()
		ll.Warnf("%s%s", prefix, record.Format())
	}
	ll.WithError(err).Debugf("original error: %T", err)
}

// Summary renders a one-line error/warning report.
func (h *Handler) Summary() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.errorCount == 0 && h.warningsCount == 0 {
		return "no errors or warnings"
	}
	parts := []string{}
	if h.errorCount > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", h.errorCount, plural("error", h.errorCount)))
	}
	if h.warningsCount > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", h.warningsCount, plural("warning", h.warningsCount)))
	}
	out := parts[0]
	if len(parts) == 2 {
		out = parts[0] + ", " + parts[1]
	}
	return out
}

// HasIssues reports whether anything was recorded.
func (h *Handler) HasIssues() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.errorCount > 0 || h.warningsCount > 0
}

// Reset clears the counters.
func (h *Handler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errorCount = 0
	h.warningsCount = 0
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func (h *Handler) getLogger(fn string) *logrus.Entry {
	return log.GetLogger(log.ErrsModule).WithField("func", fmt.Sprintf("%T.%s", h, fn))
}
