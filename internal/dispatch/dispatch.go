package dispatch

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/tgfetch/TGFetch/internal/errs"
	"github.com/tgfetch/TGFetch/internal/fileutil"
	"github.com/tgfetch/TGFetch/internal/log"
	"github.com/tgfetch/TGFetch/internal/media"
	"github.com/tgfetch/TGFetch/internal/state"
	"github.com/tgfetch/TGFetch/internal/tlg"
	"github.com/tgfetch/TGFetch/internal/types"
)

// DefaultMaxConcurrent bounds the number of simultaneous downloads.
const DefaultMaxConcurrent = 5

// MediaClient is the subset of the messaging client the dispatcher needs.
type MediaClient interface {
	GetMessages(ctx context.Context, target tlg.ChatTarget, ids []int) ([]*types.Message, error)
	DownloadMedia(ctx context.Context, msg *types.Message, destPath string, onProgress func(current, total int64)) (string, error)
}

// IDispatcher downloads message media with bounded retries and a shared
// concurrency limit. Failures never propagate: every outcome lands in the
// download state.
type IDispatcher interface {
	Download(ctx context.Context, msg *types.Message) int
	ProcessBatch(ctx context.Context, msgs []*types.Message) int
}

// Config carries the per-session download policy. Sleep and Jitter default
// to real timing when nil.
type Config struct {
	Target        tlg.ChatTarget
	AcceptedKinds map[media.Kind]struct{}
	Policy        media.FormatPolicy
	DestDir       string
	MaxConcurrent int64
	Sleep         func(ctx context.Context, d time.Duration)
	Jitter        func() float64
}

type dispatcher struct {
	client  MediaClient
	state   *state.DownloadState
	handler *errs.Handler
	cfg     Config
	sem     *semaphore.Weighted
}

var _ IDispatcher = (*dispatcher)(nil)

// Download fetches one message's media respecting kind and format policy.
// It always returns the message id; terminal failures are recorded in the
// download state instead of being returned.
func (d *dispatcher) Download(ctx context.Context, msg *types.Message) int {
	if err := d.sem.Acquire(ctx, 1); err != nil {
		d.report(fmt.Errorf("can not acquire download permit: %w", err), msg.ID, false)
		return msg.ID
	}
	defer d.sem.Release(1)
	d.run(ctx, msg)
	return msg.ID
}

// ProcessBatch downloads every message of a batch concurrently and waits
// for all of them, returning the maximum message id of the batch.
func (d *dispatcher) ProcessBatch(ctx context.Context, msgs []*types.Message) int {
	ll := d.getLogger("ProcessBatch")
	ll.Debugf("dispatching batch of %d messages", len(msgs))
	var mu sync.Mutex
	maxID := 0
	g := new(errgroup.Group)
	for _, msg := range msgs {
		g.Go(func() error {
			id := d.Download(ctx, msg)
			mu.Lock()
			if id > maxID {
				maxID = id
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return maxID
}

func (d *dispatcher) run(ctx context.Context, msg *types.Message) {
	ll := d.getLogger("run").WithField("message", msg.ID)
	kind, ok := media.Classify(msg)
	if !ok {
		ll.Debug("no media. skipping ...")
		return
	}
	if _, accepted := d.cfg.AcceptedKinds[kind]; !accepted {
		ll.Debugf("media type %s not requested. skipping ...", kind)
		return
	}
	meta := media.ResolveMeta(msg.Media, kind, d.cfg.DestDir)
	if !d.cfg.Policy.Allowed(kind, meta.Format) {
		ll.Debugf("format %q of %s not allowed. skipping ...", meta.Format, kind)
		return
	}
	destPath := meta.Path
	if fileutil.IsFile(destPath) {
		destPath = fileutil.NextAvailableName(destPath)
	}
	cur := msg
	for attempt := 0; ; attempt++ {
		written, err := d.client.DownloadMedia(ctx, cur, destPath, d.progress(cur.ID))
		switch nextPhase(err, attempt, MaxRetries) {
		case phaseDone:
			d.finish(cur.ID, written)
			return
		case phaseRefetch:
			d.report(err, cur.ID, false)
			fresh, refErr := d.refetch(ctx, cur.ID)
			if refErr != nil {
				d.report(refErr, cur.ID, false)
				d.state.MarkFailed(cur.ID)
				return
			}
			cur = fresh
		case phaseBackoff:
			d.report(err, cur.ID, false)
			delay := backoffDelay(attempt, d.cfg.Jitter())
			ll.Debugf("backing off for %s (attempt %d)", delay, attempt+1)
			d.cfg.Sleep(ctx, delay)
		case phaseFailed:
			d.report(err, cur.ID, unexpected(err))
			d.state.MarkFailed(cur.ID)
			return
		}
	}
}

// finish reconciles the written file against pre-existing duplicates and
// records the success with the real on-disk size.
func (d *dispatcher) finish(msgID int, written string) {
	ll := d.getLogger("finish").WithField("message", msgID)
	final := fileutil.Reconcile(written)
	info, err := os.Stat(final)
	if err != nil {
		d.report(fmt.Errorf("can not stat downloaded file: %w", err), msgID, false)
		d.state.MarkFailed(msgID)
		return
	}
	d.state.MarkDownloaded(msgID, info.Size())
	ll.Infof("downloaded %s (%s)", final, humanize.Bytes(uint64(info.Size())))
}

// refetch re-reads one message by id to refresh its file reference.
func (d *dispatcher) refetch(ctx context.Context, msgID int) (*types.Message, error) {
	fresh, err := d.client.GetMessages(ctx, d.cfg.Target, []int{msgID})
	if err != nil {
		return nil, fmt.Errorf("can not refetch message: %w", err)
	}
	if len(fresh) == 0 || fresh[0] == nil || fresh[0].Media == nil {
		return nil, fmt.Errorf("can not refetch message: media gone")
	}
	return fresh[0], nil
}

func (d *dispatcher) report(err error, msgID int, critical bool) {
	if err == nil {
		return
	}
	if d.handler != nil {
		d.handler.Handle(err, msgID, critical)
		return
	}
	ll := d.getLogger("report").WithField("message", msgID)
	if critical {
		ll.WithError(err).Error("download failed")
	} else {
		ll.WithError(err).Warn("download failed")
	}
}

func (d *dispatcher) progress(msgID int) func(current, total int64) {
	ll := d.getLogger("progress").WithField("message", msgID)
	return func(current, total int64) {
		if total > 0 && current >= total {
			ll.Debugf("received %s", humanize.Bytes(uint64(total)))
		}
	}
}

func (d *dispatcher) getLogger(fn string) *logrus.Entry {
	return log.GetLogger(log.DispatchModule).WithField("func", fmt.Sprintf("%T.%s", d, fn))
}

// NewDispatcher builds a dispatcher around a messaging client, a shared
// download state and an error handler (nil handler falls back to direct
// logging).
func NewDispatcher(client MediaClient, st *state.DownloadState, handler *errs.Handler, cfg Config) IDispatcher {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = DefaultMaxConcurrent
	}
	if cfg.Sleep == nil {
		cfg.Sleep = func(ctx context.Context, dur time.Duration) {
			t := time.NewTimer(dur)
			defer t.Stop()
			select {
			case <-ctx.Done():
			case <-t.C:
			}
		}
	}
	if cfg.Jitter == nil {
		cfg.Jitter = rand.Float64
	}
	return &dispatcher{
		client:  client,
		state:   st,
		handler: handler,
		cfg:     cfg,
		sem:     semaphore.NewWeighted(cfg.MaxConcurrent),
	}
}
