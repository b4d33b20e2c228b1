package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tgfetch/TGFetch/internal/config"
	"github.com/tgfetch/TGFetch/internal/dispatch"
	"github.com/tgfetch/TGFetch/internal/errs"
	"github.com/tgfetch/TGFetch/internal/export"
	"github.com/tgfetch/TGFetch/internal/log"
	"github.com/tgfetch/TGFetch/internal/media"
	"github.com/tgfetch/TGFetch/internal/state"
	"github.com/tgfetch/TGFetch/internal/tlg"
	"github.com/tgfetch/TGFetch/internal/types"
	"github.com/tgfetch/TGFetch/internal/validate"
)

const (
	// DefaultPaginationLimit is the batch size when the config does not
	// set one.
	DefaultPaginationLimit = 100
	// defaultPersistEvery is how many new successes trigger an
	// intermediate config persist.
	defaultPersistEvery = 50
	// defaultExportFile is the export path when export_messages is on
	// but no file is configured.
	defaultExportFile = "messages_export.json"
)

// ISession runs one full download session from cursor to summary.
type ISession interface {
	Run(ctx context.Context) (*types.DownloadSummary, error)
}

// Options tune a session. Zero values fall back to production defaults;
// Sleep, Jitter and NewDispatcher exist so tests run without real timing.
type Options struct {
	PersistEvery  int
	MaxConcurrent int64
	Sleep         func(ctx context.Context, d time.Duration)
	Jitter        func() float64
	NewDispatcher func(client dispatch.MediaClient, st *state.DownloadState, handler *errs.Handler, cfg dispatch.Config) dispatch.IDispatcher
}

type session struct {
	client tlg.IClient
	store  config.IStore
	doc    config.Document
	opts   Options
}

var _ ISession = (*session)(nil)

// settings is the resolved, validated configuration of one run.
type settings struct {
	target     tlg.ChatTarget
	lastRead   int
	pagLimit   int
	maxMsgs    int
	startDate  time.Time
	endDate    time.Time
	destDir    string
	exportPath string
	kinds      map[media.Kind]struct{}
	policy     media.FormatPolicy
	prevRetry  []int
}

func (s *session) resolveSettings() (*settings, error) {
	ll := s.getLogger("resolveSettings")
	targetVal, err := validate.ChatTarget(s.doc["chat_id"])
	if err != nil {
		return nil, &errs.ConfigInvalidErr{Err: err}
	}
	lastRead, err := s.doc.Int("last_read_message_id", 0)
	if err != nil {
		return nil, &errs.ConfigInvalidErr{Err: err}
	}
	pagLimit, err := s.doc.Int("pagination_limit", DefaultPaginationLimit)
	if err != nil {
		return nil, &errs.ConfigInvalidErr{Err: err}
	}
	if pagLimit <= 0 {
		pagLimit = DefaultPaginationLimit
	}
	maxMsgs, err := s.doc.Int("max_messages", 0)
	if err != nil {
		return nil, &errs.ConfigInvalidErr{Err: err}
	}
	if maxMsgs > 0 {
		ll.Infof("max messages to download: %d", maxMsgs)
	} else {
		ll.Info("max messages to download: unlimited")
	}
	startDate, err := s.doc.Time("start_date")
	if err != nil {
		return nil, &errs.ConfigInvalidErr{Err: err}
	}
	endDate, err := s.doc.Time("end_date")
	if err != nil {
		return nil, &errs.ConfigInvalidErr{Err: err}
	}
	destDir, err := s.setupDownloadDir()
	if err != nil {
		return nil, err
	}
	return &settings{
		target:     tlg.TargetFromValue(targetVal),
		lastRead:   lastRead,
		pagLimit:   pagLimit,
		maxMsgs:    maxMsgs,
		startDate:  startDate,
		endDate:    endDate,
		destDir:    destDir,
		exportPath: s.resolveExportPath(destDir),
		kinds:      media.ParseKinds(s.doc.StrSlice("media_types")),
		policy:     media.ParsePolicy(s.doc.StrSliceMap("file_formats")),
		prevRetry:  s.doc.IntSlice("ids_to_retry"),
	}, nil
}

// setupDownloadDir resolves download_directory to an absolute, existing,
// writable directory. Defaults to the working directory.
func (s *session) setupDownloadDir() (string, error) {
	ll := s.getLogger("setupDownloadDir")
	dir := s.doc.Str("download_directory")
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("can not resolve working directory: %w", err)
		}
		return cwd, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("can not resolve download directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("can not create download directory: %w", err)
	}
	ll.Infof("custom download directory: %s", abs)
	return abs, nil
}

func (s *session) resolveExportPath(destDir string) string {
	if !s.doc.Bool("export_messages") {
		return ""
	}
	p := s.doc.Str("export_messages_file")
	if p == "" {
		p = defaultExportFile
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(destDir, p)
	}
	return p
}

// Run executes the whole session: validate, connect, retry-seed, scan,
// drain and finalize. A summary is returned even when the scan aborts.
func (s *session) Run(ctx context.Context) (*types.DownloadSummary, error) {
	ll := s.getLogger("Run")
	startedAt := time.Now()
	cfg, err := s.resolveSettings()
	if err != nil {
		return nil, fmt.Errorf("can not resolve session settings: %w", err)
	}
	if err := s.client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("can not connect client: %w", err)
	}
	defer func() {
		if err := s.client.Disconnect(); err != nil {
			ll.WithError(err).Warn("can not disconnect client")
		}
	}()

	st := state.NewDownloadState()
	handler := errs.NewHandler()
	disp := s.opts.NewDispatcher(s.client, st, handler, dispatch.Config{
		Target:        cfg.target,
		AcceptedKinds: cfg.kinds,
		Policy:        cfg.policy,
		DestDir:       cfg.destDir,
		MaxConcurrent: s.opts.MaxConcurrent,
		Sleep:         s.opts.Sleep,
		Jitter:        s.opts.Jitter,
	})

	run := &runLoop{
		session:  s,
		cfg:      cfg,
		st:       st,
		handler:  handler,
		disp:     disp,
		cursor:   cfg.lastRead,
		batchCap: cfg.pagLimit,
	}
	run.seedRetries(ctx)
	scanErr := run.scan(ctx)
	run.drain(ctx)

	if err := s.persist(run.cursor, cfg.prevRetry, st); err != nil {
		ll.WithError(err).Error("can not persist final session state")
	}

	summary := &types.DownloadSummary{
		SessionID:           uuid.NewString(),
		TotalMessages:       run.totalScanned,
		SuccessfulDownloads: st.DownloadedCount(),
		FailedDownloads:     st.FailedCount(),
		SkippedMessages:     run.dateSkipped,
		TotalSizeBytes:      st.TotalSizeBytes(),
		Duration:            time.Since(startedAt),
	}
	if handler.HasIssues() {
		ll.Info(handler.Summary())
	}
	if scanErr != nil {
		return summary, fmt.Errorf("message scan aborted: %w", scanErr)
	}
	return summary, nil
}

// persist writes the cursor and the derived retry list back through the
// preserve-unknown-keys update contract.
func (s *session) persist(cursor int, prevRetry []int, st *state.DownloadState) error {
	updates := map[string]any{
		"last_read_message_id": cursor,
		"ids_to_retry":         st.RetryIDs(prevRetry),
	}
	if err := s.store.Update(s.doc, updates, true); err != nil {
		return fmt.Errorf("can not update config: %w", err)
	}
	return nil
}

func (s *session) getLogger(fn string) *logrus.Entry {
	return log.GetLogger(log.SessionModule).WithField("func", fmt.Sprintf("%T.%s", s, fn))
}

// runLoop holds the mutable scan state of one Run call.
type runLoop struct {
	*session
	cfg           *settings
	st            *state.DownloadState
	handler       *errs.Handler
	disp          dispatch.IDispatcher
	batch         []*types.Message
	batchCap      int
	cursor        int
	totalScanned  int
	dateSkipped   int
	lastPersisted int
}

// seedRetries loads the prior run's failed messages and queues them into
// the first batch, bypassing pagination cutoffs.
func (r *runLoop) seedRetries(ctx context.Context) {
	if len(r.cfg.prevRetry) == 0 {
		return
	}
	ll := r.getLogger("seedRetries")
	ll.Infof("downloading %d files failed during last run ...", len(r.cfg.prevRetry))
	msgs, err := r.client.GetMessages(ctx, r.cfg.target, r.cfg.prevRetry)
	if err != nil {
		r.handler.Handle(fmt.Errorf("can not fetch retry messages: %w", err), 0, false)
		return
	}
	for _, msg := range msgs {
		if msg == nil {
			continue
		}
		r.batch = append(r.batch, msg)
	}
}

// scan walks the chat history forward from the cursor, batching messages
// and dispatching full batches.
func (r *runLoop) scan(ctx context.Context) error {
	ll := r.getLogger("scan")
	iter, err := r.client.IterMessages(ctx, r.cfg.target, r.cfg.lastRead)
	if err != nil {
		return fmt.Errorf("can not iterate messages: %w", err)
	}
	for iter.Next(ctx) {
		msg := iter.Value()
		r.totalScanned++
		if r.totalScanned%500 == 0 {
			ll.Infof("scanned %d messages", r.totalScanned)
		}
		if !r.cfg.endDate.IsZero() && msg.Date.After(r.cfg.endDate) {
			r.dateSkipped++
			continue
		}
		if !r.cfg.startDate.IsZero() && msg.Date.Before(r.cfg.startDate) {
			ll.Debug("message older than start date. stopping scan")
			break
		}
		r.batch = append(r.batch, msg)
		if len(r.batch) >= r.batchCap {
			r.flush(ctx)
			if r.cfg.maxMsgs > 0 && r.st.DownloadedCount() >= r.cfg.maxMsgs {
				ll.Info("message cap reached. stopping scan")
				break
			}
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return nil
}

// drain dispatches the trailing partial batch.
func (r *runLoop) drain(ctx context.Context) {
	if len(r.batch) > 0 {
		r.flush(ctx)
	}
}

// flush downloads the current batch, advances the cursor to the batch
// maximum, exports metadata and persists periodically.
func (r *runLoop) flush(ctx context.Context) {
	ll := r.getLogger("flush")
	batch := r.batch
	r.batch = nil
	maxID := r.disp.ProcessBatch(ctx, batch)
	if maxID > r.cursor {
		r.cursor = maxID
	}
	if r.cfg.exportPath != "" {
		if err := export.SaveMessages(batch, r.cfg.exportPath, true); err != nil {
			r.handler.Handle(err, 0, false)
		}
	}
	persistEvery := r.opts.PersistEvery
	if persistEvery <= 0 {
		persistEvery = defaultPersistEvery
	}
	if r.st.DownloadedCount()-r.lastPersisted >= persistEvery {
		if err := r.persist(r.cursor, r.cfg.prevRetry, r.st); err != nil {
			ll.WithError(err).Warn("can not persist intermediate state")
		} else {
			r.lastPersisted = r.st.DownloadedCount()
		}
	}
}

// NewSession builds a session around an already-loaded config document and
// an unconnected client.
func NewSession(client tlg.IClient, store config.IStore, doc config.Document, opts Options) ISession {
	if opts.NewDispatcher == nil {
		opts.NewDispatcher = dispatch.NewDispatcher
	}
	return &session{client: client, store: store, doc: doc, opts: opts}
}
