// Package upload tracks a batch of files through pending, uploading, success and error,
// uploading them one at a time.
package upload

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/loaniq/loaniq-go/tool"
	"github.com/loaniq/loaniq-go/types"
)

const (
	GenericFailureMessage = "Upload failed - An error occurred"
	CancelledMessage      = "upload cancelled"

	DefaultProgressInterval = 300 * time.Millisecond
	DefaultProgressStep     = 10
	DefaultProgressCap      = 90

	refreshTimeout = 15 * time.Second
)

var ErrUploadInProgress = errors.New("an upload is already in progress for this session")

// Uploader sends exactly one file to the document service.
type Uploader interface {
	UploadDocument(ctx context.Context, file types.FileHandle) (*types.ExtractionResult, error)
}

// Notifier is told about every successful upload ("document list changed").
type Notifier interface {
	DocumentsChanged(item types.UploadItem) error
}

// Refresher reloads the document count once a batch with successes has finished.
type Refresher interface {
	RefreshDocumentCount(ctx context.Context) (int, error)
}

type EventKind string

const (
	EventAdded   EventKind = "added"
	EventUpdated EventKind = "updated"
	EventRemoved EventKind = "removed"
	EventReset   EventKind = "reset"
)

// Event is one state change, delivered in the order the changes were applied.
type Event struct {
	Kind EventKind
	Item types.UploadItem
}

// Options tune the synthetic progress and wire the side effects. Zero values get defaults.
// Observer runs while the session serializes events; it may read the session
// (Snapshot, AnyPending, ...) but must not mutate it.
type Options struct {
	ProgressInterval time.Duration
	ProgressStep     int
	ProgressCap      int
	Notifier         Notifier
	Refresher        Refresher
	Observer         func(Event)
}

type item struct {
	file     types.FileHandle
	status   types.ItemStatus
	progress int
	errMsg   string
	document *types.ExtractionResult
	removed  bool
}

// Session is one batch of user-selected files. It is safe for concurrent use.
type Session struct {
	uploader Uploader
	opts     Options

	// emitMu orders mutation+emit pairs so observers never see events out of order.
	emitMu  sync.Mutex
	mu      sync.RWMutex
	items   []*item
	running bool
	last    *types.BatchSummary
}

func New(uploader Uploader, opts Options) *Session {
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = DefaultProgressInterval
	}
	if opts.ProgressStep <= 0 {
		opts.ProgressStep = DefaultProgressStep
	}
	if opts.ProgressCap <= 0 || opts.ProgressCap >= 100 {
		opts.ProgressCap = DefaultProgressCap
	}
	return &Session{
		uploader: uploader,
		opts:     opts,
	}
}

// OptionsFromConfig maps the progress settings of cfg.
func OptionsFromConfig(cfg types.AppConfig) Options {
	return Options{
		ProgressInterval: time.Duration(cfg.ProgressIntervalMs) * time.Millisecond,
		ProgressStep:     cfg.ProgressStep,
		ProgressCap:      cfg.ProgressCap,
	}
}

// AddFiles appends every file as a new pending item. Duplicate names stay distinct items.
func (s *Session) AddFiles(files ...types.FileHandle) []types.UploadItem {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	added := make([]types.UploadItem, 0, len(files))
	for _, f := range files {
		it := &item{file: f, status: types.StatusPending}
		s.items = append(s.items, it)
		added = append(added, s.snapshotLocked(it))
	}
	s.mu.Unlock()

	for _, snap := range added {
		s.emit(EventAdded, snap)
	}
	return added
}

// RemoveItem drops the item at index if it is still pending. Anything else is a no-op.
func (s *Session) RemoveItem(index int) bool {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if index < 0 || index >= len(s.items) || s.items[index].status != types.StatusPending {
		s.mu.Unlock()
		return false
	}
	it := s.items[index]
	snap := s.snapshotLocked(it)
	it.removed = true
	s.items = append(s.items[:index], s.items[index+1:]...)
	s.mu.Unlock()

	s.emit(EventRemoved, snap)
	return true
}

// Reset empties the batch, starting a new session. It is refused while a run is active.
func (s *Session) Reset() error {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrUploadInProgress
	}
	for _, it := range s.items {
		it.removed = true
	}
	s.items = nil
	s.last = nil
	s.mu.Unlock()

	s.emit(EventReset, types.UploadItem{Index: -1})
	return nil
}

// StartUpload uploads every item that is pending right now, one at a time in insertion order.
// A failed item never stops the batch. If ctx is cancelled, the in-flight item fails with
// "upload cancelled" and the items not yet started stay pending.
func (s *Session) StartUpload(ctx context.Context) (types.BatchSummary, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return types.BatchSummary{}, ErrUploadInProgress
	}
	queue := make([]*item, 0, len(s.items))
	for _, it := range s.items {
		if it.status == types.StatusPending {
			queue = append(queue, it)
		}
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	var summary types.BatchSummary
	for _, it := range queue {
		if ctx.Err() != nil {
			summary.Aborted = true
			break
		}
		started, ok := s.process(ctx, it)
		if !started {
			continue
		}
		summary.Total++
		if ok {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}
	if ctx.Err() != nil {
		summary.Aborted = true
	}

	if summary.Succeeded > 0 && s.opts.Refresher != nil {
		summary.RefreshAttempted = true
		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		count, err := s.opts.Refresher.RefreshDocumentCount(refreshCtx)
		cancel()
		if err != nil {
			tool.DefaultLogger.Warnf("[Upload] Document count refresh failed: %v", err)
			summary.RefreshError = err.Error()
		} else {
			tool.DefaultLogger.Debugf("[Upload] Document count refreshed: %d", count)
		}
	}

	s.mu.Lock()
	last := summary
	s.last = &last
	s.mu.Unlock()

	tool.DefaultLogger.Infof("[Upload] Batch finished: %s", summary)
	return summary, nil
}

// process runs one item to a terminal state. started is false when the item was removed
// (or otherwise left pending) before its turn came.
func (s *Session) process(ctx context.Context, it *item) (started bool, ok bool) {
	claimed := s.mutate(it, func() bool {
		if it.removed || it.status != types.StatusPending {
			return false
		}
		it.status = types.StatusUploading
		it.progress = 0
		return true
	})
	if !claimed {
		return false, false
	}

	tool.DefaultLogger.Infof("[Upload] Uploading %s (%d bytes)", it.file.Name, it.file.Size)
	doc, err := s.uploadWithProgress(ctx, it)
	if err != nil {
		msg := failureMessage(ctx, err)
		s.mutate(it, func() bool {
			it.status = types.StatusError
			it.errMsg = msg
			return true
		})
		tool.DefaultLogger.Warnf("[Upload] Upload failed for %s: %s", it.file.Name, msg)
		return true, false
	}

	var snap types.UploadItem
	s.mutate(it, func() bool {
		it.status = types.StatusSuccess
		it.progress = 100
		it.document = doc
		snap = s.snapshotLocked(it)
		return true
	})
	tool.DefaultLogger.Infof("[Upload] Upload successful for %s", it.file.Name)

	if s.opts.Notifier != nil {
		if err := s.opts.Notifier.DocumentsChanged(snap); err != nil {
			tool.DefaultLogger.Warnf("[Upload] Documents-changed notification failed: %v", err)
		}
	}
	return true, true
}

// uploadWithProgress owns the synthetic progress ticker for one upload call;
// the ticker is stopped on every way out, a panicking uploader included.
func (s *Session) uploadWithProgress(ctx context.Context, it *item) (doc *types.ExtractionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("upload panicked: %v", r)
		}
	}()
	ticker := s.startProgressTicker(it)
	defer ticker.Stop()

	if s.uploader == nil {
		return nil, errors.New("no uploader configured")
	}
	return s.uploader.UploadDocument(ctx, it.file)
}

func failureMessage(ctx context.Context, err error) string {
	if ctx.Err() != nil {
		return CancelledMessage
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return GenericFailureMessage
}

// mutate applies fn under the state lock and, if fn reports a change, emits the new
// item state before any later mutation can run.
func (s *Session) mutate(it *item, fn func() bool) bool {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	changed := fn()
	var snap types.UploadItem
	if changed {
		snap = s.snapshotLocked(it)
	}
	s.mu.Unlock()

	if changed {
		s.emit(EventUpdated, snap)
	}
	return changed
}

func (s *Session) emit(kind EventKind, snap types.UploadItem) {
	if s.opts.Observer != nil {
		s.opts.Observer(Event{Kind: kind, Item: snap})
	}
}

func (s *Session) snapshotLocked(it *item) types.UploadItem {
	index := -1
	for i, candidate := range s.items {
		if candidate == it {
			index = i
			break
		}
	}
	snap := types.UploadItem{
		Index:    index,
		File:     it.file,
		Status:   it.status,
		Progress: it.progress,
		Document: it.document,
	}
	if it.status == types.StatusError {
		snap.ErrorMessage = it.errMsg
	}
	return snap
}

// Snapshot returns a copy of every item in insertion order.
func (s *Session) Snapshot() []types.UploadItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.UploadItem, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, s.snapshotLocked(it))
	}
	return out
}

func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// AnyPending reports whether a StartUpload call would have work to do.
func (s *Session) AnyPending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.status == types.StatusPending {
			return true
		}
	}
	return false
}

// AllDone reports whether the batch is non-empty and every item is terminal.
func (s *Session) AllDone() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.items) == 0 {
		return false
	}
	for _, it := range s.items {
		if !it.status.Terminal() {
			return false
		}
	}
	return true
}

func (s *Session) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// LastSummary returns the outcome of the most recent run, or nil.
func (s *Session) LastSummary() *types.BatchSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil
	}
	last := *s.last
	return &last
}

// LatestDocument returns the extraction record of the most recent successful item.
func (s *Session) LatestDocument() *types.ExtractionResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].status == types.StatusSuccess && s.items[i].document != nil {
			return s.items[i].document
		}
	}
	return nil
}
