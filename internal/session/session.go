// Package session owns one user's pass through the style flow: the source
// photo, the latest generated batch, the chosen style and the confirmed
// handoff record. Every new generation starts a new epoch; results that
// arrive for an older epoch are dropped.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"styleme/internal/capture"
	"styleme/internal/domain"
	"styleme/internal/generation"
	"styleme/internal/handoff"
)

// Status is the coarse state shown to clients.
type Status string

const (
	StatusEmpty      Status = "empty"
	StatusReady      Status = "ready"
	StatusGenerating Status = "generating"
	StatusGenerated  Status = "generated"
	StatusSelected   Status = "selected"
	StatusConfirmed  Status = "confirmed"
	StatusFailed     Status = "failed"
)

// Deps are the collaborators shared by every session.
type Deps struct {
	Orchestrator *generation.Orchestrator
	Capture      *capture.Adapter
	Store        handoff.Store
	Logger       zerolog.Logger
}

// Session is safe for concurrent use.
type Session struct {
	id      string
	owner   string
	created time.Time
	deps    Deps
	logger  zerolog.Logger

	mu            sync.Mutex
	status        Status
	source        *domain.SourceImage
	category      domain.StyleCategory
	batch         []domain.GeneratedStyle
	selectedID    string
	record        *domain.SelectionRecord
	favorites     map[string]bool
	progress      int
	lastErr       string
	epoch         uint64
	cancelGen     context.CancelFunc
	cancelCapture context.CancelFunc
	captureSeq    uint64
	publishedID   string
	watchers      map[int]chan int
	nextWatcher   int
}

func newSession(id, owner string, deps Deps) *Session {
	return &Session{
		id:        id,
		owner:     owner,
		created:   time.Now().UTC(),
		deps:      deps,
		logger:    deps.Logger.With().Str("session_id", id).Logger(),
		status:    StatusEmpty,
		favorites: map[string]bool{},
		watchers:  map[int]chan int{},
	}
}

func (s *Session) ID() string    { return s.id }
func (s *Session) Owner() string { return s.owner }

// HandoffKey is where Confirm publishes this session's record.
func (s *Session) HandoffKey() string {
	return handoff.Key(s.owner)
}

// SetSource replaces the source photo. The previous batch, selection and
// any in-flight generation are dropped together.
func (s *Session) SetSource(img domain.SourceImage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidateLocked()
	src := img
	s.source = &src
	s.status = StatusReady
}

// Upload validates data and makes it the source photo.
func (s *Session) Upload(data []byte) (domain.SourceImage, error) {
	img, err := s.deps.Capture.FromUpload(data)
	if err != nil {
		return domain.SourceImage{}, err
	}
	s.SetSource(img)
	return img, nil
}

// Capture takes one snapshot from dev. Reset aborts a capture in progress
// and releases the device.
func (s *Session) Capture(ctx context.Context, dev capture.Device) (domain.SourceImage, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancelCapture != nil {
		s.cancelCapture()
	}
	s.cancelCapture = cancel
	s.captureSeq++
	seq := s.captureSeq
	epoch := s.epoch
	s.mu.Unlock()

	img, err := s.deps.Capture.FromCameraSnapshot(ctx, dev)

	s.mu.Lock()
	defer s.mu.Unlock()
	// A newer capture owns the slot once it has replaced ours.
	superseded := s.captureSeq != seq
	if !superseded {
		s.cancelCapture = nil
	}
	stale := superseded || s.epoch != epoch
	if err != nil {
		if stale && errors.Is(err, context.Canceled) {
			return domain.SourceImage{}, domain.ErrStaleGeneration
		}
		return domain.SourceImage{}, err
	}
	if stale {
		return domain.SourceImage{}, domain.ErrStaleGeneration
	}
	s.invalidateLocked()
	src := img
	s.source = &src
	s.status = StatusReady
	return img, nil
}

// Generate renders a new batch from the current source. Any generation
// already running for this session is cancelled and its results discarded.
// progress, when non-nil, receives every orchestrator tick including the
// final 100; watchers see 100 only after the batch is stored.
func (s *Session) Generate(ctx context.Context, category domain.StyleCategory, count int, progress chan<- int) ([]domain.GeneratedStyle, error) {
	s.mu.Lock()
	if s.source == nil {
		s.mu.Unlock()
		return nil, domain.ErrNoSource
	}
	s.invalidateLocked()
	epoch := s.epoch
	genCtx, cancel := context.WithCancel(ctx)
	s.cancelGen = cancel
	s.category = category
	s.status = StatusGenerating
	src := *s.source
	s.mu.Unlock()
	defer cancel()

	ticks := make(chan int)
	forwarded := make(chan struct{})
	go func() {
		defer close(forwarded)
		for v := range ticks {
			// Watchers get 100 once the batch is stored.
			if v < 100 {
				s.recordProgress(epoch, v)
			}
			if progress != nil {
				select {
				case progress <- v:
				case <-genCtx.Done():
				}
			}
		}
	}()

	batch, err := s.deps.Orchestrator.Generate(genCtx, src, category, count, ticks)
	close(ticks)
	<-forwarded

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		s.logger.Debug().Uint64("epoch", epoch).Msg("discarding superseded generation")
		return nil, domain.ErrStaleGeneration
	}
	s.cancelGen = nil
	if err != nil {
		s.status = StatusFailed
		s.lastErr = err.Error()
		s.notifyLocked(s.progress)
		return nil, err
	}
	s.batch = batch
	s.status = StatusGenerated
	s.progress = 100
	s.notifyLocked(100)
	s.logger.Info().Int("count", len(batch)).Str("category", string(category)).Msg("batch generated")
	return cloneBatch(batch), nil
}

// Select marks styleID as the chosen entry of the current batch.
func (s *Session) Select(styleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(styleID) < 0 {
		return fmt.Errorf("%w: %q is not in the current batch", domain.ErrInvalidSelection, styleID)
	}
	s.selectedID = styleID
	s.record = nil
	s.status = StatusSelected
	return nil
}

// Confirm packages the selection with notes and publishes it for the
// booking flow. State is updated only after the record is stored.
func (s *Session) Confirm(ctx context.Context, notes string) (domain.SelectionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedID == "" {
		return domain.SelectionRecord{}, domain.ErrNoSelection
	}
	idx := s.indexLocked(s.selectedID)
	if idx < 0 || s.source == nil {
		return domain.SelectionRecord{}, domain.ErrNoSelection
	}
	style := s.batch[idx]
	rec := domain.SelectionRecord{
		ID:                 style.ID,
		OriginalImage:      s.source.DataURI(),
		SelectedStyleImage: style.ImageURL,
		Notes:              notes,
		Gender:             s.category,
	}
	if err := handoff.Publish(ctx, s.deps.Store, s.HandoffKey(), rec); err != nil {
		return domain.SelectionRecord{}, err
	}
	s.record = &rec
	s.publishedID = rec.ID
	s.status = StatusConfirmed
	return rec, nil
}

// Reset clears the source, batch and selection, aborts any capture or
// generation in flight and removes the handoff record this session
// published. Anonymous sessions share one key, so a record written by
// another session is left alone.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidateLocked()
	if s.cancelCapture != nil {
		s.cancelCapture()
		s.cancelCapture = nil
	}
	s.source = nil
	s.category = ""
	s.status = StatusEmpty
	return s.clearPublishedLocked(ctx)
}

func (s *Session) clearPublishedLocked(ctx context.Context) error {
	if s.publishedID == "" {
		return nil
	}
	key := s.HandoffKey()
	rec, err := handoff.Load(ctx, s.deps.Store, key)
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case err != nil:
		return fmt.Errorf("load handoff: %w", err)
	case rec.ID == s.publishedID:
		if err := s.deps.Store.Clear(ctx, key); err != nil {
			return fmt.Errorf("clear handoff: %w", err)
		}
	}
	s.publishedID = ""
	return nil
}

// Modify applies the editor adjustment to the selected style and replaces
// it in the batch. A confirmed record must be confirmed again.
func (s *Session) Modify(ctx context.Context, adj domain.Adjustment) (domain.GeneratedStyle, error) {
	s.mu.Lock()
	idx := s.indexLocked(s.selectedID)
	if s.selectedID == "" || idx < 0 {
		s.mu.Unlock()
		return domain.GeneratedStyle{}, domain.ErrNoSelection
	}
	style := s.batch[idx]
	epoch := s.epoch
	s.mu.Unlock()

	modified, err := s.deps.Orchestrator.Modify(ctx, style, adj)
	if err != nil {
		return domain.GeneratedStyle{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch || s.selectedID != style.ID {
		return domain.GeneratedStyle{}, domain.ErrStaleGeneration
	}
	idx = s.indexLocked(style.ID)
	batch := cloneBatch(s.batch)
	batch[idx] = modified
	s.batch = batch
	s.record = nil
	s.status = StatusSelected
	return modified, nil
}

// ToggleFavorite flips the favourite mark of a batch entry and returns the
// new state.
func (s *Session) ToggleFavorite(styleID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(styleID) < 0 {
		return false, fmt.Errorf("%w: %q is not in the current batch", domain.ErrInvalidSelection, styleID)
	}
	if s.favorites[styleID] {
		delete(s.favorites, styleID)
		return false, nil
	}
	s.favorites[styleID] = true
	return true, nil
}

// Favorites lists favourite ids in batch order.
func (s *Session) Favorites() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favoritesLocked()
}

// Batch returns a copy of the current batch.
func (s *Session) Batch() []domain.GeneratedStyle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneBatch(s.batch)
}

// Watch returns a channel receiving progress ticks of future generations,
// plus one final value once a generation settles. Slow readers miss
// intermediate ticks. The stop func closes the channel.
func (s *Session) Watch() (<-chan int, func()) {
	ch := make(chan int, 16)
	s.mu.Lock()
	id := s.nextWatcher
	s.nextWatcher++
	s.watchers[id] = ch
	s.mu.Unlock()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *Session) recordProgress(epoch uint64, v int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch || v < s.progress {
		return
	}
	s.progress = v
	s.notifyLocked(v)
}

func (s *Session) notifyLocked(v int) {
	for _, ch := range s.watchers {
		select {
		case ch <- v:
		default:
		}
	}
}

// invalidateLocked starts a new epoch: in-flight generation is cancelled and
// batch-derived state is dropped.
func (s *Session) invalidateLocked() {
	s.epoch++
	if s.cancelGen != nil {
		s.cancelGen()
		s.cancelGen = nil
	}
	s.batch = nil
	s.selectedID = ""
	s.record = nil
	s.favorites = map[string]bool{}
	s.progress = 0
	s.lastErr = ""
}

func (s *Session) indexLocked(styleID string) int {
	if styleID == "" {
		return -1
	}
	for i := range s.batch {
		if s.batch[i].ID == styleID {
			return i
		}
	}
	return -1
}

func (s *Session) favoritesLocked() []string {
	out := make([]string, 0, len(s.favorites))
	for _, style := range s.batch {
		if s.favorites[style.ID] {
			out = append(out, style.ID)
		}
	}
	return out
}

func cloneBatch(batch []domain.GeneratedStyle) []domain.GeneratedStyle {
	if batch == nil {
		return nil
	}
	return append([]domain.GeneratedStyle(nil), batch...)
}
