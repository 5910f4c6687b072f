package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driven"
	"github.com/drewgilbert-lab/content-automation-app/internal/logger"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SweepScheduler runs fn every interval until the returned stop function is called.
type SweepScheduler interface {
	Schedule(interval time.Duration, fn func()) (stop func())
}

// TickerScheduler is the production SweepScheduler backed by time.Ticker.
type TickerScheduler struct{}

// Schedule starts a goroutine calling fn on every tick.
func (TickerScheduler) Schedule(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

// SessionStoreConfig configures a SessionStore. Zero values use defaults.
type SessionStoreConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// Scheduler drives the background sweep. Defaults to TickerScheduler.
	Scheduler SweepScheduler

	// NewID generates session IDs. Defaults to random UUIDs.
	NewID func() string
}

// SessionStore is the in-memory registry of upload sessions.
// Sessions live for TTL and are removed on access after expiry or by
// the periodic sweep, whichever comes first.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.UploadSession

	ttl   time.Duration
	now   func() time.Time
	newID func() string
	stop  func()
}

// NewSessionStore creates a session registry and starts its sweep.
func NewSessionStore(cfg SessionStoreConfig) *SessionStore {
	if cfg.TTL <= 0 {
		cfg.TTL = domain.DefaultSessionTTL
	}
	if cfg.SweepInterval <= 0 || cfg.SweepInterval >= cfg.TTL {
		cfg.SweepInterval = min(domain.DefaultSweepInterval, cfg.TTL/2)
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = cfg.TTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = TickerScheduler{}
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}

	s := &SessionStore{
		sessions: make(map[string]*domain.UploadSession),
		ttl:      cfg.TTL,
		now:      cfg.Now,
		newID:    cfg.NewID,
	}
	s.stop = cfg.Scheduler.Schedule(cfg.SweepInterval, func() {
		if n := s.Sweep(); n > 0 {
			logger.Debug("Swept %d expired session(s)", n)
		}
	})
	return s
}

// Create registers a session for docs in status parsing.
func (s *SessionStore) Create(docs []domain.ParsedDocument) *domain.UploadSession {
	now := s.now()
	sess := &domain.UploadSession{
		ID:              s.newID(),
		Documents:       append([]domain.ParsedDocument(nil), docs...),
		Classifications: make(map[int]domain.ClassificationResult),
		UserEdits:       make(map[int]domain.ClassificationEdit),
		Status:          domain.SessionStatusParsing,
		CreatedAt:       now,
		ExpiresAt:       now.Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess.Clone()
}

// Get returns a copy of the session. Expired sessions are evicted.
func (s *SessionStore) Get(id string) (*domain.UploadSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(id)
	if sess == nil {
		return nil, false
	}
	return sess.Clone(), true
}

// List returns summaries of live sessions, oldest first.
func (s *SessionStore) List() []domain.SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	out := make([]domain.SessionSummary, 0, len(s.sessions))
	for _, sess := range s.sessions {
		if sess.IsExpired(now) {
			continue
		}
		out = append(out, sess.Summary())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// SetStatus moves the session to status. Backward transitions are refused.
func (s *SessionStore) SetStatus(id string, status domain.SessionStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(id)
	if sess == nil || !sess.Status.CanTransitionTo(status) {
		return false
	}
	sess.Status = status
	return true
}

// TransitionStatus moves the session from one status to another, failing
// if another caller got there first.
func (s *SessionStore) TransitionStatus(id string, from, to domain.SessionStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(id)
	if sess == nil || sess.Status != from || !from.CanTransitionTo(to) {
		return false
	}
	sess.Status = to
	return true
}

// SetClassification stores result for index, replacing any previous one.
func (s *SessionStore) SetClassification(id string, index int, result domain.ClassificationResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(id)
	if sess == nil || !sess.ValidIndex(index) {
		return false
	}
	sess.Classifications[index] = result.Clone()
	return true
}

// SetUserEdit merges edit onto the stored edit for index, field by field.
func (s *SessionStore) SetUserEdit(id string, index int, edit domain.ClassificationEdit) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(id)
	if sess == nil || !sess.ValidIndex(index) {
		return false
	}
	sess.UserEdits[index] = sess.UserEdits[index].Merge(edit)
	return true
}

// ClearUserEdit drops the edit for index. Clearing an index without an edit succeeds.
func (s *SessionStore) ClearUserEdit(id string, index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(id)
	if sess == nil || !sess.ValidIndex(index) {
		return false
	}
	delete(sess.UserEdits, index)
	return true
}

// Delete removes the session. Deleting an expired session reports false.
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.live(id) == nil {
		return false
	}
	delete(s.sessions, id)
	return true
}

// Sweep removes every expired session and returns how many were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if sess.IsExpired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of sessions held, including expired ones not yet swept.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops the background sweep.
func (s *SessionStore) Close() {
	if s.stop != nil {
		s.stop()
	}
}

// live returns the stored session or nil, evicting it if expired.
// The caller must hold s.mu.
func (s *SessionStore) live(id string) *domain.UploadSession {
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	if sess.IsExpired(s.now()) {
		delete(s.sessions, id)
		return nil
	}
	return sess
}
