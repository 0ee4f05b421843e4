package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mikey/phish-dashboard/internal/views"
	"go.uber.org/zap"
)

// Session holds one browser's view coordinators
type Session struct {
	ID      string
	URL     *views.URLChecker
	Email   *views.EmailChecker
	History *views.HistoryView
	Stats   *views.StatsView

	lastSeen time.Time
}

// Factory builds the coordinators for a new session
type Factory func() *Session

// Store keeps sessions in memory and expires idle ones
type Store struct {
	sessions    map[string]*Session
	mu          sync.Mutex
	factory     Factory
	ttl         time.Duration
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
	stopOnce    sync.Once
	now         func() time.Time
}

// NewStore creates a session store; cleanupFreq <= 0 disables the background sweep
func NewStore(factory Factory, ttl, cleanupFreq time.Duration, logger *zap.Logger) *Store {
	s := &Store{
		sessions:    make(map[string]*Session),
		factory:     factory,
		ttl:         ttl,
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
		now:         time.Now,
	}

	if cleanupFreq > 0 {
		go s.startCleanupTask()
	}

	return s
}

// Get returns the session for id, creating a fresh one when id is unknown,
// malformed or expired. The bool reports whether a new session was created.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess, ok := s.sessions[id]; ok {
		if s.ttl <= 0 || now.Sub(sess.lastSeen) < s.ttl {
			sess.lastSeen = now
			return sess, false
		}
		s.drop(id, sess)
	}

	sess := s.factory()
	sess.ID = uuid.NewString()
	sess.lastSeen = now
	s.sessions[sess.ID] = sess

	s.logger.Debug("Created session", zap.String("session_id", sess.ID))
	return sess, true
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Cleanup removes sessions idle for longer than the TTL
func (s *Store) Cleanup() {
	if s.ttl <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	expiredCount := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) >= s.ttl {
			s.drop(id, sess)
			expiredCount++
		}
	}

	s.logger.Debug("Cleaned up expired sessions", zap.Int("expired_count", expiredCount))
}

// drop removes a session; in-flight responses for its views are discarded
func (s *Store) drop(id string, sess *Session) {
	delete(s.sessions, id)
	sess.URL.Reset()
	sess.Email.Reset()
	sess.History.Reset()
	sess.Stats.Reset()
}

func (s *Store) startCleanupTask() {
	ticker := time.NewTicker(s.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task
func (s *Store) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}
