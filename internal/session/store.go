// Package session keeps per-client editor state in memory. Each session holds
// at most one current document plus any results derived from it; derived
// results are dropped whenever the text changes so they can never describe a
// stale buffer.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"docedit/internal/model"
)

// State names the step of the editing flow a session last completed.
type State string

const (
	StateIdle           State = "idle"
	StateLoaded         State = "loaded"
	StateAnalyzed       State = "analyzed"
	StateAnalysisFailed State = "analysis_failed"
	StateVisualized     State = "visualized"
	StateSaved          State = "saved"
	StateSaveFailed     State = "save_failed"
)

// Session is one client's editing context. Store accessors hand out
// snapshots; mutation goes through Store methods only.
type Session struct {
	ID           string
	State        State
	Document     *model.Document
	EnhancedText string
	Analysis     *model.AnalysisResult
	CreatedAt    time.Time
	lastAccess   time.Time
}

// Store is a TTL-bounded in-memory session map. Safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewStore creates a store whose sessions expire ttl after their last access.
// A background janitor reclaims expired entries until Close is called.
func NewStore(ttl time.Duration) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	go s.janitor()
	return s
}

// Create registers a new idle session and returns it.
func (s *Store) Create() *Session {
	now := time.Now()
	sess := &Session{
		ID:         uuid.New().String(),
		State:      StateIdle,
		CreatedAt:  now,
		lastAccess: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess.snapshot()
}

// Get returns a snapshot of the session with the given id, refreshing its
// TTL. The second return is false when the id is unknown or the session has
// expired. Snapshots keep concurrent readers off the store's live state,
// which UpdateText mutates in place.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if time.Since(sess.lastAccess) > s.ttl {
		delete(s.sessions, id)
		return nil, false
	}
	sess.lastAccess = time.Now()
	return sess.snapshot(), true
}

// snapshot copies the session, including the document the store edits in
// place. Analysis results are replaced wholesale on change, so sharing the
// pointer is safe.
func (sess *Session) snapshot() *Session {
	cp := *sess
	if sess.Document != nil {
		doc := *sess.Document
		cp.Document = &doc
	}
	return &cp
}

// SetDocument installs doc as the session's current document, replacing any
// previous one and discarding all derived results.
func (s *Store) SetDocument(id string, doc *model.Document) bool {
	return s.update(id, func(sess *Session) {
		sess.Document = doc
		sess.EnhancedText = ""
		sess.Analysis = nil
		sess.State = StateLoaded
	})
}

// UpdateText replaces the current document's text in place. Analysis and
// enhancement results computed from the old text are invalidated.
func (s *Store) UpdateText(id string, text string) bool {
	return s.update(id, func(sess *Session) {
		if sess.Document == nil {
			return
		}
		sess.Document.Text = text
		sess.Document.Size = int64(len(text))
		sess.EnhancedText = ""
		sess.Analysis = nil
		sess.State = StateLoaded
	})
}

// SetAnalysis records an analysis result (or a failure when res is nil).
func (s *Store) SetAnalysis(id string, res *model.AnalysisResult) bool {
	return s.update(id, func(sess *Session) {
		sess.Analysis = res
		if res == nil {
			sess.State = StateAnalysisFailed
			return
		}
		sess.State = StateAnalyzed
	})
}

// SetEnhancedText stores the AI-suggested revision alongside the document.
func (s *Store) SetEnhancedText(id string, text string) bool {
	return s.update(id, func(sess *Session) {
		sess.EnhancedText = text
	})
}

// SetState moves the session to the given state.
func (s *Store) SetState(id string, state State) bool {
	return s.update(id, func(sess *Session) {
		sess.State = state
	})
}

// Delete removes a session immediately.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops the expiry janitor.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Store) update(id string, fn func(*Session)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || time.Since(sess.lastAccess) > s.ttl {
		delete(s.sessions, id)
		return false
	}
	sess.lastAccess = time.Now()
	fn(sess)
	return true
}

func (s *Store) janitor() {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			for id, sess := range s.sessions {
				if time.Since(sess.lastAccess) > s.ttl {
					delete(s.sessions, id)
				}
			}
			s.mu.Unlock()
		}
	}
}
