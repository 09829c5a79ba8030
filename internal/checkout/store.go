package checkout

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// Session binds a machine to one open booking modal.  All machine
// operations of a session must run under its mutex; the HTTP shell
// locks around each operation so edits and toggles run to completion
// before the next event, mirroring the original single-threaded UI.
// Notices accumulate between reads and are drained by the state
// endpoint.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	machine *Machine
	notices []string
}

// With runs fn with the session's machine under the session lock.
func (s *Session) With(fn func(m *Machine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.machine)
}

// Notify records a transient user-facing message.  It is called from
// inside machine operations, which already hold the session lock.
func (s *Session) Notify(message string) {
	s.notices = append(s.notices, message)
}

// DrainNotices returns the pending notices and clears them.  Must be
// called while holding the session lock (i.e. from inside With).
func (s *Session) DrainNotices() []string {
	out := s.notices
	s.notices = nil
	if out == nil {
		out = []string{}
	}
	return out
}

// Store is the in-memory registry of live sessions.  Sessions are
// ephemeral on purpose: the checkout core keeps no local state beyond
// the lifetime of an open modal, so there is nothing to persist.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewStore builds an empty session store.  A nil clock falls back to
// time.Now.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		sessions: make(map[string]*Session),
		now:      now,
	}
}

// Create registers a new session with a fresh random ID and a closed
// machine wired to the session's notice sink.
func (st *Store) Create() *Session {
	s := &Session{
		ID:        newSessionID(),
		CreatedAt: st.now(),
	}
	s.machine = NewMachine(s, st.now)
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get looks up a live session by ID.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Delete removes a session, closing its machine first so any later
// holder of the pointer sees a closed session.  It reports whether
// the session existed, letting the shell keep the close-once
// contract: the second delete finds nothing.
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	s, ok := st.sessions[id]
	if ok {
		delete(st.sessions, id)
	}
	st.mu.Unlock()
	if ok {
		s.With(func(m *Machine) { m.Close() })
	}
	return ok
}

// newSessionID returns 32 hex chars of cryptographic randomness.
func newSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
