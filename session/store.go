// Package session tracks independent VM runs requested against a
// single host process, the way an editor-integrated tool accumulates
// a history of evaluations without restarting.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/loomlang/loom/vm"
)

// Run records the outcome of one Session.Execute call.
type Run struct {
	Index       int
	Disassembly string
	Result      string // DebugString of the top-of-stack value, or ""
	Err         string // non-empty if the run failed
	StartedAt   time.Time
}

// Session is a named sequence of runs sharing no VM state across runs
// — each Execute call gets a fresh vm.VM — but sharing a single
// intern table and run history, the way a REPL session accumulates
// transcript without accumulating heap.
type Session struct {
	ID   string
	Name string

	mu   sync.Mutex
	runs []Run
}

// Store manages the set of live sessions for a host process.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create starts a new session with an optional display name.
func (s *Store) Create(name string) *Session {
	sess := &Session{ID: uuid.NewString(), Name: name}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess
}

// Get retrieves a session by ID.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Destroy removes a session; it is a no-op if id is unknown.
func (s *Store) Destroy(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Execute records blob's disassembly in the run log, runs it on a
// freshly constructed VM, and appends the outcome to the session's
// history regardless of success or failure.
func (sess *Session) Execute(blob *vm.Blob, opts ...vm.Option) Run {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	m := vm.New(blob, opts...)
	run := Run{
		Index:       len(sess.runs),
		Disassembly: blob.Disassemble(),
		StartedAt:   time.Now(),
	}

	if err := m.Run(); err != nil {
		run.Err = err.Error()
	} else if top, ok := m.Top(); ok {
		run.Result = top.DebugString()
	}

	sess.runs = append(sess.runs, run)
	return run
}

// History returns a copy of the session's accumulated runs.
func (sess *Session) History() []Run {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	out := make([]Run, len(sess.runs))
	copy(out, sess.runs)
	return out
}
