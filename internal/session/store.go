// Package session keeps the authentication state of one application context.
package session

import (
	"sync"

	"github.com/frahmantamala/funcionarios/internal/backend"
)

// State is a point-in-time copy of the store.
type State struct {
	User    *backend.User    `json:"user"`
	Session *backend.Session `json:"-"`
	Loading bool             `json:"loading"`
	Error   *string          `json:"error"`
}

func (s State) Authenticated() bool {
	return s.User != nil
}

type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) User() *backend.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User
}

func (s *Store) Session() *backend.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Session
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User != nil
}

// SetAuth replaces user and session together. Passing nil for both signs the
// context out locally.
func (s *Store) SetAuth(user *backend.User, sess *backend.Session) {
	s.mu.Lock()
	s.state.User = user
	s.state.Session = sess
	s.mu.Unlock()
}

func (s *Store) Clear() {
	s.SetAuth(nil, nil)
}

func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	s.state.Loading = loading
	s.mu.Unlock()
}

// SetError records msg; an empty message clears the error.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg == "" {
		s.state.Error = nil
		return
	}
	s.state.Error = &msg
}

func (s *Store) ClearError() {
	s.SetError("")
}

func (s *Store) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.Error == nil {
		return ""
	}
	return *s.state.Error
}

// Begin marks an operation as running and clears the previous error.
func (s *Store) Begin() {
	s.mu.Lock()
	s.state.Loading = true
	s.state.Error = nil
	s.mu.Unlock()
}
