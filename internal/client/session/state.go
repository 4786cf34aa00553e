package session

import "sync"

// AuthState is the single owner of the "logged in" flag the UI reads. Only
// the Manager changes it.
type AuthState struct {
	mu            sync.RWMutex
	authenticated bool
	nextID        int
	subs          map[int]func(bool)
}

func newAuthState() *AuthState {
	return &AuthState{subs: make(map[int]func(bool))}
}

// IsAuthenticated reports the last known session state.
func (s *AuthState) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Subscribe registers fn to be called on every state change. The returned
// function removes the subscription.
func (s *AuthState) Subscribe(fn func(authenticated bool)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *AuthState) set(v bool) {
	s.mu.Lock()
	if s.authenticated == v {
		s.mu.Unlock()
		return
	}
	s.authenticated = v
	subs := make([]func(bool), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
}
