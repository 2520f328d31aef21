package health

import "sync"

// State is the process health: alive starts true, ready starts false
type State struct {
	mu    sync.RWMutex
	alive bool
	ready bool
}

// NewState creates a state that is alive and not ready
func NewState() *State {
	return &State{alive: true}
}

// MarkReady records a successful model load
func (s *State) MarkReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = true
}

// MarkFailed records a failed model load. Ready is left untouched.
func (s *State) MarkFailed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alive = false
}

// IsAlive returns true unless the model failed to load
func (s *State) IsAlive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.alive
}

// IsReady returns true once the model is loaded
func (s *State) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Snapshot returns both flags read atomically together
func (s *State) Snapshot() (alive, ready bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.alive, s.ready
}
