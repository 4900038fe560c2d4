// Package state holds the agent's process-scoped runtime state.
//
// Nothing here is persisted: the OS theme setting is the sole source of
// truth and the cache is rebuilt on every process start.
package state

import "sync/atomic"

// State is the shared cell read by both interception paths. The theme flag
// has a single writer (the message-interception path); the hook flags are
// written only during Init/Uninit.
type State struct {
	dark       atomic.Bool
	createHook atomic.Bool
	msgHook    atomic.Bool
}

func New() *State {
	return &State{}
}

// Dark reports the cached theme state.
func (s *State) Dark() bool {
	return s.dark.Load()
}

// SetDark seeds the theme state. Used at initialization, before any
// interception fires.
func (s *State) SetDark(dark bool) {
	s.dark.Store(dark)
}

// Flip updates the theme state to dark and reports whether it actually
// changed. A no-op transition returns false so redundant broadcasts can be
// suppressed.
func (s *State) Flip(dark bool) bool {
	return s.dark.CompareAndSwap(!dark, dark)
}

// Hook installation health, for diagnostics and degraded-mode reporting.

func (s *State) SetCreateHook(installed bool) { s.createHook.Store(installed) }
func (s *State) CreateHook() bool             { return s.createHook.Load() }

func (s *State) SetMessageHook(installed bool) { s.msgHook.Store(installed) }
func (s *State) MessageHook() bool             { return s.msgHook.Load() }

// Degraded reports whether either interception failed to install.
func (s *State) Degraded() bool {
	return !s.createHook.Load() || !s.msgHook.Load()
}
