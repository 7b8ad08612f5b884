// Package testutil provides test helpers: deterministic dice sources and a
// PostgreSQL test container.
package testutil

import "sync"

// ScriptedSource replays a fixed sequence of die faces, cycling when the
// script runs out. A face is clamped into [1, n] before Intn converts it to
// the zero-based value a Source returns.
type ScriptedSource struct {
	mu    sync.Mutex
	faces []int
	next  int
	calls int
}

// NewScriptedSource returns a ScriptedSource replaying faces.
//
// Precondition: len(faces) >= 1.
func NewScriptedSource(faces ...int) *ScriptedSource {
	if len(faces) == 0 {
		panic("testutil: NewScriptedSource requires at least one face")
	}
	return &ScriptedSource{faces: faces}
}

// Intn returns the next scripted face minus one, clamped to [0, n).
func (s *ScriptedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	face := s.faces[s.next]
	s.next = (s.next + 1) % len(s.faces)
	s.calls++
	if face < 1 {
		face = 1
	}
	if face > n {
		face = n
	}
	return face - 1
}

// Calls returns how many values have been drawn.
func (s *ScriptedSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
