package rag

import "sync"

// Session is the caller-owned state of one study session: the ordered
// question history used for knowledge-gap analysis. Create one per user
// session and discard it on logout.
type Session struct {
	mu                 sync.Mutex
	history            []string
	resetClearsHistory bool
}

func NewSession(resetClearsHistory bool) *Session {
	return &Session{resetClearsHistory: resetClearsHistory}
}

// Append records a question in arrival order.
func (s *Session) Append(question string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, question)
}

// History returns a copy of the question history.
func (s *Session) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// Reset is called on a data reset. Whether it also wipes the question
// history is configurable; by default it does not.
func (s *Session) Reset() {
	if !s.resetClearsHistory {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}
