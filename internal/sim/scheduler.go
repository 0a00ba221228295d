package sim

import "sync"

// ManualScheduler keeps at most one pending frame and runs it on Tick. It
// stands in for a display refresh callback in tests and headless runs.
type ManualScheduler struct {
	mu      sync.Mutex
	next    FrameToken
	pending FrameToken
	fn      func()
}

func NewManualScheduler() *ManualScheduler { return &ManualScheduler{} }

func (s *ManualScheduler) ScheduleNextFrame(fn func()) FrameToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.pending = s.next
	s.fn = fn
	return s.pending
}

func (s *ManualScheduler) CancelFrame(tok FrameToken) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok != 0 && tok == s.pending {
		s.pending = 0
		s.fn = nil
	}
}

// Pending reports whether a frame is waiting.
func (s *ManualScheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fn != nil
}

// Tick runs the pending frame, if any, and reports whether one ran.
func (s *ManualScheduler) Tick() bool {
	s.mu.Lock()
	fn := s.fn
	s.fn = nil
	s.pending = 0
	s.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

// TickN runs up to n frames and returns how many ran.
func (s *ManualScheduler) TickN(n int) int {
	ran := 0
	for ran < n && s.Tick() {
		ran++
	}
	return ran
}
