package storefront

import "sync"

// Sentinel is the explicit counterpart of a viewport intersection observer:
// the view places it after the last revealed row and calls Intersect as it
// enters or leaves the viewport. Once closed (page unmount) intersections
// are ignored.
type Sentinel struct {
	mu        sync.Mutex
	onVisible func()
	closed    bool
}

func NewSentinel(onVisible func()) *Sentinel {
	return &Sentinel{onVisible: onVisible}
}

// Intersect reports a visibility change of the sentinel element. Only the
// visible edge triggers the callback.
func (s *Sentinel) Intersect(visible bool) {
	s.mu.Lock()
	closed := s.closed
	cb := s.onVisible
	s.mu.Unlock()
	if closed || !visible || cb == nil {
		return
	}
	cb()
}

// Close detaches the sentinel. Must be called on unmount.
func (s *Sentinel) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}
