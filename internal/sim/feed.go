package sim

import (
	"sync"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// PointerFeed is an InputFeed that hosts push pointer events into.
type PointerFeed struct {
	mu   sync.Mutex
	next int
	subs map[int]func(dynamo.Pointer)
}

func NewPointerFeed() *PointerFeed {
	return &PointerFeed{subs: make(map[int]func(dynamo.Pointer))}
}

func (f *PointerFeed) Subscribe(fn func(dynamo.Pointer)) Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	f.subs[f.next] = fn
	return &feedSubscription{feed: f, id: f.next}
}

// Move reports the pointer at (x, y).
func (f *PointerFeed) Move(x, y float64) { f.Publish(dynamo.At(x, y)) }

// Leave reports the pointer leaving the surface.
func (f *PointerFeed) Leave() { f.Publish(dynamo.Absent) }

func (f *PointerFeed) Publish(p dynamo.Pointer) {
	f.mu.Lock()
	fns := make([]func(dynamo.Pointer), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(p)
	}
}

// Subscribers returns the number of live subscriptions.
func (f *PointerFeed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

type feedSubscription struct {
	feed *PointerFeed
	id   int
	once sync.Once
}

func (s *feedSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.feed.mu.Lock()
		delete(s.feed.subs, s.id)
		s.feed.mu.Unlock()
	})
}
