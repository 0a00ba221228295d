package sim_test

import (
	"errors"
	"sync"

	"github.com/san-kum/gravsim/internal/dynamo"
)

type fakeRenderer struct {
	mu        sync.Mutex
	attachErr error
	attaches  int
	hides     int
	draws     []dynamo.Snapshot
	onDraw    func(dynamo.Snapshot)
}

func (r *fakeRenderer) Attach(w, h float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.attachErr != nil {
		return r.attachErr
	}
	r.attaches++
	return nil
}

func (r *fakeRenderer) Draw(snap dynamo.Snapshot) {
	r.mu.Lock()
	r.draws = append(r.draws, snap)
	hook := r.onDraw
	r.mu.Unlock()
	if hook != nil {
		hook(snap)
	}
}

func (r *fakeRenderer) Hide() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hides++
}

func (r *fakeRenderer) Draws() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.draws)
}

func (r *fakeRenderer) Last() dynamo.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.draws[len(r.draws)-1]
}

func (r *fakeRenderer) Hides() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hides
}

type fakeSurface struct {
	w, h float64
	err  error
}

func (s *fakeSurface) Viewport() (float64, float64, error) {
	if s.err != nil {
		return 0, 0, s.err
	}
	return s.w, s.h, nil
}

type fakeSibling struct {
	shows, hides, destroys int
}

func (s *fakeSibling) Show()    { s.shows++ }
func (s *fakeSibling) Hide()    { s.hides++ }
func (s *fakeSibling) Destroy() { s.destroys++ }

var errDetached = errors.New("surface detached")
