package sim

import "github.com/san-kum/gravsim/internal/dynamo"

// Renderer draws snapshots onto a surface.
type Renderer interface {
	// Attach prepares the renderer for a surface of the given size and makes
	// it visible. It is called on every Start and must tolerate repeats.
	Attach(width, height float64) error
	Draw(snap dynamo.Snapshot)
	Hide()
}

// Surface reports the current viewport size.
type Surface interface {
	Viewport() (width, height float64, err error)
}

// FrameToken identifies a scheduled frame so it can be cancelled.
type FrameToken uint64

// Scheduler runs a callback on the next frame, like a display refresh hook.
type Scheduler interface {
	ScheduleNextFrame(fn func()) FrameToken
	CancelFrame(tok FrameToken)
}

// InputFeed produces pointer positions, dynamo.Absent when the pointer
// leaves the surface.
type InputFeed interface {
	Subscribe(fn func(dynamo.Pointer)) Subscription
}

type Subscription interface {
	Unsubscribe()
}

// Sibling is another visual effect sharing the page. The loop hides and
// destroys it on start and shows it again on stop.
type Sibling interface {
	Show()
	Hide()
	Destroy()
}

// Observer sees every snapshot a run produces.
type Observer interface {
	OnFrame(snap dynamo.Snapshot)
}

type Metric interface {
	Name() string
	Observe(snap dynamo.Snapshot)
	Value() float64
	Reset()
}

// StartConfig configures one run.
type StartConfig struct {
	BounceEnabled bool
}
