package sim_test

import (
	"bytes"

	"github.com/charmbracelet/log"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

var _ = Describe("Loop", func() {
	var (
		renderer *fakeRenderer
		surface  *fakeSurface
		sched    *sim.ManualScheduler
		feed     *sim.PointerFeed
		sibling  *fakeSibling
		loop     *sim.Loop
	)

	BeforeEach(func() {
		renderer = &fakeRenderer{}
		surface = &fakeSurface{w: 800, h: 600}
		sched = sim.NewManualScheduler()
		feed = sim.NewPointerFeed()
		sibling = &fakeSibling{}
		loop = sim.New(renderer, surface, sched,
			sim.WithInputFeed(feed),
			sim.WithSibling(sibling),
			sim.WithSeed(7),
		)
	})

	Describe("Start", func() {
		It("schedules the first frame without stepping", func() {
			Expect(loop.Start(sim.StartConfig{})).To(Succeed())
			Expect(loop.Running()).To(BeTrue())
			Expect(sched.Pending()).To(BeTrue())
			Expect(renderer.Draws()).To(BeZero())
			Expect(renderer.attaches).To(Equal(1))
		})

		It("seeds the default population around the surface centre", func() {
			Expect(loop.Start(sim.StartConfig{})).To(Succeed())
			snap := loop.Snapshot()
			Expect(snap.Particles).To(HaveLen(dynamo.DefaultParticleCount))
			Expect(snap.Attractor.Pos.X).To(Equal(400.0))
			Expect(snap.Attractor.Pos.Y).To(Equal(300.0))
			Expect(snap.Frame).To(BeZero())
		})

		It("draws one snapshot per tick", func() {
			Expect(loop.Start(sim.StartConfig{})).To(Succeed())
			Expect(sched.TickN(5)).To(Equal(5))
			Expect(renderer.Draws()).To(Equal(5))
			Expect(renderer.Last().Frame).To(Equal(uint64(5)))
			Expect(loop.Snapshot().Frame).To(Equal(uint64(5)))
			Expect(loop.Frame()).To(Equal(uint64(5)))
		})

		It("hides and destroys the sibling effect", func() {
			Expect(loop.Start(sim.StartConfig{})).To(Succeed())
			Expect(sibling.destroys).To(Equal(1))
			Expect(sibling.hides).To(Equal(1))
			Expect(sibling.shows).To(BeZero())
		})

		It("subscribes to the feed only when bounce is enabled", func() {
			Expect(loop.Start(sim.StartConfig{})).To(Succeed())
			Expect(feed.Subscribers()).To(BeZero())
			Expect(loop.BounceEnabled()).To(BeFalse())

			Expect(loop.Start(sim.StartConfig{BounceEnabled: true})).To(Succeed())
			Expect(feed.Subscribers()).To(Equal(1))
			Expect(loop.BounceEnabled()).To(BeTrue())
		})

		It("replaces an active run instead of running two", func() {
			Expect(loop.Start(sim.StartConfig{BounceEnabled: true})).To(Succeed())
			sched.TickN(3)
			Expect(loop.Start(sim.StartConfig{BounceEnabled: true})).To(Succeed())

			Expect(feed.Subscribers()).To(Equal(1))
			Expect(loop.Snapshot().Frame).To(BeZero())
			Expect(sched.Tick()).To(BeTrue())
			Expect(renderer.Last().Frame).To(Equal(uint64(1)))
		})

		It("refuses an unusable surface and leaves the active run alone", func() {
			Expect(loop.Start(sim.StartConfig{BounceEnabled: true})).To(Succeed())
			sched.TickN(2)

			surface.err = errDetached
			err := loop.Start(sim.StartConfig{})
			Expect(err).To(MatchError(dynamo.ErrSurfaceUnavailable))
			Expect(err).To(MatchError(errDetached))

			Expect(loop.Running()).To(BeTrue())
			Expect(loop.BounceEnabled()).To(BeTrue())
			Expect(feed.Subscribers()).To(Equal(1))
			Expect(sched.Tick()).To(BeTrue())
			Expect(renderer.Last().Frame).To(Equal(uint64(3)))
		})

		It("refuses when the renderer will not attach", func() {
			renderer.attachErr = errDetached
			err := loop.Start(sim.StartConfig{})
			Expect(err).To(MatchError(dynamo.ErrRendererUnavailable))
			Expect(loop.Running()).To(BeFalse())
			Expect(sched.Pending()).To(BeFalse())
			Expect(sibling.destroys).To(BeZero())
		})

		It("refuses without a renderer", func() {
			l := sim.New(nil, surface, sched)
			Expect(l.Start(sim.StartConfig{})).To(MatchError(dynamo.ErrRendererUnavailable))
		})

		It("rejects an invalid tuning", func() {
			t := dynamo.DefaultTuning()
			t.ParticleCount = 0
			l := sim.New(renderer, surface, sched, sim.WithTuning(t))
			Expect(l.Start(sim.StartConfig{})).To(MatchError(dynamo.ErrInvalidTuning))
		})
	})

	Describe("Stop", func() {
		It("cancels the pending frame", func() {
			Expect(loop.Start(sim.StartConfig{})).To(Succeed())
			sched.TickN(2)
			loop.Stop()

			Expect(loop.Running()).To(BeFalse())
			Expect(sched.Pending()).To(BeFalse())
			Expect(sched.Tick()).To(BeFalse())
			Expect(renderer.Draws()).To(Equal(2))
		})

		It("restores visibility", func() {
			Expect(loop.Start(sim.StartConfig{})).To(Succeed())
			loop.Stop()
			Expect(renderer.Hides()).To(Equal(1))
			Expect(sibling.shows).To(Equal(1))
		})

		It("is idempotent", func() {
			Expect(loop.Start(sim.StartConfig{BounceEnabled: true})).To(Succeed())
			loop.Stop()
			loop.Stop()

			Expect(loop.Running()).To(BeFalse())
			Expect(feed.Subscribers()).To(BeZero())
			Expect(renderer.Hides()).To(Equal(2))
			Expect(sibling.shows).To(Equal(2))
		})

		It("only resets visibility when nothing is running", func() {
			loop.Stop()
			Expect(renderer.Hides()).To(Equal(1))
			Expect(sibling.shows).To(Equal(1))
			Expect(sched.Pending()).To(BeFalse())
		})

		It("prevents the next frame when called from inside a frame", func() {
			renderer.onDraw = func(dynamo.Snapshot) { loop.Stop() }
			Expect(loop.Start(sim.StartConfig{})).To(Succeed())
			Expect(sched.Tick()).To(BeTrue())
			Expect(sched.Pending()).To(BeFalse())
			Expect(renderer.Draws()).To(Equal(1))
		})

		It("detaches the pointer", func() {
			Expect(loop.Start(sim.StartConfig{BounceEnabled: true})).To(Succeed())
			feed.Move(10, 20)
			Expect(loop.Pointer()).To(Equal(dynamo.At(10, 20)))
			loop.Stop()
			feed.Move(30, 40)
			Expect(loop.Pointer().Present).To(BeFalse())
		})
	})

	Describe("pointer input", func() {
		It("feeds the repulsor when bounce is enabled", func() {
			Expect(loop.Start(sim.StartConfig{BounceEnabled: true})).To(Succeed())
			feed.Move(100, 120)
			sched.Tick()

			rep := renderer.Last().Repulsor
			Expect(rep.Present).To(BeTrue())
			Expect(rep.Center.X).To(Equal(100.0))
			Expect(rep.Center.Y).To(Equal(120.0))
			Expect(rep.Radius).To(Equal(dynamo.DefaultRadius))
		})

		It("drops the repulsor when the pointer leaves", func() {
			Expect(loop.Start(sim.StartConfig{BounceEnabled: true})).To(Succeed())
			feed.Move(100, 120)
			sched.Tick()
			feed.Leave()
			sched.Tick()
			Expect(renderer.Last().Repulsor.Present).To(BeFalse())
		})

		It("ignores the pointer when bounce is disabled", func() {
			Expect(loop.Start(sim.StartConfig{})).To(Succeed())
			feed.Move(100, 120)
			sched.Tick()
			Expect(renderer.Last().Repulsor.Present).To(BeFalse())
		})
	})

	Describe("settings", func() {
		It("falls back to defaults for unusable text", func() {
			loop.UpdateSettings("abc", "xyz")
			Expect(loop.Settings().BounceFactor()).To(Equal(dynamo.DefaultBounceFactor))
			Expect(loop.Settings().Radius()).To(Equal(dynamo.DefaultRadius))
		})

		It("applies new values from the next frame", func() {
			Expect(loop.Start(sim.StartConfig{BounceEnabled: true})).To(Succeed())
			feed.Move(1, 1)
			sched.Tick()
			Expect(renderer.Last().Repulsor.Radius).To(Equal(35.0))

			loop.UpdateSettings("2.5", "60")
			sched.Tick()
			rep := renderer.Last().Repulsor
			Expect(rep.Radius).To(Equal(60.0))
			Expect(rep.BounceFactor).To(Equal(2.5))
		})

		It("keeps the radius at or above the floor", func() {
			loop.SetSettings(1.5, 8)
			Expect(loop.AdjustRadius(-5)).To(Equal(dynamo.MinRadius))
			Expect(loop.AdjustRadius(5)).To(Equal(10.0))
		})
	})

	Describe("OnSurfaceResize", func() {
		It("moves the bounds of the active run", func() {
			Expect(loop.Start(sim.StartConfig{})).To(Succeed())
			loop.OnSurfaceResize(1024, 768)
			sched.Tick()
			Expect(renderer.Last().Width).To(Equal(1024.0))
			Expect(renderer.Last().Height).To(Equal(768.0))
		})

		It("is a no-op without an active run", func() {
			Expect(func() { loop.OnSurfaceResize(10, 10) }).NotTo(Panic())
		})
	})

	Describe("TeardownHook", func() {
		It("runs the existing teardown before stopping", func() {
			var order []string
			existing := func() { order = append(order, "existing") }

			Expect(loop.Start(sim.StartConfig{})).To(Succeed())
			hook := loop.TeardownHook(existing)
			hook()
			order = append(order, "after")

			Expect(order).To(Equal([]string{"existing", "after"}))
			Expect(loop.Running()).To(BeFalse())
			Expect(sched.Pending()).To(BeFalse())
		})

		It("works without an existing teardown", func() {
			Expect(loop.Start(sim.StartConfig{})).To(Succeed())
			loop.TeardownHook(nil)()
			Expect(loop.Running()).To(BeFalse())
		})
	})

	Describe("debug logging", func() {
		It("logs the toggle", func() {
			var buf bytes.Buffer
			l := sim.New(renderer, surface, sched, sim.WithLogger(log.New(&buf)))
			l.SetDebug(true)
			Expect(l.Debug()).To(BeTrue())
			Expect(buf.String()).To(ContainSubstring("debug mode"))
		})
	})
})

var _ = Describe("ComposeHooks", func() {
	It("runs hooks in order and skips nil ones", func() {
		var calls []int
		h := sim.ComposeHooks(
			func() { calls = append(calls, 1) },
			nil,
			func() { calls = append(calls, 2) },
		)
		h()
		Expect(calls).To(Equal([]int{1, 2}))
	})
})

var _ = Describe("PointerFeed", func() {
	It("stops delivering after unsubscribe", func() {
		feed := sim.NewPointerFeed()
		var got []dynamo.Pointer
		sub := feed.Subscribe(func(p dynamo.Pointer) { got = append(got, p) })
		feed.Move(1, 2)
		sub.Unsubscribe()
		sub.Unsubscribe()
		feed.Move(3, 4)

		Expect(got).To(Equal([]dynamo.Pointer{dynamo.At(1, 2)}))
		Expect(feed.Subscribers()).To(BeZero())
	})
})

var _ = Describe("ManualScheduler", func() {
	It("ignores stale tokens", func() {
		s := sim.NewManualScheduler()
		ran := 0
		first := s.ScheduleNextFrame(func() { ran++ })
		s.ScheduleNextFrame(func() { ran += 10 })
		s.CancelFrame(first)

		Expect(s.Pending()).To(BeTrue())
		Expect(s.Tick()).To(BeTrue())
		Expect(ran).To(Equal(10))
		Expect(s.Tick()).To(BeFalse())
	})
})
