package sim_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

type countingMetric struct{ n int }

func (m *countingMetric) Name() string           { return "frames" }
func (m *countingMetric) Observe(dynamo.Snapshot) { m.n++ }
func (m *countingMetric) Value() float64          { return float64(m.n) }
func (m *countingMetric) Reset()                  { m.n = 0 }

type frameObserver struct{ frames []uint64 }

func (o *frameObserver) OnFrame(snap dynamo.Snapshot) { o.frames = append(o.frames, snap.Frame) }

var _ = Describe("Runner", func() {
	var cfg sim.RunConfig

	BeforeEach(func() {
		cfg = sim.RunConfig{Frames: 120, Width: 800, Height: 600, Seed: 42}
	})

	It("rejects non-positive frame counts", func() {
		cfg.Frames = 0
		_, err := sim.NewRunner(dynamo.DefaultTuning()).Run(context.Background(), cfg)
		Expect(err).To(MatchError(dynamo.ErrInvalidRunConfig))
	})

	It("rejects an empty surface", func() {
		cfg.Width = 0
		_, err := sim.NewRunner(dynamo.DefaultTuning()).Run(context.Background(), cfg)
		Expect(err).To(MatchError(dynamo.ErrInvalidRunConfig))
	})

	It("records one energy sample per frame", func() {
		res, err := sim.NewRunner(dynamo.DefaultTuning()).Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Frames).To(Equal(120))
		Expect(res.KineticEnergy).To(HaveLen(120))
		Expect(res.Final.Frame).To(Equal(uint64(120)))
		Expect(res.Final.Particles).To(HaveLen(dynamo.DefaultParticleCount))
	})

	It("is reproducible for a fixed seed", func() {
		a, err := sim.NewRunner(dynamo.DefaultTuning()).Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		b, err := sim.NewRunner(dynamo.DefaultTuning()).Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.KineticEnergy).To(Equal(b.KineticEnergy))
		Expect(a.Final.Particles).To(Equal(b.Final.Particles))
	})

	It("feeds metrics and observers", func() {
		r := sim.NewRunner(dynamo.DefaultTuning())
		m := &countingMetric{}
		o := &frameObserver{}
		r.AddMetric(m)
		r.AddObserver(o)

		cfg.Frames = 10
		res, err := r.Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Metrics).To(HaveKeyWithValue("frames", 10.0))
		Expect(o.frames).To(HaveLen(10))
		Expect(o.frames[9]).To(Equal(uint64(10)))
	})

	It("bounces particles off a pointer parked on their orbits", func() {
		cfg.BounceEnabled = true
		cfg.Frames = 600
		cfg.Radius = 80
		cfg.Pointer = sim.OrbitPointer(400, 300, 170, 0.02)
		res, err := sim.NewRunner(dynamo.DefaultTuning()).Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Bounces).To(BeNumerically(">", 0))
		Expect(res.Final.Repulsor.Radius).To(Equal(80.0))
	})

	It("stops on a cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		res, err := sim.NewRunner(dynamo.DefaultTuning()).Run(ctx, cfg)
		Expect(err).To(MatchError(context.Canceled))
		Expect(res.Frames).To(BeZero())
	})
})

var _ = Describe("ParsePointerPath", func() {
	It("parks the pointer at x,y", func() {
		path, err := sim.ParsePointerPath(" 120, 80 ", 800, 600)
		Expect(err).NotTo(HaveOccurred())
		Expect(path(5)).To(Equal(dynamo.At(120, 80)))
	})

	It("circles the surface centre for orbit", func() {
		path, err := sim.ParsePointerPath("orbit", 800, 600)
		Expect(err).NotTo(HaveOccurred())
		Expect(path(0)).To(Equal(dynamo.At(550, 300)))
	})

	DescribeTable("rejects malformed input",
		func(s string) {
			_, err := sim.ParsePointerPath(s, 800, 600)
			Expect(err).To(HaveOccurred())
		},
		Entry("empty", ""),
		Entry("one coordinate", "12"),
		Entry("bad x", "a,3"),
		Entry("bad y", "3,b"),
	)
})

var _ = Describe("Ensemble", func() {
	It("runs each seed once", func() {
		e := sim.NewEnsemble(dynamo.DefaultTuning(), 4, 100, func() []sim.Metric {
			return []sim.Metric{&countingMetric{}}
		})
		results, err := e.Run(context.Background(), sim.RunConfig{Frames: 30, Width: 640, Height: 480})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(4))
		for _, r := range results {
			Expect(r.Frames).To(Equal(30))
			Expect(r.Metrics).To(HaveKeyWithValue("frames", 30.0))
		}
		Expect(results[0].Final.Particles).NotTo(Equal(results[1].Final.Particles))
	})

	It("skips the clock seed when counting through zero", func() {
		e := sim.NewEnsemble(dynamo.DefaultTuning(), 3, -1, nil)
		Expect(e.Seeds()).To(Equal([]int64{-1, 1, 2}))

		cfg := sim.RunConfig{Frames: 10, Width: 640, Height: 480}
		results, err := e.Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		Expect(results[1].Seed).To(Equal(int64(1)))

		cfg.Seed = 1
		again, err := sim.NewRunner(dynamo.DefaultTuning()).Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(again.Final.Particles).To(Equal(results[1].Final.Particles))
	})

	It("surfaces a run error", func() {
		e := sim.NewEnsemble(dynamo.DefaultTuning(), 2, 1, nil)
		_, err := e.Run(context.Background(), sim.RunConfig{Frames: 0, Width: 1, Height: 1})
		Expect(err).To(MatchError(dynamo.ErrInvalidRunConfig))
	})
})
