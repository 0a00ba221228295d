package audio

import (
	"math"
	"sync"
)

const (
	SampleRate = 44100
	BufferSize = 1024

	baseCutoff = 300.0
	maxOpen    = 900.0
	volume     = 0.252
	pluckFreq  = 440.0
	pluckDecay = 0.9997
)

// Gm7 add9: G2, Bb2, D3, F3, A3
var padFreqs = []float64{98.00, 116.54, 146.83, 174.61, 220.00}

// Synth is an ambient pad whose filter opens with the kinetic energy of the
// simulation. Each bounce adds a short pluck on top.
//
// Feed it with Update from the render goroutine; Process runs on the audio
// callback.
type Synth struct {
	mu      sync.Mutex
	energy  float64
	pending float64

	// callback state
	time         float64
	energySmooth float64
	pluck        float64
	filterState  [2]float64
	delayLine    [2][]float64
	delayHead    int
}

func NewSynth() *Synth {
	// 0.6 s stereo delay
	delayLen := int(float64(SampleRate) * 0.6)
	return &Synth{
		delayLine: [2][]float64{make([]float64, delayLen), make([]float64, delayLen)},
	}
}

// Update records the latest frame: total kinetic energy and the bounces it
// produced.
func (s *Synth) Update(kineticEnergy float64, bounces int) {
	s.mu.Lock()
	s.energy = kineticEnergy
	s.pending += 0.2 * float64(bounces)
	s.mu.Unlock()
}

// Cutoff is the current low-pass cutoff in Hz.
func (s *Synth) Cutoff() float64 {
	return baseCutoff + math.Min(s.energySmooth/5.0, maxOpen)
}

// Process fills both channels of out with the next samples.
func (s *Synth) Process(out [][]float32) {
	s.mu.Lock()
	target := s.energy
	s.pluck = math.Min(1, s.pluck+s.pending)
	s.pending = 0
	s.mu.Unlock()

	// morph slowly so energy jumps do not click
	s.energySmooth = s.energySmooth*0.995 + target*0.005
	cutoff := s.Cutoff()
	dt := 1.0 / float64(SampleRate)

	for i := 0; i < len(out[0]); i++ {
		sampleL, sampleR := 0.0, 0.0
		g := 1.0 / float64(len(padFreqs))
		for j, f := range padFreqs {
			// slight detune, slow breathing LFO
			lfo := math.Sin(s.time*0.2 + float64(j))
			sampleL += triangle(s.time*(f*0.999)) * g * (0.7 + 0.3*lfo)
			sampleR += triangle(s.time*(f*1.001)) * g * (0.7 + 0.3*lfo)
		}

		var outL, outR float64
		outL, s.filterState[0] = lpf(sampleL, cutoff, dt, s.filterState[0])
		outR, s.filterState[1] = lpf(sampleR, cutoff, dt, s.filterState[1])

		ping := s.pluck * math.Sin(2*math.Pi*pluckFreq*s.time)
		s.pluck *= pluckDecay
		outL += ping * 0.5
		outR += ping * 0.5

		// ping-pong feedback
		delayL := s.delayLine[0][s.delayHead]
		delayR := s.delayLine[1][s.delayHead]
		mixL := outL + delayL*0.3 + delayR*0.1
		mixR := outR + delayR*0.3 + delayL*0.1
		s.delayLine[0][s.delayHead] = mixL * 0.7
		s.delayLine[1][s.delayHead] = mixR * 0.7
		s.delayHead = (s.delayHead + 1) % len(s.delayLine[0])

		out[0][i] = float32(mixL * volume)
		out[1][i] = float32(mixR * volume)

		s.time += dt
	}
}

// triangle has no harsh harmonics, unlike a saw.
func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// lpf is a one-pole low-pass filter.
func lpf(sample, cutoff, dt, state float64) (float64, float64) {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	out := state + alpha*(sample-state)
	return out, out
}
