package dynamo

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
)

const (
	DefaultBounceFactor = 1.5
	DefaultRadius       = 35.0
	MinRadius           = 5.0
)

var (
	floatPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
)

// Settings holds the repulsor knobs. Reads and writes are atomic so a
// settings call may come from any goroutine while frames are stepping.
type Settings struct {
	bounce atomic.Uint64
	radius atomic.Uint64
}

func NewSettings() *Settings {
	s := &Settings{}
	s.Set(DefaultBounceFactor, DefaultRadius)
	return s
}

func (s *Settings) BounceFactor() float64 { return math.Float64frombits(s.bounce.Load()) }
func (s *Settings) Radius() float64       { return math.Float64frombits(s.radius.Load()) }

// Set stores both values, replacing unusable ones with the defaults.
func (s *Settings) Set(bounceFactor, radius float64) (float64, float64) {
	bounceFactor = orDefault(bounceFactor, DefaultBounceFactor)
	radius = orDefault(math.Trunc(radius), DefaultRadius)
	s.bounce.Store(math.Float64bits(bounceFactor))
	s.radius.Store(math.Float64bits(radius))
	return bounceFactor, radius
}

// Parse coerces text input the way a settings surface delivers it. A
// leading numeric prefix is accepted ("2.5x" is 2.5); anything else falls
// back to the default. The radius is truncated to a whole number.
func (s *Settings) Parse(bounceFactor, radius string) (float64, float64) {
	return s.Set(ParseBounceFactor(bounceFactor), ParseRadius(radius))
}

// AdjustRadius nudges the radius by delta, never below MinRadius.
func (s *Settings) AdjustRadius(delta float64) float64 {
	for {
		old := s.radius.Load()
		r := math.Max(MinRadius, math.Float64frombits(old)+delta)
		if s.radius.CompareAndSwap(old, math.Float64bits(r)) {
			return r
		}
	}
}

func ParseBounceFactor(text string) float64 {
	m := floatPrefix.FindString(strings.TrimSpace(text))
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return DefaultBounceFactor
	}
	return orDefault(v, DefaultBounceFactor)
}

func ParseRadius(text string) float64 {
	m := intPrefix.FindString(strings.TrimSpace(text))
	v, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return DefaultRadius
	}
	return orDefault(float64(v), DefaultRadius)
}

// orDefault rejects zero, negative and non-finite values.
func orDefault(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return def
	}
	return v
}
