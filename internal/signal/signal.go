// Package signal synthesizes breathing waveforms, RR intervals and facial
// telemetry for demos and tests. The generators are deterministic.
package signal

import (
	"math"

	"codeberg.org/mutker/biofeedback/internal/facial"
)

// holdSag is the fraction of lung volume lost over a hold phase. It keeps
// held breaths from rendering as flat plateaus.
const holdSag = 0.05

// blinkPeriod is the spacing of simulated blinks, in seconds.
const blinkPeriod = 4.0

// BreathingSim produces a sine respiration waveform at fs Hz.
type BreathingSim struct {
	fs        float64
	freq      float64
	amplitude float64
	n         int
}

// NewBreathingSim fs in Hz, bpm in breaths per minute.
func NewBreathingSim(fs, bpm, amplitude float64) *BreathingSim {
	return &BreathingSim{fs: fs, freq: bpm / 60, amplitude: amplitude}
}

// Next returns the next sample and advances time.
func (s *BreathingSim) Next() float64 {
	v := s.amplitude * math.Sin(2*math.Pi*s.freq*float64(s.n)/s.fs)
	s.n++

	return v
}

// Samples returns the next n samples.
func (s *BreathingSim) Samples(n int) []float64 {
	return take(s, n)
}

// PatternSim renders a breathing pattern as normalized lung volume in
// [0, 1]: half-cosine ramps on inhale and exhale, a slight sag on holds.
type PatternSim struct {
	fs      float64
	pattern Pattern
	phase   int
	k       int     // samples into the current phase
	start   float64 // volume at the start of the current phase
}

func NewPatternSim(fs float64, pattern Pattern) *PatternSim {
	return &PatternSim{fs: fs, pattern: pattern}
}

// Phase is the phase the next sample falls in.
func (s *PatternSim) Phase() Phase {
	if len(s.pattern.Phases) == 0 {
		return Phase{}
	}

	return s.pattern.Phases[s.phase]
}

func (s *PatternSim) Next() float64 {
	phases := s.pattern.Phases
	if len(phases) == 0 {
		return 0
	}

	// skip phases too short to hold a sample
	for i := 0; i < len(phases) && s.phaseSamples() == 0; i++ {
		s.advance()
	}
	n := s.phaseSamples()
	if n == 0 {
		return s.start
	}

	v := volumeAt(phases[s.phase], s.start, float64(s.k)/float64(n))
	s.k++
	if s.k >= n {
		s.advance()
	}

	return v
}

func (s *PatternSim) Samples(n int) []float64 {
	return take(s, n)
}

func (s *PatternSim) phaseSamples() int {
	return int(math.Round(s.pattern.Phases[s.phase].Seconds * s.fs))
}

func (s *PatternSim) advance() {
	s.start = volumeAt(s.pattern.Phases[s.phase], s.start, 1)
	s.phase = (s.phase + 1) % len(s.pattern.Phases)
	s.k = 0
}

// volumeAt is the lung volume at fraction u of phase ph entered at start.
func volumeAt(ph Phase, start, u float64) float64 {
	switch {
	case ph.isInhale():
		return start + (1-start)*ease(u)
	case ph.isExhale():
		return start * (1 - ease(u))
	default:
		return start * (1 - holdSag*u)
	}
}

func ease(u float64) float64 {
	return (1 - math.Cos(math.Pi*u)) / 2
}

// RRSim produces RR intervals in milliseconds around a mean heart rate,
// modulated by respiratory sinus arrhythmia.
type RRSim struct {
	meanMS     float64
	breathFreq float64
	rsaMS      float64
	noiseMS    float64
	t          float64 // seconds
}

// NewRRSim hrBPM typical 55-90, breathsPerMinute 4-20, rsaMS ~10-60.
func NewRRSim(hrBPM, breathsPerMinute, rsaMS, noiseMS float64) *RRSim {
	return &RRSim{
		meanMS:     60000 / hrBPM,
		breathFreq: breathsPerMinute / 60,
		rsaMS:      rsaMS,
		noiseMS:    noiseMS,
	}
}

func (s *RRSim) Next() float64 {
	rsa := s.rsaMS * math.Sin(2*math.Pi*s.breathFreq*s.t)
	rr := s.meanMS + rsa + s.noiseMS*noise(s.t)
	s.t += rr / 1000

	return rr
}

// Intervals returns the intervals covering at least seconds of heartbeats.
func (s *RRSim) Intervals(seconds float64) []float64 {
	var out []float64
	for total := 0.0; total < seconds*1000; {
		rr := s.Next()
		total += rr
		out = append(out, rr)
	}

	return out
}

// FacialSim produces facial telemetry that relaxes exponentially from
// an initial tension with slow eye drift and sporadic blinks.
type FacialSim struct {
	fs        float64
	tension   float64
	relaxRate float64 // per second
	n         int
}

func NewFacialSim(fs, tension, relaxRate float64) *FacialSim {
	return &FacialSim{fs: fs, tension: tension, relaxRate: relaxRate}
}

func (s *FacialSim) Next() facial.Sample {
	t := float64(s.n) / s.fs
	every := max(1, int(math.Round(blinkPeriod*s.fs)))
	blink := 0.0
	if s.n%every == 0 {
		blink = 1
	}
	s.n++

	tension := s.tension*math.Exp(-s.relaxRate*t) + 0.02*noise(t)

	return facial.Sample{
		MuscleTension: clamp01(tension),
		EyeMovement:   clamp01(0.15 + 0.1*math.Sin(2*math.Pi*0.05*t) + 0.03*noise(t+1)),
		BlinkRate:     blink,
		Symmetry:      clamp01(0.9 - 0.2*tension + 0.02*noise(t+2)),
	}
}

func (s *FacialSim) Samples(n int) []facial.Sample {
	out := make([]facial.Sample, n)
	for i := range out {
		out[i] = s.Next()
	}

	return out
}

type generator interface {
	Next() float64
}

func take(g generator, n int) []float64 {
	if n <= 0 {
		return nil
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = g.Next()
	}

	return out
}

// noise is a cheap deterministic value in [-1, 1).
func noise(t float64) float64 {
	return 2*fract(math.Sin(12345.678*t)*9876.543) - 1
}

func fract(x float64) float64 { return x - math.Floor(x) }

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
