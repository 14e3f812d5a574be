// Package facial aggregates facial-expression telemetry channels into
// running averages and variability measures.
package facial

import (
	"math"

	"codeberg.org/mutker/biofeedback/internal/buffer"
	"codeberg.org/mutker/biofeedback/internal/errors"
	"codeberg.org/mutker/biofeedback/internal/stats"
)

const (
	// ChannelCapacity is the number of samples retained per channel.
	ChannelCapacity = 100

	movementThreshold = 0.1
)

// Channel identifies one facial telemetry stream.
type Channel int

const (
	MuscleTension Channel = iota
	EyeMovement
	BlinkRate
	Symmetry
)

func (c Channel) String() string {
	switch c {
	case MuscleTension:
		return "muscle_tension"
	case EyeMovement:
		return "eye_movement"
	case BlinkRate:
		return "blink_rate"
	case Symmetry:
		return "facial_symmetry"
	default:
		return "unknown"
	}
}

// Sample is one reading of all four channels.
type Sample struct {
	MuscleTension float64 `json:"muscle_tension" yaml:"muscle_tension"`
	EyeMovement   float64 `json:"eye_movement" yaml:"eye_movement"`
	BlinkRate     float64 `json:"blink_rate" yaml:"blink_rate"`
	Symmetry      float64 `json:"symmetry" yaml:"symmetry"`
}

// Metrics is the aggregate over the retained samples.
type Metrics struct {
	MeanTension          float64 `json:"mean_tension"`
	TensionVariability   float64 `json:"tension_variability"`
	MeanEyeMovement      float64 `json:"mean_eye_movement"`
	EyeMovementFrequency float64 `json:"eye_movement_frequency"`
	MeanBlinkRate        float64 `json:"mean_blink_rate"`
	MeanSymmetry         float64 `json:"mean_symmetry"`
}

// State keeps the bounded history of each channel. All channels are updated
// together through Add, so they always hold the same number of samples.
type State struct {
	channels [4]*buffer.Bounded
}

func NewState() *State {
	s := &State{}
	for i := range s.channels {
		s.channels[i] = buffer.NewBounded(ChannelCapacity)
	}

	return s
}

// Add pushes one value onto every channel.
func (s *State) Add(sample Sample) {
	s.channels[MuscleTension].Push(sample.MuscleTension)
	s.channels[EyeMovement].Push(sample.EyeMovement)
	s.channels[BlinkRate].Push(sample.BlinkRate)
	s.channels[Symmetry].Push(sample.Symmetry)
}

// Values returns a copy of one channel's history, oldest first.
func (s *State) Values(c Channel) []float64 {
	if c < MuscleTension || c > Symmetry {
		return nil
	}

	return s.channels[c].Values()
}

// Len is the number of retained samples.
func (s *State) Len() int {
	return s.channels[MuscleTension].Len()
}

// Reset drops all retained samples.
func (s *State) Reset() {
	for _, ch := range s.channels {
		ch.Reset()
	}
}

// Compute aggregates the current history. samplingRate converts the eye
// movement change ratio into a frequency.
func (s *State) Compute(samplingRate float64) (Metrics, error) {
	tension := s.channels[MuscleTension].Values()
	if len(tension) == 0 {
		return Metrics{}, errors.New().New(ErrNoFacialData)
	}

	eye := s.channels[EyeMovement].Values()

	return Metrics{
		MeanTension:          stats.Mean(tension),
		TensionVariability:   Variability(tension),
		MeanEyeMovement:      stats.Mean(eye),
		EyeMovementFrequency: MovementFrequency(eye, samplingRate),
		MeanBlinkRate:        stats.Mean(s.channels[BlinkRate].Values()),
		MeanSymmetry:         stats.Mean(s.channels[Symmetry].Values()),
	}, nil
}

// Variability is the population standard deviation of values.
func Variability(values []float64) float64 {
	return stats.StdDev(values)
}

// MovementFrequency counts successive changes larger than 0.1, divides by
// the number of sample pairs and scales by samplingRate. Fewer than two
// values yield 0.
func MovementFrequency(values []float64, samplingRate float64) float64 {
	if len(values) < 2 {
		return 0
	}

	moves := 0
	for i := 1; i < len(values); i++ {
		if math.Abs(values[i]-values[i-1]) > movementThreshold {
			moves++
		}
	}

	return float64(moves) / float64(len(values)-1) * samplingRate
}

// FromSeries builds a State from parallel channel slices. All slices must have
// the same length.
func FromSeries(tension, eye, blink, symmetry []float64) (*State, error) {
	n := len(tension)
	if len(eye) != n || len(blink) != n || len(symmetry) != n {
		return nil, errors.New().WithData(ErrInvalidArgument, struct {
			Tension, EyeMovement, BlinkRate, Symmetry int
		}{n, len(eye), len(blink), len(symmetry)})
	}

	s := NewState()
	for i := 0; i < n; i++ {
		s.Add(Sample{
			MuscleTension: tension[i],
			EyeMovement:   eye[i],
			BlinkRate:     blink[i],
			Symmetry:      symmetry[i],
		})
	}

	return s, nil
}
