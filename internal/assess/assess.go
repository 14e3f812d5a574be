// Package assess turns raw metrics into user-facing scores and level labels.
package assess

import (
	"math"

	"codeberg.org/mutker/biofeedback/internal/facial"
	"codeberg.org/mutker/biofeedback/internal/hrv"
)

// Severity orders labels from good to bad so renderers can pick a colour.
type Severity int

const (
	SeverityGood Severity = iota
	SeverityFair
	SeverityPoor
)

func (s Severity) String() string {
	switch s {
	case SeverityGood:
		return "good"
	case SeverityFair:
		return "fair"
	case SeverityPoor:
		return "poor"
	default:
		return "unknown"
	}
}

// Level is a labelled band.
type Level struct {
	Label    string   `json:"label"`
	Severity Severity `json:"-"`
}

// Stress is a 0..100 index derived from RMSSD. Higher is more stressed.
type Stress struct {
	Index float64 `json:"index"`
	Level Level   `json:"level"`
}

// StressIndex returns max(0, 100 - RMSSD/10).
func StressIndex(rmssd float64) float64 {
	return math.Max(0, 100-rmssd/10)
}

func StressLevel(index float64) Level {
	switch {
	case index < 30:
		return Level{"Low", SeverityGood}
	case index < 60:
		return Level{"Moderate", SeverityFair}
	default:
		return Level{"High", SeverityPoor}
	}
}

func AssessStress(m hrv.Metrics) Stress {
	idx := StressIndex(m.RMSSD)
	return Stress{Index: idx, Level: StressLevel(idx)}
}

func TensionLevel(v float64) Level {
	switch {
	case v < 0.3:
		return Level{"Relaxed", SeverityGood}
	case v < 0.6:
		return Level{"Moderate", SeverityFair}
	default:
		return Level{"High", SeverityPoor}
	}
}

func EyeMovementLevel(v float64) Level {
	switch {
	case v < 0.2:
		return Level{"Still", SeverityGood}
	case v < 0.5:
		return Level{"Moderate", SeverityFair}
	default:
		return Level{"Active", SeverityPoor}
	}
}

func BlinkRateLevel(v float64) Level {
	switch {
	case v < 0.1:
		return Level{"Normal", SeverityGood}
	case v < 0.3:
		return Level{"Frequent", SeverityFair}
	default:
		return Level{"Very Frequent", SeverityPoor}
	}
}

func SymmetryLevel(v float64) Level {
	switch {
	case v > 0.8:
		return Level{"Balanced", SeverityGood}
	case v > 0.6:
		return Level{"Slight Asymmetry", SeverityFair}
	default:
		return Level{"Asymmetric", SeverityPoor}
	}
}

// Facial groups the per-channel levels and the overall relaxation score.
type Facial struct {
	Tension         Level `json:"tension"`
	EyeMovement     Level `json:"eye_movement"`
	BlinkRate       Level `json:"blink_rate"`
	Symmetry        Level `json:"symmetry"`
	Relaxation      int   `json:"relaxation"`
	RelaxationLevel Level `json:"relaxation_level"`
}

// RelaxationScore averages the inverted tension, eye movement and blink
// means with symmetry and scales the result to 0..100.
func RelaxationScore(m facial.Metrics) int {
	tension := math.Max(0, 1-m.MeanTension)
	movement := math.Max(0, 1-m.MeanEyeMovement)
	blink := math.Max(0, 1-m.MeanBlinkRate)

	return int(math.Round((tension + movement + blink + m.MeanSymmetry) / 4 * 100))
}

func RelaxationLevel(score int) Level {
	switch {
	case score > 80:
		return Level{"Very Relaxed", SeverityGood}
	case score > 60:
		return Level{"Relaxed", SeverityGood}
	case score > 40:
		return Level{"Moderate", SeverityFair}
	case score > 20:
		return Level{"Tense", SeverityPoor}
	default:
		return Level{"Very Tense", SeverityPoor}
	}
}

func AssessFacial(m facial.Metrics) Facial {
	score := RelaxationScore(m)

	return Facial{
		Tension:         TensionLevel(m.MeanTension),
		EyeMovement:     EyeMovementLevel(m.MeanEyeMovement),
		BlinkRate:       BlinkRateLevel(m.MeanBlinkRate),
		Symmetry:        SymmetryLevel(m.MeanSymmetry),
		Relaxation:      score,
		RelaxationLevel: RelaxationLevel(score),
	}
}
