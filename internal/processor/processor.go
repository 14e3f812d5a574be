// Package processor holds the per-user processing context: the RR interval
// store, the bounded facial channels and the sampling rate shared by the
// waveform and facial computations.
package processor

import (
	"math"

	"codeberg.org/mutker/biofeedback/internal/buffer"
	"codeberg.org/mutker/biofeedback/internal/errors"
	"codeberg.org/mutker/biofeedback/internal/facial"
	"codeberg.org/mutker/biofeedback/internal/hrv"
	"codeberg.org/mutker/biofeedback/internal/logger"
	"codeberg.org/mutker/biofeedback/internal/respiration"
)

// DefaultSamplingRate is used by the stateless helpers, in Hz.
const DefaultSamplingRate = 30.0

// Processor is not safe for concurrent use. Callers sharing one instance
// must serialize access.
type Processor struct {
	samplingRate float64
	rr           *buffer.Series
	facial       *facial.State
	log          logger.Logger
}

type Option func(*Processor)

// WithLogger replaces the global logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Processor) {
		p.log = l
	}
}

// New creates an empty processor. samplingRate must be positive and finite.
func New(samplingRate float64, opts ...Option) (*Processor, error) {
	if err := ValidateSamplingRate(samplingRate); err != nil {
		return nil, err
	}

	p := &Processor{
		samplingRate: samplingRate,
		rr:           buffer.NewSeries(),
		facial:       facial.NewState(),
		log:          logger.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// ValidateSamplingRate rejects zero, negative, NaN and infinite rates.
func ValidateSamplingRate(samplingRate float64) error {
	if samplingRate <= 0 || math.IsNaN(samplingRate) || math.IsInf(samplingRate, 0) {
		return errors.New().WithData(ErrInvalidSamplingRate, samplingRate)
	}

	return nil
}

func (p *Processor) SamplingRate() float64 {
	return p.samplingRate
}

// AddRRIntervals appends intervals in milliseconds. Values are not validated.
func (p *Processor) AddRRIntervals(intervals []float64) {
	p.rr.Append(intervals...)
	p.log.Debug().Int("added", len(intervals)).Int("total", p.rr.Len()).Msg("RR intervals added")
}

func (p *Processor) ClearRRIntervals() {
	p.rr.Clear()
	p.log.Debug().Msg("RR intervals cleared")
}

// RRIntervals returns a copy of the stored intervals.
func (p *Processor) RRIntervals() []float64 {
	return p.rr.Values()
}

// AddFacialSample pushes one reading onto all four channels.
func (p *Processor) AddFacialSample(sample facial.Sample) {
	p.facial.Add(sample)
}

// FacialSamples is the number of retained facial readings.
func (p *Processor) FacialSamples() int {
	return p.facial.Len()
}

// ClearFacialSamples drops all retained facial readings.
func (p *Processor) ClearFacialSamples() {
	p.facial.Reset()
}

func (p *Processor) ComputeHRV() (hrv.Metrics, error) {
	m, err := hrv.Compute(p.rr.Values())
	if err != nil {
		return hrv.Metrics{}, err
	}
	p.log.Debug().
		Float64("rmssd", m.RMSSD).
		Float64("sdnn", m.SDNN).
		Float64("pnn50", m.PNN50).
		Msg("HRV computed")

	return m, nil
}

func (p *Processor) ComputeFacialMetrics() (facial.Metrics, error) {
	return p.facial.Compute(p.samplingRate)
}

// ComputeRespiratoryRate estimates breaths per minute from a PPG-like
// waveform sampled at the processor's rate.
func (p *Processor) ComputeRespiratoryRate(signal []float64) (float64, error) {
	bpm, err := respiration.Rate(signal, p.samplingRate)
	if err != nil {
		return 0, err
	}
	p.log.Debug().Int("samples", len(signal)).Float64("bpm", bpm).Msg("Respiratory rate computed")

	return bpm, nil
}

// HRVMetrics computes HRV statistics without a processor.
func HRVMetrics(rr []float64) (hrv.Metrics, error) {
	return hrv.Compute(rr)
}

// RespiratoryRate estimates breaths per minute without a processor.
func RespiratoryRate(signal []float64, samplingRate float64) (float64, error) {
	return respiration.Rate(signal, samplingRate)
}

// FacialMetrics aggregates parallel channel series at DefaultSamplingRate.
// Only the most recent facial.ChannelCapacity samples of each are used.
func FacialMetrics(tension, eye, blink, symmetry []float64) (facial.Metrics, error) {
	s, err := facial.FromSeries(tension, eye, blink, symmetry)
	if err != nil {
		return facial.Metrics{}, err
	}

	return s.Compute(DefaultSamplingRate)
}
