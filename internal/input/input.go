// Package input reads recorded sessions from YAML or JSON documents.
package input

import (
	"bytes"
	"io"
	"os"

	"codeberg.org/mutker/biofeedback/internal/errors"
	"codeberg.org/mutker/biofeedback/internal/facial"
	"codeberg.org/mutker/biofeedback/internal/processor"
	"gopkg.in/yaml.v3"
)

// Recording is one captured session. SamplingRate applies to Waveform and
// Facial; zero means the processor's rate is kept.
type Recording struct {
	SamplingRate float64         `yaml:"sampling_rate,omitempty" json:"sampling_rate,omitempty"`
	RRIntervals  []float64       `yaml:"rr_intervals,omitempty" json:"rr_intervals,omitempty"`
	Facial       []facial.Sample `yaml:"facial,omitempty" json:"facial,omitempty"`
	Waveform     []float64       `yaml:"waveform,flow,omitempty" json:"waveform,omitempty"`
}

// Load reads a recording from path.
func Load(path string) (*Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New().Wrap(ErrReadInput, err).WithData(path)
	}

	return Decode(bytes.NewReader(data))
}

// Decode parses a single document. JSON is accepted since it is valid YAML.
// Unknown fields are rejected.
func Decode(r io.Reader) (*Recording, error) {
	errFactory := errors.New()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	rec := &Recording{}
	if err := dec.Decode(rec); err != nil {
		if err == io.EOF {
			return rec, nil
		}
		return nil, errFactory.Wrap(ErrDecodeInput, err)
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}

	return rec, nil
}

// Validate checks the sampling rate when one is set.
func (r *Recording) Validate() error {
	if r.SamplingRate == 0 {
		return nil
	}

	return processor.ValidateSamplingRate(r.SamplingRate)
}

// Write encodes the recording as YAML.
func (r *Recording) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return errors.New().Wrap(errors.ErrOperationFailed, err)
	}

	return enc.Close()
}

// Processor builds a processor at the recording's rate, or fallbackRate when
// the recording does not set one, and loads RR intervals and facial samples.
// The waveform is not stored by processors; pass it to
// ComputeRespiratoryRate.
func (r *Recording) Processor(fallbackRate float64, opts ...processor.Option) (*processor.Processor, error) {
	rate := r.SamplingRate
	if rate == 0 {
		rate = fallbackRate
	}

	p, err := processor.New(rate, opts...)
	if err != nil {
		return nil, err
	}
	r.Apply(p)

	return p, nil
}

// Apply appends the recording's RR intervals and facial samples to p.
func (r *Recording) Apply(p *processor.Processor) {
	if len(r.RRIntervals) > 0 {
		p.AddRRIntervals(r.RRIntervals)
	}
	for _, s := range r.Facial {
		p.AddFacialSample(s)
	}
}
