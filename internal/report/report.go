// Package report collects every metric a processor can produce into one
// document and renders it for terminals or as JSON.
package report

import (
	"codeberg.org/mutker/biofeedback/internal/assess"
	"codeberg.org/mutker/biofeedback/internal/errors"
	"codeberg.org/mutker/biofeedback/internal/facial"
	"codeberg.org/mutker/biofeedback/internal/hrv"
	"codeberg.org/mutker/biofeedback/internal/processor"
)

// Section names used in Report.Issues.
const (
	SectionHRV         = "hrv"
	SectionFacial      = "facial"
	SectionRespiration = "respiration"
)

// Issue records why a section is missing from a report.
type Issue struct {
	Section string           `json:"section"`
	Code    errors.ErrorCode `json:"code"`
	Message string           `json:"message"`
}

// Report is a snapshot of one processor. Sections that could not be
// computed are nil and have a matching entry in Issues. HeartRate is only
// set by callers that derive it from a pulse waveform.
type Report struct {
	SessionID       string          `json:"session_id,omitempty"`
	SamplingRate    float64         `json:"sampling_rate"`
	HeartRate       *float64        `json:"heart_rate,omitempty"`
	RRIntervals     int             `json:"rr_intervals"`
	FacialSamples   int             `json:"facial_samples"`
	HRV             *hrv.Metrics    `json:"hrv,omitempty"`
	Stress          *assess.Stress  `json:"stress,omitempty"`
	Facial          *facial.Metrics `json:"facial,omitempty"`
	FacialLevels    *assess.Facial  `json:"facial_levels,omitempty"`
	RespiratoryRate *float64        `json:"respiratory_rate,omitempty"`
	Issues          []Issue         `json:"issues,omitempty"`
}

// Build computes every section. The respiration section is only attempted
// when waveform is non-empty.
func Build(p *processor.Processor, waveform []float64) Report {
	r := Report{
		SamplingRate:  p.SamplingRate(),
		RRIntervals:   len(p.RRIntervals()),
		FacialSamples: p.FacialSamples(),
	}

	if m, err := p.ComputeHRV(); err != nil {
		r.addIssue(SectionHRV, err)
	} else {
		stress := assess.AssessStress(m)
		r.HRV = &m
		r.Stress = &stress
	}

	if m, err := p.ComputeFacialMetrics(); err != nil {
		r.addIssue(SectionFacial, err)
	} else {
		levels := assess.AssessFacial(m)
		r.Facial = &m
		r.FacialLevels = &levels
	}

	if len(waveform) > 0 {
		if bpm, err := p.ComputeRespiratoryRate(waveform); err != nil {
			r.addIssue(SectionRespiration, err)
		} else {
			r.RespiratoryRate = &bpm
		}
	}

	return r
}

func (r *Report) addIssue(section string, err error) {
	code, ok := errors.CodeOf(err)
	if !ok {
		code = errors.ErrInternal
	}
	r.Issues = append(r.Issues, Issue{Section: section, Code: code, Message: err.Error()})
}

// Empty reports whether no section could be computed.
func (r Report) Empty() bool {
	return r.HeartRate == nil && r.HRV == nil && r.Facial == nil && r.RespiratoryRate == nil
}
