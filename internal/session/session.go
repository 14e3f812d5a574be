// Package session keeps one processor per live user session and serializes
// access to it.
package session

import (
	"sync"
	"time"

	"codeberg.org/mutker/biofeedback/internal/buffer"
	"codeberg.org/mutker/biofeedback/internal/errors"
	"codeberg.org/mutker/biofeedback/internal/facial"
	"codeberg.org/mutker/biofeedback/internal/logger"
	"codeberg.org/mutker/biofeedback/internal/processor"
	"codeberg.org/mutker/biofeedback/internal/pulse"
	"codeberg.org/mutker/biofeedback/internal/report"
	"github.com/google/uuid"
)

// DefaultWaveformSeconds is how much of the streamed waveform a session keeps.
const DefaultWaveformSeconds = 60

// HeartRateHistory is the number of heart rate readings a session keeps.
const HeartRateHistory = 100

// Session wraps a processor with a mutex, a rolling waveform window and the
// heart rates derived from pulse chunks.
type Session struct {
	id         string
	mu         sync.Mutex
	proc       *processor.Processor
	waveform   *buffer.Bounded
	heartRates *buffer.Bounded
	updated    time.Time
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) AddRR(intervals []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.proc.AddRRIntervals(intervals)
	s.updated = time.Now()
}

// Clear drops all buffered data, including the heart rate history.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.proc.ClearRRIntervals()
	s.proc.ClearFacialSamples()
	s.waveform.Reset()
	s.heartRates.Reset()
	s.updated = time.Now()
}

func (s *Session) AddFacial(samples ...facial.Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sample := range samples {
		s.proc.AddFacialSample(sample)
	}
	s.updated = time.Now()
}

// AddWaveform appends samples to the rolling window. The oldest samples are
// dropped once the window is full.
func (s *Session) AddWaveform(samples []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range samples {
		s.waveform.Push(v)
	}
	s.updated = time.Now()
}

// AddPulse derives beats from one chunk of pulse waveform, appends their RR
// intervals to the processor and records the chunk's heart rate. A chunk
// with fewer than two peaks is rejected and leaves the session unchanged.
func (s *Session) AddPulse(samples []float64) (pulse.Beats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := pulse.Analyze(samples, s.proc.SamplingRate())
	if err != nil {
		return pulse.Beats{}, err
	}

	s.proc.AddRRIntervals(b.RRIntervals)
	s.heartRates.Push(b.HeartRate)
	s.updated = time.Now()

	return b, nil
}

// HeartRates returns the recorded heart rates, oldest first.
func (s *Session) HeartRates() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.heartRates.Values()
}

// Snapshot computes a report over the current state. The report's heart
// rate is the latest pulse reading.
func (s *Session) Snapshot() report.Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := report.Build(s.proc, s.waveform.Values())
	r.SessionID = s.id
	if n := s.heartRates.Len(); n > 0 {
		hr := s.heartRates.Values()[n-1]
		r.HeartRate = &hr
	}

	return r
}

// Updated is the time of the last mutation.
func (s *Session) Updated() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.updated
}

// Registry is safe for concurrent use.
type Registry struct {
	mu              sync.RWMutex
	sessions        map[string]*Session
	samplingRate    float64
	waveformSeconds float64
	log             logger.Logger
}

type Option func(*Registry)

func WithLogger(l logger.Logger) Option {
	return func(r *Registry) {
		r.log = l
	}
}

// WithWaveformSeconds sets the length of each session's waveform window.
func WithWaveformSeconds(seconds float64) Option {
	return func(r *Registry) {
		r.waveformSeconds = seconds
	}
}

// NewRegistry creates sessions whose processors run at samplingRate.
func NewRegistry(samplingRate float64, opts ...Option) (*Registry, error) {
	if err := processor.ValidateSamplingRate(samplingRate); err != nil {
		return nil, err
	}

	r := &Registry{
		sessions:        make(map[string]*Session),
		samplingRate:    samplingRate,
		waveformSeconds: DefaultWaveformSeconds,
		log:             logger.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Open creates a session with a fresh id.
func (r *Registry) Open() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.create(uuid.NewString())
}

// Get returns an existing session.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, errors.New().WithData(ErrSessionNotFound, id)
	}

	return s, nil
}

// GetOrCreate returns the session with id, creating it when missing.
func (r *Registry) GetOrCreate(id string) *Session {
	if s, err := r.Get(id); err == nil {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s
	}

	return r.create(id)
}

func (r *Registry) create(id string) *Session {
	// sampling rate was validated by NewRegistry
	proc, _ := processor.New(r.samplingRate, processor.WithLogger(r.log))
	s := &Session{
		id:         id,
		proc:       proc,
		waveform:   buffer.NewBounded(int(r.waveformSeconds * r.samplingRate)),
		heartRates: buffer.NewBounded(HeartRateHistory),
		updated:    time.Now(),
	}
	r.sessions[id] = s
	r.log.Info().Str("session", id).Msg("Session opened")

	return s
}

func (r *Registry) Close(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return errors.New().WithData(ErrSessionNotFound, id)
	}
	delete(r.sessions, id)
	r.log.Info().Str("session", id).Msg("Session closed")

	return nil
}

// Expire closes sessions not updated within maxIdle and returns their ids.
func (r *Registry) Expire(maxIdle time.Duration) []string {
	cutoff := time.Now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()

	var expired []string
	for id, s := range r.sessions {
		if s.Updated().Before(cutoff) {
			delete(r.sessions, id)
			expired = append(expired, id)
		}
	}
	if len(expired) > 0 {
		r.log.Info().Int("count", len(expired)).Msg("Idle sessions expired")
	}

	return expired
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
