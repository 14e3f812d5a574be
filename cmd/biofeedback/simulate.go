package main

import (
	"fmt"
	"os"
	"strings"

	"codeberg.org/mutker/biofeedback/internal/errors"
	"codeberg.org/mutker/biofeedback/internal/input"
	"codeberg.org/mutker/biofeedback/internal/logger"
	"codeberg.org/mutker/biofeedback/internal/signal"
	"github.com/spf13/cobra"
)

const (
	defaultDuration  = 120.0
	defaultHeartRate = 64.0
	defaultRSA       = 30.0
	defaultTension   = 0.6
	rrNoiseMS        = 5.0
	relaxRate        = 0.02

	minHeartRate = 20.0
	maxHeartRate = 250.0
)

type simulation struct {
	pattern   string
	duration  float64
	heartRate float64
	rsa       float64
	tension   float64
}

func newSimulateCmd() *cobra.Command {
	sim := simulation{}
	var save string

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Synthesize a session following a breathing pattern and report on it",
		Example: `  biofeedback simulate --pattern 4-7-8 --duration 300
  biofeedback simulate --pattern box --save session.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rec, err := sim.recording(cfg.SamplingRate)
			if err != nil {
				return err
			}

			if save != "" {
				if err := saveRecording(save, rec); err != nil {
					return err
				}
				logger.Info().Str("path", save).Msg("Recording saved")
			}

			return compute(cmd.OutOrStdout(), rec, cfg)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&sim.pattern, "pattern", signal.DefaultPatternID, "Breathing pattern ("+patternIDs()+")")
	fs.Float64Var(&sim.duration, "duration", defaultDuration, "Session length in seconds")
	fs.Float64Var(&sim.heartRate, "heart-rate", defaultHeartRate, "Mean heart rate in beats per minute (20-250)")
	fs.Float64Var(&sim.rsa, "rsa", defaultRSA, "Respiratory sinus arrhythmia amplitude in ms")
	fs.Float64Var(&sim.tension, "tension", defaultTension, "Initial facial muscle tension (0-1)")
	fs.StringVar(&save, "save", "", "Also write the synthesized recording to this YAML file")

	return cmd
}

func (s simulation) recording(samplingRate float64) (*input.Recording, error) {
	errFactory := errors.New()

	pattern, ok := signal.LookupPattern(s.pattern)
	if !ok {
		return nil, errFactory.WithMessage(errors.ErrInvalidArgument, "unknown pattern: "+s.pattern)
	}
	if s.duration <= 0 {
		return nil, errFactory.WithMessage(errors.ErrInvalidArgument, "duration must be positive")
	}
	if !(s.heartRate >= minHeartRate && s.heartRate <= maxHeartRate) {
		return nil, errFactory.WithMessage(errors.ErrInvalidArgument,
			fmt.Sprintf("heart rate must be between %g and %g bpm", minHeartRate, maxHeartRate))
	}

	n := int(s.duration * samplingRate)
	logger.Debug().
		Str("pattern", pattern.ID).
		Float64("breaths_per_minute", pattern.BreathsPerMinute()).
		Int("samples", n).
		Msg("Simulating session")

	return &input.Recording{
		SamplingRate: samplingRate,
		RRIntervals:  signal.NewRRSim(s.heartRate, pattern.BreathsPerMinute(), s.rsa, rrNoiseMS).Intervals(s.duration),
		Facial:       signal.NewFacialSim(samplingRate, s.tension, relaxRate).Samples(n),
		Waveform:     signal.NewPatternSim(samplingRate, pattern).Samples(n),
	}, nil
}

func saveRecording(path string, rec *input.Recording) error {
	errFactory := errors.New()

	f, err := os.Create(path)
	if err != nil {
		return errFactory.Wrap(errors.ErrOperationFailed, err)
	}
	defer f.Close()

	if err := rec.Write(f); err != nil {
		return err
	}

	return nil
}

func patternIDs() string {
	ids := make([]string, 0, len(signal.Patterns()))
	for _, p := range signal.Patterns() {
		ids = append(ids, p.ID)
	}

	return strings.Join(ids, ", ")
}
