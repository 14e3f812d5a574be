package main

import (
	"io"

	"codeberg.org/mutker/biofeedback/internal/config"
	"codeberg.org/mutker/biofeedback/internal/input"
	"codeberg.org/mutker/biofeedback/internal/logger"
	"codeberg.org/mutker/biofeedback/internal/processor"
	"codeberg.org/mutker/biofeedback/internal/report"
	"github.com/spf13/cobra"
)

func newComputeCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute metrics for a recorded session",
		Long: `Reads a YAML or JSON recording with rr_intervals, facial samples and a
waveform, and prints every metric that can be computed from it. Use "-" to
read the recording from stdin.`,
		Example: "  biofeedback compute -i session.yaml -o json",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				rec *input.Recording
				err error
			)
			if path == "-" {
				rec, err = input.Decode(cmd.InOrStdin())
			} else {
				rec, err = input.Load(path)
			}
			if err != nil {
				return err
			}

			return compute(cmd.OutOrStdout(), rec, cfg)
		},
	}

	cmd.Flags().StringVarP(&path, "input", "i", "-", "Recording file (YAML or JSON)")

	return cmd
}

func compute(w io.Writer, rec *input.Recording, cfg *config.Config) error {
	p, err := rec.Processor(cfg.SamplingRate, processor.WithLogger(logger.Default()))
	if err != nil {
		return err
	}

	r := report.Build(p, rec.Waveform)
	for _, is := range r.Issues {
		logger.Debug().Str("section", is.Section).Str("code", string(is.Code)).Msg("Section skipped")
	}

	return report.Render(w, r, config.OutputFormat(cfg.Output))
}
