package main

import (
	"fmt"
	"os"

	"codeberg.org/mutker/biofeedback/internal/config"
	"codeberg.org/mutker/biofeedback/internal/errors"
	"codeberg.org/mutker/biofeedback/internal/logger"
	"github.com/spf13/cobra"
)

var version = "dev"

var cfg *config.Config

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "biofeedback",
		Short: "Physiological signal metrics from RR intervals, PPG and facial telemetry",
		Long: `biofeedback computes heart rate variability, respiratory rate and facial
relaxation metrics from recorded or simulated sessions, and can serve live
sessions over NATS with a websocket feed.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cfg, err = config.Load(cmd.Flags())
			if err != nil {
				return err
			}

			if err := logger.Init(cfg.LogLevel, logger.IsService()); err != nil {
				return err
			}
			logger.Debug().
				Float64("sampling_rate", cfg.SamplingRate).
				Str("output", cfg.Output).
				Msg("Config loaded")

			return nil
		},
	}

	config.RegisterFlags(root.PersistentFlags())
	root.AddCommand(
		newComputeCmd(),
		newSimulateCmd(),
		newPatternsCmd(),
		newServeCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var appErr errors.Error
		if errors.As(err, &appErr) {
			logger.ErrorWithCode(appErr).Msg("Command failed")
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
