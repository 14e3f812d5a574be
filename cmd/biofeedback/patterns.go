package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"codeberg.org/mutker/biofeedback/internal/config"
	"codeberg.org/mutker/biofeedback/internal/signal"
	"github.com/spf13/cobra"
)

func newPatternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "List the breathing patterns available to simulate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listPatterns(cmd.OutOrStdout(), config.OutputFormat(cfg.Output))
		},
	}
}

func listPatterns(w io.Writer, format config.OutputFormat) error {
	patterns := signal.Patterns()

	if format == config.OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(patterns)
	}

	for _, p := range patterns {
		phases := make([]string, len(p.Phases))
		for i, ph := range p.Phases {
			phases[i] = fmt.Sprintf("%s %gs", ph.Name, ph.Seconds)
		}
		if _, err := fmt.Fprintf(w, "%-20s %-28s %5.2f bpm  %s\n",
			p.ID, p.Name, p.BreathsPerMinute(), strings.Join(phases, ", ")); err != nil {
			return err
		}
	}

	return nil
}
