package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"codeberg.org/mutker/biofeedback/internal/assess"
	"codeberg.org/mutker/biofeedback/internal/config"
	"codeberg.org/mutker/biofeedback/internal/errors"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const (
	defaultWidth = 64
	maxWidth     = 96
	labelWidth   = 16
)

// Render writes r to w in the requested format.
func Render(w io.Writer, r Report, format config.OutputFormat) error {
	switch format {
	case config.OutputJSON:
		return RenderJSON(w, r)
	case config.OutputText, "":
		_, err := io.WriteString(w, RenderText(w, r)+"\n")
		if err != nil {
			return errors.New().Wrap(errors.ErrOperationFailed, err)
		}
		return nil
	default:
		return errors.New().WithData(errors.ErrInvalidOutput, format)
	}
}

// RenderJSON writes r as indented JSON.
func RenderJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return errors.New().Wrap(errors.ErrOperationFailed, err)
	}

	return nil
}

type styles struct {
	title   lipgloss.Style
	section lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	muted   lipgloss.Style
	panel   lipgloss.Style
	levels  map[assess.Severity]lipgloss.Style
}

// newStyles binds styles to w so colours are dropped when w is not a
// terminal.
func newStyles(w io.Writer, width int) styles {
	re := lipgloss.NewRenderer(w)

	return styles{
		title:   re.NewStyle().Bold(true).Foreground(lipgloss.Color("246")),
		section: re.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
		label:   re.NewStyle().Foreground(lipgloss.Color("245")).Width(labelWidth),
		value:   re.NewStyle().Foreground(lipgloss.Color("252")),
		muted:   re.NewStyle().Foreground(lipgloss.Color("241")),
		panel: re.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1).
			Width(width),
		levels: map[assess.Severity]lipgloss.Style{
			assess.SeverityGood: re.NewStyle().Foreground(lipgloss.Color("42")),
			assess.SeverityFair: re.NewStyle().Foreground(lipgloss.Color("208")),
			assess.SeverityPoor: re.NewStyle().Foreground(lipgloss.Color("196")),
		},
	}
}

// terminalWidth returns the panel width for w, falling back to
// defaultWidth when w is not a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultWidth
	}

	cols, _, err := term.GetSize(int(f.Fd()))
	if err != nil || cols <= 0 {
		return defaultWidth
	}

	return min(cols-2, maxWidth)
}

// RenderText formats r as a bordered panel, styled for w.
func RenderText(w io.Writer, r Report) string {
	st := newStyles(w, terminalWidth(w))

	var b strings.Builder
	line := func(label, value string) {
		b.WriteString("  " + st.label.Render(label) + value + "\n")
	}
	level := func(l assess.Level) string {
		return "  " + st.levels[l.Severity].Render(l.Label)
	}

	title := "Biofeedback report"
	if r.SessionID != "" {
		title += " " + st.muted.Render(r.SessionID)
	}
	b.WriteString(st.title.Render(title) + "\n")
	b.WriteString(st.muted.Render(fmt.Sprintf("%g Hz, %d RR intervals, %d facial samples",
		r.SamplingRate, r.RRIntervals, r.FacialSamples)) + "\n")

	if r.HeartRate != nil {
		b.WriteString("\n" + st.section.Render("Pulse") + "\n")
		line("Heart rate", st.value.Render(fmt.Sprintf("%.0f bpm", *r.HeartRate)))
	}

	if r.HRV != nil {
		b.WriteString("\n" + st.section.Render("Heart rate variability") + "\n")
		line("RMSSD", st.value.Render(fmt.Sprintf("%.2f ms", r.HRV.RMSSD)))
		line("SDNN", st.value.Render(fmt.Sprintf("%.2f ms", r.HRV.SDNN)))
		line("pNN50", st.value.Render(fmt.Sprintf("%.1f %%", r.HRV.PNN50)))
		if r.Stress != nil {
			line("Stress", st.value.Render(fmt.Sprintf("%.0f/100", r.Stress.Index))+level(r.Stress.Level))
		}
	}

	if r.RespiratoryRate != nil {
		b.WriteString("\n" + st.section.Render("Respiration") + "\n")
		line("Rate", st.value.Render(fmt.Sprintf("%.1f breaths/min", *r.RespiratoryRate)))
	}

	if r.Facial != nil {
		f, lv := r.Facial, r.FacialLevels
		b.WriteString("\n" + st.section.Render("Facial telemetry") + "\n")
		line("Tension", st.value.Render(fmt.Sprintf("%.2f ±%.2f", f.MeanTension, f.TensionVariability))+level(lv.Tension))
		line("Eye movement", st.value.Render(fmt.Sprintf("%.2f, %.2f Hz", f.MeanEyeMovement, f.EyeMovementFrequency))+level(lv.EyeMovement))
		line("Blink rate", st.value.Render(fmt.Sprintf("%.2f", f.MeanBlinkRate))+level(lv.BlinkRate))
		line("Symmetry", st.value.Render(fmt.Sprintf("%.2f", f.MeanSymmetry))+level(lv.Symmetry))
		line("Relaxation", st.value.Render(fmt.Sprintf("%d/100", lv.Relaxation))+level(lv.RelaxationLevel))
	}

	if len(r.Issues) > 0 {
		b.WriteString("\n" + st.section.Render("Unavailable") + "\n")
		for _, is := range r.Issues {
			line(is.Section, st.muted.Render(is.Message))
		}
	}

	return st.panel.Render(strings.TrimRight(b.String(), "\n"))
}
