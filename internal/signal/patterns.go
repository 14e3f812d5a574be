package signal

import "strings"

// Phase is one step of a breathing exercise.
type Phase struct {
	Name        string  `json:"name"`
	Seconds     float64 `json:"seconds"`
	Instruction string  `json:"instruction"`
}

func (p Phase) isInhale() bool { return strings.HasPrefix(p.Name, "inhale") }
func (p Phase) isExhale() bool { return strings.HasPrefix(p.Name, "exhale") }

// Pattern is a guided breathing exercise, repeated cycle after cycle.
type Pattern struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Difficulty  string  `json:"difficulty"`
	Phases      []Phase `json:"phases"`
}

// CycleSeconds is the duration of one pass through all phases.
func (p Pattern) CycleSeconds() float64 {
	total := 0.0
	for _, ph := range p.Phases {
		total += ph.Seconds
	}

	return total
}

// Breaths is the number of inhalations in one cycle.
func (p Pattern) Breaths() int {
	n := 0
	for _, ph := range p.Phases {
		if ph.isInhale() {
			n++
		}
	}

	return n
}

// BreathsPerMinute is the rate a user following the pattern breathes at.
func (p Pattern) BreathsPerMinute() float64 {
	cycle := p.CycleSeconds()
	if cycle <= 0 {
		return 0
	}

	return float64(p.Breaths()) * 60 / cycle
}

const DefaultPatternID = "box-breathing"

var catalog = []Pattern{
	{
		ID:          "box-breathing",
		Name:        "Box Breathing",
		Description: "Equal inhale, hold, exhale and rest for stress reduction and focus.",
		Difficulty:  "beginner",
		Phases: []Phase{
			{"inhale", 4, "Breathe in slowly through your nose"},
			{"hold", 4, "Hold the breath gently"},
			{"exhale", 4, "Release the breath slowly"},
			{"hold-empty", 4, "Rest in the empty space"},
		},
	},
	{
		ID:          "4-7-8-breathing",
		Name:        "4-7-8 Breathing",
		Description: "Long hold and longer exhale for deep relaxation.",
		Difficulty:  "beginner",
		Phases: []Phase{
			{"inhale", 4, "Inhale quietly through your nose"},
			{"hold", 7, "Hold your breath"},
			{"exhale", 8, "Exhale completely through your mouth"},
		},
	},
	{
		ID:          "alternate-nostril",
		Name:        "Alternate Nostril Breathing",
		Description: "Alternating nostrils for balance and concentration.",
		Difficulty:  "intermediate",
		Phases: []Phase{
			{"inhale-left", 4, "Inhale through left nostril"},
			{"hold", 4, "Hold breath"},
			{"exhale-right", 4, "Exhale through right nostril"},
			{"inhale-right", 4, "Inhale through right nostril"},
			{"hold", 4, "Hold breath"},
			{"exhale-left", 4, "Exhale through left nostril"},
		},
	},
	{
		ID:          "ocean-breath",
		Name:        "Ocean Breath",
		Description: "Slow breathing with gentle throat constriction.",
		Difficulty:  "intermediate",
		Phases: []Phase{
			{"inhale", 5, "Inhale with gentle throat constriction"},
			{"exhale", 5, "Exhale with ocean-like sound"},
		},
	},
	{
		ID:          "triangle-breathing",
		Name:        "Triangle Breathing",
		Description: "A short three-step pattern for grounding.",
		Difficulty:  "beginner",
		Phases: []Phase{
			{"inhale", 3, "Inhale slowly and steadily"},
			{"hold", 3, "Hold with awareness"},
			{"exhale", 3, "Release completely"},
		},
	},
	{
		ID:          "square-breathing",
		Name:        "Square Breathing",
		Description: "Holds on full and empty lungs for clarity and emotional balance.",
		Difficulty:  "beginner",
		Phases: []Phase{
			{"inhale", 4, "Inhale to fill your lungs"},
			{"hold-full", 4, "Hold with full lungs"},
			{"exhale", 4, "Exhale completely"},
			{"hold-empty", 4, "Hold with empty lungs"},
		},
	},
}

// Patterns returns a copy of the catalog in display order.
func Patterns() []Pattern {
	out := make([]Pattern, len(catalog))
	for i, p := range catalog {
		p.Phases = append([]Phase(nil), p.Phases...)
		out[i] = p
	}

	return out
}

// LookupPattern finds a pattern by id. The "-breathing" suffix is optional,
// so "box" and "box-breathing" are the same pattern.
func LookupPattern(id string) (Pattern, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, p := range Patterns() {
		if p.ID == id || strings.TrimSuffix(p.ID, "-breathing") == id {
			return p, true
		}
	}

	return Pattern{}, false
}
