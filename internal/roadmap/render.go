package roadmap

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	// SummaryStart and SummaryEnd bound the generated summary block.
	SummaryStart = "<!-- AUTO-SUMMARY-START -->"
	SummaryEnd   = "<!-- AUTO-SUMMARY-END -->"

	// DefaultBarWidth is the number of units in a progress bar.
	DefaultBarWidth = 20

	// timestampPrefix starts the generated timestamp line. Fingerprints skip
	// the line so reruns compare equal.
	timestampPrefix = "Última actualización automática: "

	// timestampLayout is ISO-8601 UTC with microseconds; the fraction is
	// omitted when it is zero.
	timestampLayout      = "2006-01-02T15:04:05.000000"
	timestampLayoutWhole = "2006-01-02T15:04:05"

	barFilled = "█"
	barEmpty  = "-"
)

// ProgressBar renders a bracketed bar of width units, filled in proportion
// to fraction. Halves round to even.
func ProgressBar(fraction float64, width int) string {
	if width <= 0 {
		width = DefaultBarWidth
	}
	filled := int(math.RoundToEven(fraction * float64(width)))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat(barFilled, filled) + strings.Repeat(barEmpty, width-filled) + "]"
}

// FormatPercent renders a fraction as a percentage with one decimal.
func FormatPercent(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}

// RoundPercent returns the fraction as an integer percentage, halves to even.
func RoundPercent(fraction float64) int {
	return int(math.RoundToEven(fraction * 100))
}

func formatTimestamp(t time.Time) string {
	t = t.UTC().Truncate(time.Microsecond)
	if t.Nanosecond() == 0 {
		return t.Format(timestampLayoutWhole)
	}
	return t.Format(timestampLayout)
}

// RenderBlock produces the summary block lines, sentinels included.
func RenderBlock(s Summary, now time.Time, width int) []string {
	p := s.Priorities
	lines := []string{
		SummaryStart,
		timestampPrefix + formatTimestamp(now) + "Z",
		fmt.Sprintf("Total tareas: %d | Completadas: %d | Avance: %s",
			s.Overall.Total, s.Overall.Done, FormatPercent(s.Overall.Fraction())),
		"Progreso global: " + ProgressBar(s.Overall.Fraction(), width),
		fmt.Sprintf("Prioridades: %s %d | %s %d | %s %d",
			PriorityHigh, p.High, PriorityMedium, p.Medium, PriorityLow, p.Low),
		"",
		"Resumen por sección:",
	}

	for _, ss := range s.Sections {
		f := ss.Progress.Fraction()
		lines = append(lines, fmt.Sprintf("- %s. %s: %d/%d (%s) %s",
			ss.Number, ss.Title, ss.Progress.Done, ss.Progress.Total,
			FormatPercent(f), ProgressBar(f, width)))
	}

	return append(lines, SummaryEnd)
}
