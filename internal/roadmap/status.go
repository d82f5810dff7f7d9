package roadmap

import (
	"regexp"
	"strings"
)

// Status is the normalized completion state of a table row.
type Status string

const (
	StatusUnknown    Status = ""
	StatusDone       Status = "COMPLETADO"
	StatusPending    Status = "PENDIENTE"
	StatusInProgress Status = "EN_PROGRESO"
	StatusDiscarded  Status = "DESCARTADO"
)

// statusRegex finds a vocabulary token, optionally preceded by its glyph.
var statusRegex = regexp.MustCompile(`(?i)(?:(?:✅|⏳|🔄|❌)\s*)?(COMPLETADO|PENDIENTE|EN_PROGRESO|DESCARTADO)`)

// ParseStatus extracts the status token from a free-text cell.
// Returns StatusUnknown when the cell carries no vocabulary token.
func ParseStatus(field string) Status {
	m := statusRegex.FindStringSubmatch(field)
	if m == nil {
		return StatusUnknown
	}
	return Status(strings.ToUpper(m[1]))
}

// IsDone reports whether the status counts toward the done total.
func (s Status) IsDone() bool {
	return strings.Contains(strings.ToUpper(string(s)), string(StatusDone))
}

// Glyph returns the symbol conventionally shown next to the status.
func (s Status) Glyph() string {
	switch s {
	case StatusDone:
		return "✅"
	case StatusPending:
		return "⏳"
	case StatusInProgress:
		return "🔄"
	case StatusDiscarded:
		return "❌"
	default:
		return "?"
	}
}

// String returns the status token, or "UNKNOWN" for an unmatched row.
func (s Status) String() string {
	if s == StatusUnknown {
		return "UNKNOWN"
	}
	return string(s)
}

// StatusTally counts rows per status across the whole document.
type StatusTally struct {
	Done       int `json:"done"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Discarded  int `json:"discarded"`
	Unknown    int `json:"unknown"`
}

// Add counts one row with the given status.
func (t *StatusTally) Add(s Status) {
	switch s {
	case StatusDone:
		t.Done++
	case StatusPending:
		t.Pending++
	case StatusInProgress:
		t.InProgress++
	case StatusDiscarded:
		t.Discarded++
	default:
		t.Unknown++
	}
}

// Priority is one of the three glyphs used to mark task priority.
type Priority string

const (
	PriorityNone   Priority = ""
	PriorityHigh   Priority = "🔥"
	PriorityMedium Priority = "⚖️"
	PriorityLow    Priority = "🌱"
)

// ParsePriority returns the first priority glyph found on the line, checked
// high to medium to low. The medium glyph matches with or without its
// variation selector.
func ParsePriority(line string) Priority {
	switch {
	case strings.Contains(line, string(PriorityHigh)):
		return PriorityHigh
	case strings.Contains(line, "⚖"):
		return PriorityMedium
	case strings.Contains(line, string(PriorityLow)):
		return PriorityLow
	default:
		return PriorityNone
	}
}

// PriorityTally counts priority glyphs across every table line.
type PriorityTally struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// CountPriorities tallies priority glyphs over all table-like lines,
// regardless of the section they belong to.
func CountPriorities(lines []string) PriorityTally {
	var tally PriorityTally
	for _, line := range lines {
		if !isTableLine(line) {
			continue
		}
		switch ParsePriority(line) {
		case PriorityHigh:
			tally.High++
		case PriorityMedium:
			tally.Medium++
		case PriorityLow:
			tally.Low++
		}
	}
	return tally
}
