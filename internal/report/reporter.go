// Package report formats roadmap summaries for the terminal.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/marcus/roadmap/internal/roadmap"
)

// Format specifies the output format for the report.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat maps a flag value to a Format, defaulting to text.
func ParseFormat(s string) Format {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON
	case FormatMarkdown, "md":
		return FormatMarkdown
	default:
		return FormatText
	}
}

// maxTitleWidth caps the title column of the text report.
const maxTitleWidth = 40

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	partialStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	emptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Reporter generates formatted progress reports.
type Reporter struct {
	Summary  roadmap.Summary
	Format   Format
	BarWidth int
	Styled   bool // emit ANSI styling
}

// NewReporter creates a new reporter.
func NewReporter(summary roadmap.Summary, format Format) *Reporter {
	return &Reporter{
		Summary:  summary,
		Format:   format,
		BarWidth: roadmap.DefaultBarWidth,
	}
}

// Generate produces the formatted report.
func (r *Reporter) Generate() string {
	switch r.Format {
	case FormatJSON:
		return r.generateJSON()
	case FormatMarkdown:
		return r.generateMarkdown()
	default:
		return r.generateText()
	}
}

// generateText generates an aligned, human-readable report.
func (r *Reporter) generateText() string {
	var sb strings.Builder
	s := r.Summary

	sb.WriteString(r.style(titleStyle, "Roadmap progress"))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Overall: %d/%d (%s) %s\n",
		s.Overall.Done, s.Overall.Total,
		roadmap.FormatPercent(s.Overall.Fraction()),
		r.bar(s.Overall.Fraction())))
	sb.WriteString(fmt.Sprintf("Priorities: %s %d  %s %d  %s %d\n",
		roadmap.PriorityHigh, s.Priorities.High,
		roadmap.PriorityMedium, s.Priorities.Medium,
		roadmap.PriorityLow, s.Priorities.Low))
	sb.WriteString(fmt.Sprintf("Statuses: %s %d  %s %d  %s %d  %s %d  ? %d\n\n",
		roadmap.StatusDone.Glyph(), s.Statuses.Done,
		roadmap.StatusInProgress.Glyph(), s.Statuses.InProgress,
		roadmap.StatusPending.Glyph(), s.Statuses.Pending,
		roadmap.StatusDiscarded.Glyph(), s.Statuses.Discarded,
		s.Statuses.Unknown))

	titleWidth := 0
	for _, ss := range s.Sections {
		if w := runewidth.StringWidth(sectionLabel(ss)); w > titleWidth {
			titleWidth = w
		}
	}
	if titleWidth > maxTitleWidth {
		titleWidth = maxTitleWidth
	}

	for _, ss := range s.Sections {
		label := ansi.Truncate(sectionLabel(ss), titleWidth, "…")
		label = runewidth.FillRight(label, titleWidth)
		f := ss.Progress.Fraction()
		line := fmt.Sprintf("%s  %3d/%-3d %6s %s",
			label, ss.Progress.Done, ss.Progress.Total,
			roadmap.FormatPercent(f), r.bar(f))
		sb.WriteString(r.style(progressStyle(ss.Progress), line))
		sb.WriteString("\n")
	}

	return sb.String()
}

// generateJSON generates a JSON report.
func (r *Reporter) generateJSON() string {
	type section struct {
		roadmap.SectionSummary
		Percent float64 `json:"percent"`
	}

	sections := make([]section, len(r.Summary.Sections))
	for i, ss := range r.Summary.Sections {
		sections[i] = section{SectionSummary: ss, Percent: ss.Progress.Fraction() * 100}
	}

	output := map[string]interface{}{
		"overall": map[string]interface{}{
			"done":    r.Summary.Overall.Done,
			"total":   r.Summary.Overall.Total,
			"percent": r.Summary.Overall.Fraction() * 100,
		},
		"priorities": r.Summary.Priorities,
		"statuses":   r.Summary.Statuses,
		"sections":   sections,
	}

	bytes, _ := json.MarshalIndent(output, "", "  ")
	return string(bytes)
}

// generateMarkdown generates a Markdown report.
func (r *Reporter) generateMarkdown() string {
	var sb strings.Builder
	s := r.Summary

	sb.WriteString("# Roadmap Progress\n\n")
	sb.WriteString(fmt.Sprintf("- **Overall**: %d/%d (%s)\n",
		s.Overall.Done, s.Overall.Total, roadmap.FormatPercent(s.Overall.Fraction())))
	sb.WriteString(fmt.Sprintf("- **Priorities**: %s %d | %s %d | %s %d\n\n",
		roadmap.PriorityHigh, s.Priorities.High,
		roadmap.PriorityMedium, s.Priorities.Medium,
		roadmap.PriorityLow, s.Priorities.Low))

	if len(s.Sections) > 0 {
		sb.WriteString("| # | Section | Done | Total | Progress |\n")
		sb.WriteString("|---|---------|------|-------|----------|\n")
		for _, ss := range s.Sections {
			sb.WriteString(fmt.Sprintf("| %s | %s | %d | %d | %s |\n",
				ss.Number, escapeCell(ss.Title), ss.Progress.Done, ss.Progress.Total,
				roadmap.FormatPercent(ss.Progress.Fraction())))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (r *Reporter) bar(fraction float64) string {
	return roadmap.ProgressBar(fraction, r.BarWidth)
}

func (r *Reporter) style(st lipgloss.Style, s string) string {
	if !r.Styled {
		return s
	}
	return st.Render(s)
}

func progressStyle(p roadmap.Progress) lipgloss.Style {
	switch {
	case p.Total > 0 && p.Done == p.Total:
		return doneStyle
	case p.Done > 0:
		return partialStyle
	default:
		return emptyStyle
	}
}

func sectionLabel(ss roadmap.SectionSummary) string {
	return ss.Number + ". " + ss.Title
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
