package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/marcus/roadmap/internal/history"
	"github.com/marcus/roadmap/internal/roadmap"
)

func testSummary() roadmap.Summary {
	return roadmap.Summary{
		Sections: []roadmap.SectionSummary{
			{Number: "1", Title: "Backend", Progress: roadmap.Progress{Done: 1, Total: 3}},
			{Number: "2", Title: "Frontend | UI", Progress: roadmap.Progress{Done: 2, Total: 2}},
		},
		Overall:    roadmap.Progress{Done: 3, Total: 5},
		Priorities: roadmap.PriorityTally{High: 2, Medium: 1, Low: 2},
		Statuses:   roadmap.StatusTally{Done: 3, Pending: 1, InProgress: 1},
	}
}

func TestReporterGenerateText(t *testing.T) {
	output := NewReporter(testSummary(), FormatText).Generate()

	if !strings.Contains(output, "Overall: 3/5 (60.0%)") {
		t.Errorf("Expected overall progress in output, got:\n%s", output)
	}
	if !strings.Contains(output, "1. Backend") {
		t.Error("Expected section label in output")
	}
	if !strings.Contains(output, "33.3%") {
		t.Error("Expected section percentage in output")
	}
	if strings.Contains(output, "\x1b[") {
		t.Error("Unstyled report should not contain ANSI escapes")
	}
}

func TestReporterGenerateText_AlignsTitles(t *testing.T) {
	summary := roadmap.Summary{Sections: []roadmap.SectionSummary{
		{Number: "1", Title: "Ñandú", Progress: roadmap.Progress{Done: 0, Total: 1}},
		{Number: "2", Title: "Longer title", Progress: roadmap.Progress{Done: 1, Total: 1}},
	}}
	output := NewReporter(summary, FormatText).Generate()

	var rows []string
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, "1. ") || strings.HasPrefix(line, "2. ") {
			rows = append(rows, line)
		}
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 section rows, got %d", len(rows))
	}
	if strings.Index(rows[0], "0/1") < 0 || strings.Index(rows[1], "1/1") < 0 {
		t.Fatalf("Missing counts in rows: %q", rows)
	}
	col0 := len([]rune(rows[0][:strings.Index(rows[0], "0/1")]))
	col1 := len([]rune(rows[1][:strings.Index(rows[1], "1/1")]))
	if col0 != col1 {
		t.Errorf("Count columns not aligned: %d vs %d", col0, col1)
	}
}

func TestReporterGenerateText_TruncatesLongTitles(t *testing.T) {
	summary := roadmap.Summary{Sections: []roadmap.SectionSummary{
		{Number: "1", Title: strings.Repeat("x", 80), Progress: roadmap.Progress{Total: 1}},
	}}
	output := NewReporter(summary, FormatText).Generate()

	if !strings.Contains(output, "…") {
		t.Error("Expected long title to be truncated")
	}
	if strings.Contains(output, strings.Repeat("x", 60)) {
		t.Error("Title should not exceed the column width")
	}
}

func TestReporterGenerateJSON(t *testing.T) {
	output := NewReporter(testSummary(), FormatJSON).Generate()

	var decoded struct {
		Overall struct {
			Done    int     `json:"done"`
			Total   int     `json:"total"`
			Percent float64 `json:"percent"`
		} `json:"overall"`
		Sections []struct {
			Number  string  `json:"number"`
			Percent float64 `json:"percent"`
		} `json:"sections"`
	}
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("Expected valid JSON: %v", err)
	}

	if decoded.Overall.Done != 3 || decoded.Overall.Total != 5 {
		t.Errorf("got overall %d/%d, want 3/5", decoded.Overall.Done, decoded.Overall.Total)
	}
	if len(decoded.Sections) != 2 || decoded.Sections[1].Percent != 100 {
		t.Errorf("unexpected sections: %+v", decoded.Sections)
	}
}

func TestReporterGenerateMarkdown(t *testing.T) {
	output := NewReporter(testSummary(), FormatMarkdown).Generate()

	if !strings.Contains(output, "# Roadmap Progress") {
		t.Error("Expected markdown title")
	}
	if !strings.Contains(output, "| 1 | Backend | 1 | 3 | 33.3% |") {
		t.Errorf("Expected section row in markdown, got:\n%s", output)
	}
	if !strings.Contains(output, `Frontend \| UI`) {
		t.Error("Expected pipes in titles to be escaped")
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"json":     FormatJSON,
		"JSON":     FormatJSON,
		"markdown": FormatMarkdown,
		"md":       FormatMarkdown,
		"text":     FormatText,
		"":         FormatText,
		"bogus":    FormatText,
	}
	for in, want := range tests {
		if got := ParseFormat(in); got != want {
			t.Errorf("ParseFormat(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPrint_NonTerminalIsPlain(t *testing.T) {
	var buf bytes.Buffer
	rep := NewReporter(testSummary(), FormatMarkdown)

	if err := Print(&buf, rep, "auto"); err != nil {
		t.Fatalf("Print failed: %v", err)
	}
	if rep.Styled {
		t.Error("buffer output should not be styled")
	}
	if !strings.HasPrefix(buf.String(), "# Roadmap Progress") {
		t.Error("markdown should be printed raw when not on a terminal")
	}
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown("# Title\n\nSome *text*.\n", "notty", 60)
	if err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}
	if !strings.Contains(out, "Title") {
		t.Errorf("Expected rendered heading, got %q", out)
	}
}

func TestFormatHistory(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	snaps := []history.Snapshot{
		{RecordedAt: now.Add(-2 * time.Hour), Overall: roadmap.Progress{Done: 4, Total: 10}},
		{RecordedAt: now.Add(-48 * time.Hour), Overall: roadmap.Progress{Done: 1, Total: 10}},
	}

	out := FormatHistory(snaps, now)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %q", len(lines), out)
	}
	if !strings.Contains(lines[0], "2 hours ago") || !strings.Contains(lines[0], "(+3)") {
		t.Errorf("unexpected newest line %q", lines[0])
	}
	if !strings.Contains(lines[1], "2 days ago") || strings.Contains(lines[1], "(+") {
		t.Errorf("unexpected oldest line %q", lines[1])
	}

	if got := FormatHistory(nil, now); !strings.Contains(got, "No history") {
		t.Errorf("unexpected empty history output %q", got)
	}
}
