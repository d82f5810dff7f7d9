package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/marcus/roadmap/internal/history"
	"github.com/marcus/roadmap/internal/roadmap"
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// RenderMarkdown renders markdown for a terminal using the named glamour
// style ("auto" picks one from the terminal background).
func RenderMarkdown(md, theme string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if theme == "" || theme == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(theme))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

// Print writes the report to w. On a terminal text output is styled and
// markdown goes through glamour.
func Print(w io.Writer, rep *Reporter, theme string) error {
	tty := IsTerminal(w)
	rep.Styled = tty

	out := rep.Generate()
	if tty && rep.Format == FormatMarkdown {
		rendered, err := RenderMarkdown(out, theme, terminalWidth(w))
		if err != nil {
			return err
		}
		out = rendered
	}

	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err := io.WriteString(w, out)
	return err
}

// FormatHistory lists snapshots newest first with relative timestamps and
// the change in completed tasks against the next older snapshot.
func FormatHistory(snaps []history.Snapshot, now time.Time) string {
	if len(snaps) == 0 {
		return "No history recorded yet.\n"
	}

	var sb strings.Builder
	for i, snap := range snaps {
		delta := ""
		if i+1 < len(snaps) {
			if d := snap.Overall.Done - snaps[i+1].Overall.Done; d != 0 {
				delta = fmt.Sprintf(" (%+d)", d)
			}
		}
		sb.WriteString(fmt.Sprintf("%-16s %d/%d %s %s%s\n",
			humanize.RelTime(snap.RecordedAt, now, "ago", "from now"),
			snap.Overall.Done, snap.Overall.Total,
			roadmap.FormatPercent(snap.Overall.Fraction()),
			roadmap.ProgressBar(snap.Overall.Fraction(), roadmap.DefaultBarWidth),
			delta))
	}
	return sb.String()
}

func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 80
}
