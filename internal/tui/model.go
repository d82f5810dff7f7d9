// Package tui is a read-only terminal dashboard of roadmap progress.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/roadmap/internal/roadmap"
)

// LoadFunc computes the current roadmap state without writing it.
type LoadFunc func() (*roadmap.Result, error)

// loadedMsg carries the outcome of a (re)load.
type loadedMsg struct {
	result *roadmap.Result
	err    error
	at     time.Time
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

const (
	// chromeLines is the height taken by everything except the section list.
	chromeLines = 12
	// linesPerSection is the height of one section entry.
	linesPerSection = 2
)

// Model is the bubbletea model of the dashboard.
type Model struct {
	load   LoadFunc
	bar    progress.Model
	width  int
	height int

	// Data
	result   *roadmap.Result
	lastErr  error
	lastLoad time.Time

	// View state
	cursor int
	offset int // first visible section
}

// New creates a dashboard that reads its data through load.
func New(load LoadFunc) Model {
	return Model{
		load: load,
		bar:  progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
	}
}

// Init loads the roadmap.
func (m Model) Init() tea.Cmd {
	return m.reload()
}

func (m Model) reload() tea.Cmd {
	load := m.load
	return func() tea.Msg {
		res, err := load()
		return loadedMsg{result: res, err: err, at: time.Now()}
	}
}

// Update handles key presses, resizes and reload results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if w := msg.Width - 40; w > 10 {
			m.bar.Width = w
		}
		m.clampCursor()
		return m, nil

	case loadedMsg:
		m.lastLoad = msg.at
		m.lastErr = msg.err
		if msg.err == nil {
			m.result = msg.result
			m.clampCursor()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.cursor--
	case "down", "j":
		m.cursor++
	case "pgup", "ctrl+u":
		m.cursor -= m.visibleSections()
	case "pgdown", "ctrl+d":
		m.cursor += m.visibleSections()
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = len(m.sections()) - 1
	case "r":
		return m, m.reload()
	}
	m.clampCursor()
	return m, nil
}

func (m *Model) clampCursor() {
	if n := len(m.sections()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureVisible()
}

// visibleSections returns how many sections fit on screen. Before the first
// resize every section is shown.
func (m Model) visibleSections() int {
	n := len(m.sections())
	if m.height <= 0 {
		return max(n, 1)
	}
	v := (m.height - chromeLines) / linesPerSection
	if v < 1 {
		v = 1
	}
	return v
}

// ensureVisible scrolls the section list so the cursor stays on screen.
func (m *Model) ensureVisible() {
	v := m.visibleSections()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+v {
		m.offset = m.cursor - v + 1
	}
	if maxOffset := len(m.sections()) - v; m.offset > maxOffset {
		m.offset = maxOffset
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m Model) sections() []roadmap.SectionSummary {
	if m.result == nil {
		return nil
	}
	return m.result.Summary.Sections
}

// Selected returns the section under the cursor.
func (m Model) Selected() (roadmap.SectionSummary, bool) {
	secs := m.sections()
	if len(secs) == 0 {
		return roadmap.SectionSummary{}, false
	}
	return secs[m.cursor], true
}

// View renders the dashboard.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Roadmap"))
	sb.WriteString("\n\n")

	if m.lastErr != nil {
		sb.WriteString(errorStyle.Render("Error: "))
		sb.WriteString(m.lastErr.Error())
		sb.WriteString("\n\nPress 'r' to retry, 'q' to quit")
		return sb.String()
	}
	if m.result == nil {
		sb.WriteString("Loading…")
		return sb.String()
	}

	s := m.result.Summary
	sb.WriteString(fmt.Sprintf("Overall  %s  %d/%d\n", m.bar.ViewAs(s.Overall.Fraction()), s.Overall.Done, s.Overall.Total))
	sb.WriteString(mutedStyle.Render(fmt.Sprintf("%s %d  %s %d  %s %d",
		roadmap.PriorityHigh, s.Priorities.High,
		roadmap.PriorityMedium, s.Priorities.Medium,
		roadmap.PriorityLow, s.Priorities.Low)))
	sb.WriteString("\n\n")

	if len(s.Sections) == 0 {
		sb.WriteString("No sections found.")
	}
	end := min(m.offset+m.visibleSections(), len(s.Sections))
	if m.offset > 0 {
		sb.WriteString(mutedStyle.Render(fmt.Sprintf("  ↑ %d more", m.offset)))
		sb.WriteString("\n")
	}
	for i := m.offset; i < end; i++ {
		ss := s.Sections[i]
		cursor := " "
		label := fmt.Sprintf("%s. %s", ss.Number, ss.Title)
		if i == m.cursor {
			cursor = ">"
			label = selectedStyle.Render(label)
		}
		sb.WriteString(fmt.Sprintf("%s %s\n  %s  %d/%d\n",
			cursor, label, m.bar.ViewAs(ss.Progress.Fraction()), ss.Progress.Done, ss.Progress.Total))
	}
	if rest := len(s.Sections) - end; rest > 0 {
		sb.WriteString(mutedStyle.Render(fmt.Sprintf("  ↓ %d more", rest)))
		sb.WriteString("\n")
	}

	if sel, ok := m.Selected(); ok {
		st := sel.Statuses
		sb.WriteString("\n")
		sb.WriteString(mutedStyle.Render(fmt.Sprintf("%s %d  %s %d  %s %d  %s %d  ? %d",
			roadmap.StatusDone.Glyph(), st.Done,
			roadmap.StatusInProgress.Glyph(), st.InProgress,
			roadmap.StatusPending.Glyph(), st.Pending,
			roadmap.StatusDiscarded.Glyph(), st.Discarded,
			st.Unknown)))
	}

	if !m.lastLoad.IsZero() {
		sb.WriteString(fmt.Sprintf("\nLast update: %s", m.lastLoad.Format("15:04:05")))
	}
	sb.WriteString("\n\nKeys: j/k=scroll, pgup/pgdn=page, r=reload, q=quit")
	return sb.String()
}
