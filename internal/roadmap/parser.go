// Package roadmap parses the status tables of a roadmap document, computes
// per-section completion and regenerates the document's summary block.
package roadmap

import (
	"regexp"
	"strings"
)

var (
	// sectionHeaderRegex matches numbered level-two headings like "## 3. Backend".
	sectionHeaderRegex = regexp.MustCompile(`^##\s+(\d+)\.\s+(.+)`)

	// rowIDRegex matches the identifier cell of a roadmap table row. It must
	// start with a letter or digit.
	rowIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9/._-]*$`)

	// separatorCellRegex matches an alignment cell such as "--", ":---" or "-:".
	separatorCellRegex = regexp.MustCompile(`^:?-+:?$`)
)

const (
	// minRowPipes is the number of pipe characters a line needs before it is
	// treated as a roadmap table row (four columns).
	minRowPipes = 5

	// statusColumn is the index of the status cell: ID, task, status, ...
	statusColumn = 2
)

// Row is a single task row inside a section table.
type Row struct {
	ID       string
	Status   Status
	Priority Priority
	Line     int // 0-based line index in the document
}

// Section is a numbered roadmap section and the rows found under it.
type Section struct {
	Number string
	Title  string
	Line   int // 0-based line index of the heading
	Rows   []Row
}

// Total returns the number of rows in the section.
func (s Section) Total() int {
	return len(s.Rows)
}

// Done returns the number of completed rows.
func (s Section) Done() int {
	done := 0
	for _, r := range s.Rows {
		if r.Status.IsDone() {
			done++
		}
	}
	return done
}

// Progress returns the section's done/total pair.
func (s Section) Progress() Progress {
	return Progress{Done: s.Done(), Total: s.Total()}
}

// Fraction returns the completed share of rows, 0 for an empty section.
func (s Section) Fraction() float64 {
	return s.Progress().Fraction()
}

// ParseSections walks the document once and groups table rows under the
// numbered heading that precedes them. Rows before the first heading are
// ignored. Lines that match nothing are skipped silently.
func ParseSections(lines []string) []Section {
	var sections []Section
	var current *Section

	for i, line := range lines {
		if m := sectionHeaderRegex.FindStringSubmatch(line); m != nil {
			if current != nil {
				sections = append(sections, *current)
			}
			current = &Section{
				Number: m[1],
				Title:  strings.TrimSpace(m[2]),
				Line:   i,
			}
			continue
		}

		if current == nil {
			continue
		}
		if row, ok := parseRow(line, i); ok {
			current.Rows = append(current.Rows, row)
		}
	}

	if current != nil {
		sections = append(sections, *current)
	}
	return sections
}

// isTableLine reports whether a line looks like a row of a roadmap table.
// Header-ness is not checked here; priorities are tallied on every such line.
func isTableLine(line string) bool {
	return strings.HasPrefix(line, "|") && strings.Count(line, "|") >= minRowPipes
}

// parseRow extracts a Row from a table line. Separator and header rows, and
// rows without a usable identifier cell, are rejected. The status is read
// from the third cell only; later cells are free text.
func parseRow(line string, index int) (Row, bool) {
	if !isTableLine(line) || strings.Contains(line, "---") {
		return Row{}, false
	}

	cells := splitCells(line)
	if len(cells) <= statusColumn || isSeparator(cells) {
		return Row{}, false
	}

	id := cells[0]
	if strings.EqualFold(id, "ID") || !rowIDRegex.MatchString(id) {
		return Row{}, false
	}

	return Row{
		ID:       id,
		Status:   ParseStatus(cells[statusColumn]),
		Priority: ParsePriority(line),
		Line:     index,
	}, true
}

// isSeparator reports whether every cell is a markdown alignment marker.
func isSeparator(cells []string) bool {
	for _, c := range cells {
		if !separatorCellRegex.MatchString(c) {
			return false
		}
	}
	return true
}

// splitCells returns the trimmed cell contents of a pipe-delimited line,
// without the empty leading and trailing fragments.
func splitCells(line string) []string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")

	parts := strings.Split(trimmed, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}
