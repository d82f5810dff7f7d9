package roadmap

import (
	"strings"
	"testing"
)

const sampleRoadmap = `# Roadmap de reducción

Resumen rápido del estado.

## 1. Backend
| ID | Tarea | Estado | Prioridad |
|----|-------|--------|-----------|
| B1 | Auth | ✅ COMPLETADO | 🔥 |
| B2 | API | ⏳ PENDIENTE | ⚖️ |
| B3 | DB | 🔄 EN_PROGRESO | 🌱 |

## 2. Frontend
| ID | Tarea | Estado | Prioridad |
|----|-------|--------|-----------|
| F1 | Login | completado | 🔥 |
| F2 | Dashboard | ❌ DESCARTADO | 🔥 |

## 3. Vacía
Nada por aquí.
`

func TestParseSections(t *testing.T) {
	sections := ParseSections(splitLines(sampleRoadmap))
	if len(sections) != 3 {
		t.Fatalf("Expected 3 sections, got %d", len(sections))
	}

	if sections[0].Number != "1" || sections[0].Title != "Backend" {
		t.Errorf("Section 0 = %q %q, want 1 Backend", sections[0].Number, sections[0].Title)
	}
	if sections[0].Total() != 3 || sections[0].Done() != 1 {
		t.Errorf("Backend = %d/%d, want 1/3", sections[0].Done(), sections[0].Total())
	}

	if sections[1].Number != "2" || sections[1].Total() != 2 {
		t.Errorf("Section 1 = %q with %d rows, want 2 with 2 rows", sections[1].Number, sections[1].Total())
	}
	if sections[1].Done() != 1 {
		t.Errorf("Lowercase token should count as done, got %d done", sections[1].Done())
	}

	if sections[2].Title != "Vacía" {
		t.Errorf("Section 2 title = %q, want Vacía", sections[2].Title)
	}
	if sections[2].Total() != 0 || sections[2].Fraction() != 0 {
		t.Errorf("Empty section = %d rows, fraction %v", sections[2].Total(), sections[2].Fraction())
	}
}

func TestParseSections_PreservesOrder(t *testing.T) {
	lines := []string{
		"## 10. Later",
		"| X1 | a | PENDIENTE | x |",
		"## 2. Earlier",
		"| Y1 | a | COMPLETADO | x |",
	}
	sections := ParseSections(lines)
	if len(sections) != 2 {
		t.Fatalf("Expected 2 sections, got %d", len(sections))
	}
	if sections[0].Number != "10" || sections[1].Number != "2" {
		t.Errorf("Order = %q, %q; want document order 10, 2", sections[0].Number, sections[1].Number)
	}
}

func TestParseSections_IgnoresRowsBeforeFirstHeading(t *testing.T) {
	lines := []string{
		"| A1 | orphan | COMPLETADO | 🔥 |",
		"## 1. First",
		"| B1 | kept | COMPLETADO | 🔥 |",
	}
	sections := ParseSections(lines)
	if len(sections) != 1 {
		t.Fatalf("Expected 1 section, got %d", len(sections))
	}
	if sections[0].Total() != 1 {
		t.Errorf("Total = %d, want 1", sections[0].Total())
	}
}

func TestParseSections_ShortSeparatorNotCounted(t *testing.T) {
	lines := []string{
		"## 1. Backend",
		"| ID | Tarea | Estado | Prioridad |",
		"| -- | -- | -- | -- |",
		"| B1 | Auth | ✅ COMPLETADO | 🔥 |",
	}
	sections := ParseSections(lines)
	if len(sections) != 1 {
		t.Fatalf("Expected 1 section, got %d", len(sections))
	}
	if got := sections[0].Progress(); got != (Progress{Done: 1, Total: 1}) {
		t.Errorf("Progress = %+v, want 1/1", got)
	}
}

func TestParseSections_NotesColumnDoesNotOverrideStatus(t *testing.T) {
	lines := []string{
		"## 1. Backend",
		"| ID | Tarea | Estado | Prioridad | Notas |",
		"|----|-------|--------|-----------|-------|",
		"| B1 | Auth | ✅ COMPLETADO | 🔥 | reabrir si B2 sigue PENDIENTE |",
		"| B2 | API | ⏳ PENDIENTE | ⚖️ | depende de B1 COMPLETADO |",
	}
	sections := ParseSections(lines)
	if len(sections) != 1 {
		t.Fatalf("Expected 1 section, got %d", len(sections))
	}

	rows := sections[0].Rows
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].Status != StatusDone {
		t.Errorf("B1 status = %q, want %q", rows[0].Status, StatusDone)
	}
	if rows[1].Status != StatusPending {
		t.Errorf("B2 status = %q, want %q", rows[1].Status, StatusPending)
	}
	if sections[0].Done() != 1 {
		t.Errorf("Done = %d, want 1", sections[0].Done())
	}
}

func TestParseRow(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantOK     bool
		wantID     string
		wantStatus Status
	}{
		{"done with glyph", "| A1 | task | ✅ COMPLETADO | 🔥 |", true, "A1", StatusDone},
		{"pending", "| A2 | task | ⏳ PENDIENTE | 🌱 |", true, "A2", StatusPending},
		{"status only in third cell", "| A3 | task | 🔥 | EN_PROGRESO |", true, "A3", StatusUnknown},
		{"trailing notes ignored", "| A8 | task | COMPLETADO | 🔥 | antes PENDIENTE |", true, "A8", StatusDone},
		{"no status token", "| A4 | task | revisar | 🔥 |", true, "A4", StatusUnknown},
		{"slash id", "| BE/1 | task | DESCARTADO | 🔥 |", true, "BE/1", StatusDiscarded},
		{"dotted id", "| 1.2 | task | PENDIENTE | 🔥 |", true, "1.2", StatusPending},
		{"header row", "| ID | Tarea | Estado | Prioridad |", false, "", StatusUnknown},
		{"separator row", "|----|-------|--------|-----------|", false, "", StatusUnknown},
		{"short separator row", "| -- | -- | -- | -- |", false, "", StatusUnknown},
		{"compact separator row", "|-|-|-|-|", false, "", StatusUnknown},
		{"aligned separator row", "| :-: | :-- | --: | - |", false, "", StatusUnknown},
		{"dash id", "| -- | task | COMPLETADO | 🔥 |", false, "", StatusUnknown},
		{"too few pipes", "| A5 | COMPLETADO |", false, "", StatusUnknown},
		{"id with spaces", "| A 6 | task | COMPLETADO | 🔥 |", false, "", StatusUnknown},
		{"not a table", "A7 | task | COMPLETADO | x | y |", false, "", StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, ok := parseRow(tt.line, 0)
			if ok != tt.wantOK {
				t.Fatalf("parseRow(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if row.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", row.ID, tt.wantID)
			}
			if row.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", row.Status, tt.wantStatus)
			}
		})
	}
}

func TestParseRow_UnknownStatusNeverDone(t *testing.T) {
	row, ok := parseRow("| A1 | task | listo | 🔥 |", 3)
	if !ok {
		t.Fatal("Expected row to parse")
	}
	if row.Status != StatusUnknown || row.Status.IsDone() {
		t.Errorf("Status = %q (done=%v), want unknown and not done", row.Status, row.Status.IsDone())
	}
	if row.Line != 3 {
		t.Errorf("Line = %d, want 3", row.Line)
	}
}

func TestParseSections_CRLF(t *testing.T) {
	text := strings.ReplaceAll("## 1. Uno\n| A1 | t | COMPLETADO | 🔥 |\n", "\n", "\r\n")
	sections := ParseSections(splitLines(text))
	if len(sections) != 1 {
		t.Fatalf("Expected 1 section, got %d", len(sections))
	}
	if sections[0].Title != "Uno" || sections[0].Done() != 1 {
		t.Errorf("Section = %q with %d done, want Uno with 1", sections[0].Title, sections[0].Done())
	}
}
