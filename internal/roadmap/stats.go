package roadmap

// Progress is a done/total pair.
type Progress struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

// Fraction returns Done/Total, or 0 when Total is 0.
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Done) / float64(p.Total)
}

// Add returns the sum of two progress pairs.
func (p Progress) Add(o Progress) Progress {
	return Progress{Done: p.Done + o.Done, Total: p.Total + o.Total}
}

// SectionSummary is the computed completion of one section.
type SectionSummary struct {
	Number   string      `json:"number"`
	Title    string      `json:"title"`
	Progress Progress    `json:"progress"`
	Statuses StatusTally `json:"statuses"`
}

// Summary is the aggregated state of a roadmap document.
type Summary struct {
	Sections   []SectionSummary `json:"sections"`
	Overall    Progress         `json:"overall"`
	Priorities PriorityTally    `json:"priorities"`
	Statuses   StatusTally      `json:"statuses"`
}

// Summarize aggregates parsed sections in document order. The priority
// tally is computed over all lines since priorities are counted outside
// section boundaries too.
func Summarize(sections []Section, lines []string) Summary {
	summary := Summary{
		Sections:   make([]SectionSummary, 0, len(sections)),
		Priorities: CountPriorities(lines),
	}

	for _, s := range sections {
		ss := SectionSummary{
			Number:   s.Number,
			Title:    s.Title,
			Progress: s.Progress(),
		}
		for _, r := range s.Rows {
			ss.Statuses.Add(r.Status)
			summary.Statuses.Add(r.Status)
		}
		summary.Overall = summary.Overall.Add(ss.Progress)
		summary.Sections = append(summary.Sections, ss)
	}

	return summary
}

// ByNumber indexes section summaries by their number. When a number repeats
// the later section wins.
func (s Summary) ByNumber() map[string]SectionSummary {
	m := make(map[string]SectionSummary, len(s.Sections))
	for _, ss := range s.Sections {
		m[ss.Number] = ss
	}
	return m
}
