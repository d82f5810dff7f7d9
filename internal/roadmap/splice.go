package roadmap

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultAnchor is the text the summary block is inserted before when the
// document has no sentinels yet.
const DefaultAnchor = "Resumen rápido"

var (
	// summaryBlockRegex matches a complete generated block, shortest first.
	summaryBlockRegex = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(SummaryStart) + `.*?` + regexp.QuoteMeta(SummaryEnd))

	// annotationRegex matches a details summary line such as
	// <summary><strong>2. Backend</strong> — 3/5 (60%)</summary>.
	annotationRegex = regexp.MustCompile(`<summary><strong>(\d+)\.\s+([^<]+)</strong>.*?</summary>`)
)

// ReplaceBlock splices block into text. An existing sentinel-bounded block is
// replaced in full; otherwise the block is inserted before the first
// occurrence of anchor, or prepended when the anchor is missing too.
// Everything outside the replaced region is preserved.
func ReplaceBlock(text, block, anchor string) string {
	if summaryBlockRegex.MatchString(text) {
		return summaryBlockRegex.ReplaceAllLiteralString(text, block)
	}

	if anchor != "" {
		if before, after, found := strings.Cut(text, anchor); found {
			return before + "\n" + block + "\n" + anchor + after
		}
	}

	return block + "\n\n" + text
}

// RewriteAnnotations refreshes the live counts inside every details summary
// whose section number is known. Other annotations are left untouched.
func RewriteAnnotations(text string, s Summary) string {
	byNumber := s.ByNumber()
	return annotationRegex.ReplaceAllStringFunc(text, func(match string) string {
		m := annotationRegex.FindStringSubmatch(match)
		ss, ok := byNumber[m[1]]
		if !ok {
			return match
		}
		return fmt.Sprintf("<summary><strong>%s. %s</strong> — %d/%d (%d%%)</summary>",
			m[1], strings.TrimSpace(m[2]), ss.Progress.Done, ss.Progress.Total,
			RoundPercent(ss.Progress.Fraction()))
	})
}
