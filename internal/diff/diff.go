// Package diff renders unified diffs of a pending roadmap rewrite.
package diff

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/pmezard/go-difflib/difflib"
)

// contextLines is the number of unchanged lines shown around each hunk.
const contextLines = 3

// Unified returns a unified diff between before and after, or "" when they
// are identical.
func Unified(name, before, after string) (string, error) {
	if before == after {
		return "", nil
	}

	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  contextLines,
	}
	out, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", name, err)
	}
	return out, nil
}

// Highlight colors a unified diff for a 256-color terminal. The input is
// returned unchanged if highlighting fails.
func Highlight(d string) string {
	var sb strings.Builder
	if err := quick.Highlight(&sb, d, "diff", "terminal256", "monokai"); err != nil {
		return d
	}
	return sb.String()
}
