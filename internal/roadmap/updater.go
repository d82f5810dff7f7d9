package roadmap

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Config configures the roadmap updater.
type Config struct {
	Path     string // Roadmap markdown file
	Anchor   string // Insertion anchor used when no sentinels exist
	BarWidth int    // Progress bar width in units
}

// Result is the outcome of one update pass.
type Result struct {
	Path     string
	Original string
	Text     string
	Block    []string
	Sections []Section
	Summary  Summary
}

// Stale reports whether the rewrite differs from the original in anything
// other than the generation timestamp.
func (r *Result) Stale() bool {
	return Fingerprint(r.Original) != Fingerprint(r.Text)
}

// BlockText returns the generated summary block as a single string.
func (r *Result) BlockText() string {
	return strings.Join(r.Block, "\n")
}

// Updater orchestrates the parse, aggregate, render and splice pipeline.
type Updater struct {
	Config Config
	Now    func() time.Time
	Logger *slog.Logger
}

// NewUpdater creates a new updater. A nil logger uses slog.Default().
func NewUpdater(config Config, logger *slog.Logger) *Updater {
	if config.BarWidth <= 0 {
		config.BarWidth = DefaultBarWidth
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Updater{
		Config: config,
		Now:    time.Now,
		Logger: logger,
	}
}

// Update runs the pipeline over text and returns the rewritten document.
// It has no side effects.
func (u *Updater) Update(text string) *Result {
	lines := splitLines(text)
	sections := ParseSections(lines)
	summary := Summarize(sections, lines)
	block := RenderBlock(summary, u.Now(), u.Config.BarWidth)

	out := ReplaceBlock(text, strings.Join(block, "\n"), u.Config.Anchor)
	out = RewriteAnnotations(out, summary)

	u.Logger.Debug("roadmap parsed",
		"sections", len(sections),
		"done", summary.Overall.Done,
		"total", summary.Overall.Total)

	return &Result{
		Path:     u.Config.Path,
		Original: text,
		Text:     out,
		Block:    block,
		Sections: sections,
		Summary:  summary,
	}
}

// Load reads the roadmap and computes its update without writing.
func (u *Updater) Load() (*Result, error) {
	data, err := os.ReadFile(u.Config.Path)
	if err != nil {
		return nil, fmt.Errorf("read roadmap: %w", err)
	}
	return u.Update(string(data)), nil
}

// Write overwrites the roadmap with the result text, keeping the file mode.
func (u *Updater) Write(res *Result) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(u.Config.Path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(u.Config.Path, []byte(res.Text), mode); err != nil {
		return fmt.Errorf("write roadmap: %w", err)
	}
	u.Logger.Debug("roadmap written", "path", u.Config.Path, "bytes", len(res.Text))
	return nil
}

// Run performs the full update: read, transform, and write back in place.
func (u *Updater) Run() (*Result, error) {
	res, err := u.Load()
	if err != nil {
		return nil, err
	}
	if err := u.Write(res); err != nil {
		return nil, err
	}
	return res, nil
}
