package config

import (
	"path/filepath"
	"time"

	"github.com/marcus/roadmap/internal/roadmap"
)

// ConfigFile is the per-project configuration file name.
const ConfigFile = ".roadmap.json"

// Config is the root configuration structure.
type Config struct {
	Roadmap RoadmapConfig `json:"roadmap"`
	History HistoryConfig `json:"history"`
	Watch   WatchConfig   `json:"watch"`
	UI      UIConfig      `json:"ui"`
}

// RoadmapConfig locates the roadmap document and tunes the generated block.
type RoadmapConfig struct {
	Path     string `json:"path"`     // relative to the project root unless absolute
	Anchor   string `json:"anchor"`   // insertion anchor when no sentinels exist
	BarWidth int    `json:"barWidth"` // progress bar units
}

// HistoryConfig configures the progress snapshot store.
type HistoryConfig struct {
	Enabled bool   `json:"enabled"`
	DBPath  string `json:"dbPath"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce time.Duration `json:"debounce"`
}

// UIConfig configures terminal output.
type UIConfig struct {
	Theme string `json:"theme"` // glamour style name, or "auto"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Roadmap: RoadmapConfig{
			Path:     filepath.Join("docs", "roadmap_reduccion.md"),
			Anchor:   roadmap.DefaultAnchor,
			BarWidth: roadmap.DefaultBarWidth,
		},
		History: HistoryConfig{
			Enabled: false,
			DBPath:  filepath.Join(".roadmap", "history.db"),
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
		UI: UIConfig{
			Theme: "auto",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Roadmap.Path == "" {
		c.Roadmap.Path = Default().Roadmap.Path
	}
	if c.Roadmap.BarWidth <= 0 {
		c.Roadmap.BarWidth = roadmap.DefaultBarWidth
	}
	if c.History.DBPath == "" {
		c.History.DBPath = Default().History.DBPath
	}
	if c.Watch.Debounce < 0 {
		c.Watch.Debounce = 200 * time.Millisecond
	}
	if c.UI.Theme == "" {
		c.UI.Theme = "auto"
	}
	return nil
}

// RoadmapPath resolves the roadmap document against the project root.
func (c *Config) RoadmapPath(projectRoot string) string {
	return resolve(projectRoot, c.Roadmap.Path)
}

// HistoryPath resolves the history database against the project root.
func (c *Config) HistoryPath(projectRoot string) string {
	return resolve(projectRoot, c.History.DBPath)
}

// RoadmapOptions converts the configuration into updater options for the
// given project root.
func (c *Config) RoadmapOptions(projectRoot string) roadmap.Config {
	return roadmap.Config{
		Path:     c.RoadmapPath(projectRoot),
		Anchor:   c.Roadmap.Anchor,
		BarWidth: c.Roadmap.BarWidth,
	}
}

func resolve(root, path string) string {
	path = ExpandPath(path)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
