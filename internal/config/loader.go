package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// rawConfig mirrors Config with durations kept as strings ("5s", "250ms").
type rawConfig struct {
	Roadmap *RoadmapConfig `json:"roadmap"`
	History *HistoryConfig `json:"history"`
	Watch   *rawWatch      `json:"watch"`
	UI      *UIConfig      `json:"ui"`
}

type rawWatch struct {
	Debounce string `json:"debounce"`
}

// Load reads the project configuration from projectRoot/.roadmap.json.
func Load(projectRoot string) (*Config, error) {
	return LoadFrom(filepath.Join(projectRoot, ConfigFile))
}

// LoadFrom reads configuration from path, layered over the defaults.
// A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Decode sections onto the defaults so unset keys keep their values
	raw := rawConfig{
		Roadmap: &cfg.Roadmap,
		History: &cfg.History,
		UI:      &cfg.UI,
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if raw.Watch != nil && raw.Watch.Debounce != "" {
		d, err := time.ParseDuration(raw.Watch.Debounce)
		if err != nil {
			return nil, fmt.Errorf("parse config %s: watch.debounce: %w", path, err)
		}
		cfg.Watch.Debounce = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
