package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Save writes cfg to path. Keys in an existing file that Config does not
// manage are kept.
func Save(path string, cfg *Config) error {
	path = ExpandPath(path)

	raw := make(map[string]json.RawMessage)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parse existing config %s: %w", path, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("read config: %w", err)
	}

	managed := map[string]any{
		"roadmap": cfg.Roadmap,
		"history": cfg.History,
		"watch":   rawWatch{Debounce: cfg.Watch.Debounce.String()},
		"ui":      cfg.UI,
	}
	for key, value := range managed {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode config %s: %w", key, err)
		}
		raw[key] = encoded
	}

	out, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, append(out, '\n'), 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
