// Package prefs handles pulsar user preferences persistence.
// Preferences are stored in ~/.config/pulsar/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/pulsar/internal/search"
	"github.com/five82/pulsar/internal/transcript"
)

// Prefs holds the console options a user toggles at runtime.
type Prefs struct {
	Theme           string `toml:"theme"`
	Compact         bool   `toml:"compact"`
	NetworkExpanded bool   `toml:"network_expanded"`
	LimitToThousand bool   `toml:"limit_to_thousand"`
	FontSize        int    `toml:"font_size"`
	Follow          bool   `toml:"follow"`
	OnlyErrors      bool   `toml:"only_errors"`
	Search          Search `toml:"search"`
}

// Search holds the search toggles.
type Search struct {
	CaseSensitive bool `toml:"case_sensitive"`
	Regex         bool `toml:"regex"`
	WholeWord     bool `toml:"whole_word"`
}

const (
	defaultPrefsPath = "~/.config/pulsar/prefs.toml"
	defaultTheme     = "Dracula"
)

// Default returns the preferences of a fresh install.
func Default() Prefs {
	return Prefs{
		Theme:           defaultTheme,
		LimitToThousand: true,
		FontSize:        transcript.DefaultFontSize,
		Follow:          true,
	}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// RenderOptions converts the preferences into transcript options.
func (p Prefs) RenderOptions() transcript.Options {
	opts := transcript.Options{
		Compact:         p.Compact,
		NetworkExpanded: p.NetworkExpanded,
		FontSize:        p.FontSize,
	}
	if p.LimitToThousand {
		opts.Limit = transcript.DefaultLimit
	}
	return opts
}

// SearchOptions converts the preferences into search options.
func (p Prefs) SearchOptions() search.Options {
	return search.Options{
		CaseSensitive: p.Search.CaseSensitive,
		Regex:         p.Search.Regex,
		WholeWord:     p.Search.WholeWord,
	}
}

// Load reads preferences from the given path, falling back to defaults if missing.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Default(), nil
	}

	prefs := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Default(), nil // Graceful degradation
	}

	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}
	if prefs.FontSize <= 0 {
		prefs.FontSize = transcript.DefaultFontSize
	}

	return prefs, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
