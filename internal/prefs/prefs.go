// Package prefs persists shakeit user preferences.
// Preferences are stored in ~/.config/shakeit/prefs.toml.
package prefs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences for shakeit.
type Prefs struct {
	ViewMode    string `toml:"view_mode"`
	GridColumns int    `toml:"grid_columns"`
}

const (
	defaultPrefsPath   = "~/.config/shakeit/prefs.toml"
	defaultViewMode    = "list"
	defaultGridColumns = 3
	maxGridColumns     = 8
)

// Default returns the preferences used when nothing is stored.
func Default() Prefs {
	return Prefs{ViewMode: defaultViewMode, GridColumns: defaultGridColumns}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path, falling back to defaults if
// the file is missing or unreadable.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Default(), nil
	}

	p := Default()

	file, err := os.Open(resolved)
	if err != nil {
		return p, nil
	}
	defer func() { _ = file.Close() }()

	raw, err := io.ReadAll(file)
	if err != nil {
		return p, nil
	}

	if err := toml.Unmarshal(raw, &p); err != nil {
		return Default(), nil
	}

	return normalize(p), nil
}

// Save writes preferences to the given path, creating directories as
// needed. The file is replaced atomically.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	raw, err := toml.Marshal(normalize(p))
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := atomic.WriteFile(resolved, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

func normalize(p Prefs) Prefs {
	switch strings.ToLower(strings.TrimSpace(p.ViewMode)) {
	case "grid":
		p.ViewMode = "grid"
	default:
		p.ViewMode = defaultViewMode
	}
	if p.GridColumns <= 0 || p.GridColumns > maxGridColumns {
		p.GridColumns = defaultGridColumns
	}
	return p
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
		return "", errors.New("path is empty")
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
