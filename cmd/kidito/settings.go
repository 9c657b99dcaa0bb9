package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/kidito"
	"github.com/gogpu/kidito/geo"
)

// SettingsFilename is the harness settings file read from the working
// directory unless --settings names another.
const SettingsFilename = "kidito.yaml"

// maxSettingsSize bounds the settings file.
const maxSettingsSize = 64 * 1024

// Settings configures the window and the reloader. Zero fields keep their
// defaults.
type Settings struct {
	Title         string    `yaml:"title"`
	Width         int       `yaml:"width"`
	Height        int       `yaml:"height"`
	Scene         string    `yaml:"scene"`
	ArenaCapacity int       `yaml:"arena_capacity"`
	RequireMesh   bool      `yaml:"require_mesh"`
	Background    []float32 `yaml:"background"`
	Failure       []float32 `yaml:"failure"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		Title:  "kidito",
		Width:  800,
		Height: 600,
		Scene:  kidito.DefaultConfigPath,
	}
}

// LoadSettings reads a settings file over the defaults. A missing file is
// not an error unless required is set.
func LoadSettings(path string, required bool) (Settings, error) {
	s := DefaultSettings()

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			slog.Debug("no settings file", "path", path)
			return s, nil
		}
		return s, fmt.Errorf("settings: %w", err)
	}
	if info.Size() > maxSettingsSize {
		return s, fmt.Errorf("settings: %s is too large (%d bytes)", path, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("settings: parse %s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return s, fmt.Errorf("settings: %s: %w", path, err)
	}

	slog.Debug("loaded settings", "path", path, "size", info.Size())
	return s, nil
}

func (s *Settings) validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", s.Width, s.Height)
	}
	if s.ArenaCapacity < 0 {
		return fmt.Errorf("invalid arena capacity %d", s.ArenaCapacity)
	}
	for name, c := range map[string][]float32{"background": s.Background, "failure": s.Failure} {
		if c != nil && len(c) != 4 {
			return fmt.Errorf("%s color needs 4 components, got %d", name, len(c))
		}
	}
	return nil
}

func toRGBA(c []float32, def geo.RGBA) geo.RGBA {
	if len(c) != 4 {
		return def
	}
	return geo.RGBA{c[0], c[1], c[2], c[3]}
}

// ReloaderOptions returns the reloader options the settings describe.
func (s Settings) ReloaderOptions() []kidito.Option {
	opts := []kidito.Option{
		kidito.WithConfigPath(s.Scene),
		kidito.WithRequireMesh(s.RequireMesh),
		kidito.WithClearColors(
			toRGBA(s.Background, kidito.BackgroundColor),
			toRGBA(s.Failure, kidito.ErrorColor),
		),
	}
	if s.ArenaCapacity > 0 {
		opts = append(opts, kidito.WithArenaCapacity(s.ArenaCapacity))
	}
	return opts
}
