package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/johanforsgren/iconbridge/internal/canvas"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	DefaultSettingsFile   = "settings.toml"
	DefaultTintColor      = "#0A84FF"
	DefaultPreviewWorkers = 8
	DefaultPreviewLimit   = 24
	DefaultIconSize       = 24
	settingsDir           = ".iconbridge"
)

// Settings is the local settings.toml file. Provider credentials are not
// kept here, they live in the config store.
type Settings struct {
	LogFile        string `toml:"log_file,omitempty"`
	StorePath      string `toml:"store_path,omitempty"`
	TintColor      string `toml:"tint_color,omitempty"`
	PreviewWorkers int    `toml:"preview_workers,omitempty"`
	PreviewLimit   int    `toml:"preview_limit,omitempty"`
	GitHubBaseURL  string `toml:"github_base_url,omitempty"`
	DefaultSize    int    `toml:"default_size,omitempty"`
}

func Default() *Settings {
	return &Settings{
		TintColor:      DefaultTintColor,
		PreviewWorkers: DefaultPreviewWorkers,
		PreviewLimit:   DefaultPreviewLimit,
		DefaultSize:    DefaultIconSize,
	}
}

func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, settingsDir, DefaultSettingsFile), nil
}

// Load reads a settings file. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	if err := toml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}

	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Save writes the settings to path, creating the directory when needed.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating settings file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(s); err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	return nil
}

func (s *Settings) Validate() error {
	if _, err := canvas.ParseColor(s.TintColor); err != nil {
		return fmt.Errorf("tint_color: %w", err)
	}
	if s.PreviewWorkers < 1 {
		return fmt.Errorf("preview_workers must be at least 1, got %d", s.PreviewWorkers)
	}
	if s.PreviewLimit < 1 {
		return fmt.Errorf("preview_limit must be at least 1, got %d", s.PreviewLimit)
	}
	if s.DefaultSize < 0 {
		return fmt.Errorf("default_size must not be negative, got %d", s.DefaultSize)
	}
	return nil
}

// Tint returns the parsed tint colour, falling back to the default.
func (s *Settings) Tint() colorful.Color {
	if color, err := canvas.ParseColor(s.TintColor); err == nil {
		return color
	}
	color, _ := canvas.ParseColor(DefaultTintColor)
	return color
}

func (s *Settings) applyDefaults() {
	defaults := Default()
	if strings.TrimSpace(s.TintColor) == "" {
		s.TintColor = defaults.TintColor
	}
	if s.PreviewWorkers == 0 {
		s.PreviewWorkers = defaults.PreviewWorkers
	}
	if s.PreviewLimit == 0 {
		s.PreviewLimit = defaults.PreviewLimit
	}
	if s.DefaultSize == 0 {
		s.DefaultSize = defaults.DefaultSize
	}
}
