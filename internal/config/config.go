package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

var (
	// ErrInvalid is wrapped by every validation error
	ErrInvalid = errors.New("invalid configuration")

	ErrInvalidSize     = fmt.Errorf("%w: size", ErrInvalid)
	ErrInvalidFPS      = fmt.Errorf("%w: fps", ErrInvalid)
	ErrInvalidQuality  = fmt.Errorf("%w: quality", ErrInvalid)
	ErrInvalidBorder   = fmt.Errorf("%w: border", ErrInvalid)
	ErrInvalidProgress = fmt.Errorf("%w: progress", ErrInvalid)
)

// Config holds all application configuration
type Config struct {
	Video  VideoConfig  `toml:"video"`
	Render RenderConfig `toml:"render"`
	Theme  ThemeConfig  `toml:"theme"`
	Cache  CacheConfig  `toml:"cache"`
	Log    LogConfig    `toml:"log"`
}

// VideoConfig controls the encoder
type VideoConfig struct {
	Output  string `toml:"output"`
	Size    string `toml:"size"` // preset name or WIDTHxHEIGHT
	FPS     int    `toml:"fps"`
	Codec   string `toml:"codec"`
	Quality int    `toml:"quality"` // JPEG quality of intermediate frames
	FFmpeg  string `toml:"ffmpeg"`
	DryRun  bool   `toml:"-"`
}

// RenderConfig controls the rasterizer and terminal output
type RenderConfig struct {
	Border   int    `toml:"border"`
	Progress string `toml:"progress"` // auto, always, never
}

// ThemeConfig selects syntax colors
type ThemeConfig struct {
	// Name is a registry style or a .xml/.yaml theme file. Empty
	// disables highlighting.
	Name string `toml:"name"`
}

// CacheConfig controls the history cache
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"` // empty uses the user cache directory
}

// LogConfig controls diagnostics
type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Video: VideoConfig{
			Output:  "gitvid.flv",
			Size:    "720p",
			FPS:     60,
			Codec:   "libx264",
			Quality: 90,
			FFmpeg:  "ffmpeg",
		},
		Render: RenderConfig{
			Border:   15,
			Progress: "auto",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads config from the default location, falling back to defaults
func Load() (*Config, error) {
	configPath := getConfigPath()
	if configPath == "" {
		return DefaultConfig(), nil
	}

	cfg, err := LoadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// LoadFile loads config from path over the defaults
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Save saves config to the default location
func Save(cfg *Config) error {
	configPath := getConfigPath()
	if configPath == "" {
		return nil
	}
	return SaveTo(cfg, configPath)
}

// SaveTo writes config to path
func SaveTo(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// Validate checks values the pipeline cannot recover from
func (c *Config) Validate() error {
	size, err := ParseSize(c.Video.Size)
	if err != nil {
		return err
	}
	if c.Video.FPS <= 0 {
		return fmt.Errorf("%w: %d must be positive", ErrInvalidFPS, c.Video.FPS)
	}
	if c.Video.Quality < 1 || c.Video.Quality > 100 {
		return fmt.Errorf("%w: %d not in 1-100", ErrInvalidQuality, c.Video.Quality)
	}
	if c.Render.Border < 0 || 2*c.Render.Border >= size.Height || 2*c.Render.Border >= size.Width {
		return fmt.Errorf("%w: %d does not fit %s", ErrInvalidBorder, c.Render.Border, size)
	}
	switch c.Render.Progress {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("%w: %q (want auto, always or never)", ErrInvalidProgress, c.Render.Progress)
	}
	return nil
}

// CachePath returns the history database location
func (c *Config) CachePath() (string, error) {
	if c.Cache.Path != "" {
		return c.Cache.Path, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "gitvid", "history.db"), nil
}

// getConfigPath returns the config file path
func getConfigPath() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gitvid", "config.toml")
	}

	// Fall back to ~/.config
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "gitvid", "config.toml")
}

// GetConfigPath exports the config path for user reference
func GetConfigPath() string {
	return getConfigPath()
}
