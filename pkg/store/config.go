package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/palette/pkg/palette"
)

// Config locates the item catalog on disk.
type Config interface {
	BasePath() string
}

// Settings is the resolved configuration: file, environment and defaults.
type Settings struct {
	Path       string        `json:"path"`
	Mode       palette.Mode  `json:"mode"`
	MinLength  int           `json:"min_length"`
	Debounce   time.Duration `json:"debounce"`
	MaxResults int           `json:"max_results"`
	Latency    time.Duration `json:"latency"`
}

// BasePath implements Config.
func (s *Settings) BasePath() string {
	return s.Path
}

// AsyncConfig converts the settings into a palette configuration for search.
func (s *Settings) AsyncConfig(search palette.SearchFunc) palette.AsyncConfig {
	return palette.AsyncConfig{
		MinLength:  s.MinLength,
		Debounce:   s.Debounce,
		MaxResults: s.MaxResults,
		OnSearch:   search,
	}.WithDefaults()
}

// LoadConfig reads .palette.yaml from $PALETTE_CONFIG_PATH or the working
// directory. PALETTE_* environment variables override file values.
func LoadConfig() (*Settings, error) {
	v := viper.New()
	v.SetDefault("path", "~/.palette.db")
	v.SetDefault("mode", string(palette.ModeSync))
	v.SetDefault("min_length", palette.DefaultMinLength)
	v.SetDefault("debounce", palette.DefaultDebounce)
	v.SetDefault("max_results", palette.DefaultMaxResults)
	v.SetDefault("latency", time.Duration(0))
	v.SetConfigName(".palette") // .yaml is implicit
	v.SetEnvPrefix("PALETTE")
	v.AutomaticEnv()

	if override := os.Getenv("PALETTE_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}

	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("store: read config file: %w", err)
		}
	}

	return settingsFrom(v)
}

func settingsFrom(v *viper.Viper) (*Settings, error) {
	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}

	mode := palette.Mode(strings.ToLower(strings.TrimSpace(v.GetString("mode"))))
	switch mode {
	case palette.ModeSync, palette.ModeAsync:
	default:
		return nil, fmt.Errorf("store: unknown mode %q, want %q or %q", mode, palette.ModeSync, palette.ModeAsync)
	}

	return &Settings{
		Path:       path,
		Mode:       mode,
		MinLength:  v.GetInt("min_length"),
		Debounce:   v.GetDuration("debounce"),
		MaxResults: v.GetInt("max_results"),
		Latency:    v.GetDuration("latency"),
	}, nil
}
