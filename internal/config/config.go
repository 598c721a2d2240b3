// Package config provides configuration types and defaults for twinscroll.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/zjrosen/twinscroll/internal/log"
	"github.com/zjrosen/twinscroll/internal/syncscroll"
)

// MarkdownStyles lists the glamour styles accepted by ui.markdown_style.
var MarkdownStyles = []string{"dark", "light", "notty", "ascii", "dracula", "pink", "tokyo-night"}

// Config holds all configuration options for twinscroll.
type Config struct {
	SyncScroll SyncScrollConfig `mapstructure:"sync_scroll"`
	UI         UIConfig         `mapstructure:"ui"`
	Watch      bool             `mapstructure:"watch"` // Reload documents when they change on disk
}

// SyncScrollConfig holds sync scrolling options.
type SyncScrollConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	DebounceMS      int     `mapstructure:"debounce_ms"`
	SmoothScrolling bool    `mapstructure:"smooth_scrolling"`
	AnimationMS     int     `mapstructure:"animation_ms"`
	MinScrollDelta  float64 `mapstructure:"min_scroll_delta"` // pixels
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	MarkdownStyle   string  `mapstructure:"markdown_style"`    // glamour style, "dark" (default)
	CellHeight      float64 `mapstructure:"cell_height"`       // virtual pixels per terminal row
	ShowLineNumbers bool    `mapstructure:"show_line_numbers"` // line numbers in the raw pane
	ShowIndicator   bool    `mapstructure:"show_indicator"`    // raw viewport marker beside the rendered pane
	SplitRatio      float64 `mapstructure:"split_ratio"`       // raw pane share of the width
}

// Engine converts the user-facing settings into the sync engine config.
func (s SyncScrollConfig) Engine() syncscroll.Config {
	return syncscroll.Config{
		Debounce:          time.Duration(s.DebounceMS) * time.Millisecond,
		SmoothScrolling:   s.SmoothScrolling,
		AnimationDuration: time.Duration(s.AnimationMS) * time.Millisecond,
		MinScrollDelta:    s.MinScrollDelta,
	}
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	engine := syncscroll.DefaultConfig()
	return Config{
		SyncScroll: SyncScrollConfig{
			Enabled:         true,
			DebounceMS:      int(engine.Debounce / time.Millisecond),
			SmoothScrolling: engine.SmoothScrolling,
			AnimationMS:     int(engine.AnimationDuration / time.Millisecond),
			MinScrollDelta:  engine.MinScrollDelta,
		},
		UI: UIConfig{
			MarkdownStyle:   "dark",
			CellHeight:      20,
			ShowLineNumbers: true,
			ShowIndicator:   true,
			SplitRatio:      0.5,
		},
		Watch: true,
	}
}

// Validate checks the configuration for errors.
// Returns nil if the configuration is valid.
func Validate(cfg Config) error {
	var errs []error

	s := cfg.SyncScroll
	if s.DebounceMS < 0 {
		errs = append(errs, fmt.Errorf("sync_scroll.debounce_ms must not be negative, got %d", s.DebounceMS))
	}
	if s.AnimationMS < 0 {
		errs = append(errs, fmt.Errorf("sync_scroll.animation_ms must not be negative, got %d", s.AnimationMS))
	}
	if s.MinScrollDelta < 0 {
		errs = append(errs, fmt.Errorf("sync_scroll.min_scroll_delta must not be negative, got %g", s.MinScrollDelta))
	}

	ui := cfg.UI
	if ui.MarkdownStyle != "" && !slices.Contains(MarkdownStyles, ui.MarkdownStyle) {
		errs = append(errs, fmt.Errorf("ui.markdown_style %q is not one of %v", ui.MarkdownStyle, MarkdownStyles))
	}
	if ui.CellHeight <= 0 {
		errs = append(errs, fmt.Errorf("ui.cell_height must be positive, got %g", ui.CellHeight))
	}
	if ui.SplitRatio <= 0 || ui.SplitRatio >= 1 {
		errs = append(errs, fmt.Errorf("ui.split_ratio must be between 0 and 1 (exclusive), got %g", ui.SplitRatio))
	}

	return errors.Join(errs...)
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# twinscroll configuration

# Synchronized scrolling between the raw and rendered panes
sync_scroll:
  enabled: true            # Toggle at runtime with "s" (saved back to this file)
  debounce_ms: 16          # Base debounce window; cross-view syncs wait 3x, idle reset 2x
  smooth_scrolling: true   # Ease the following pane instead of jumping
  animation_ms: 150        # Length of one eased transition
  min_scroll_delta: 5.0    # Ignore scrolls smaller than this (virtual pixels)

# UI settings
ui:
  markdown_style: dark     # dark, light, notty, ascii, dracula, pink, tokyo-night
  cell_height: 20.0        # Virtual pixels per terminal row
  show_line_numbers: true  # Line numbers in the raw pane
  show_indicator: true     # Mark the raw viewport beside the rendered pane
  split_ratio: 0.5         # Raw pane share of the terminal width

# Reload documents when they change on disk
watch: true
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
