package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.True(t, cfg.SyncScroll.Enabled)
	assert.Equal(t, 16, cfg.SyncScroll.DebounceMS)
	assert.True(t, cfg.SyncScroll.SmoothScrolling)
	assert.Equal(t, 150, cfg.SyncScroll.AnimationMS)
	assert.Equal(t, 5.0, cfg.SyncScroll.MinScrollDelta)
	assert.Equal(t, "dark", cfg.UI.MarkdownStyle)
	assert.Equal(t, 20.0, cfg.UI.CellHeight)
	assert.Equal(t, 0.5, cfg.UI.SplitRatio)
	assert.True(t, cfg.Watch)
	require.NoError(t, Validate(cfg))
}

func TestSyncScrollConfig_Engine(t *testing.T) {
	s := SyncScrollConfig{DebounceMS: 20, SmoothScrolling: false, AnimationMS: 300, MinScrollDelta: 2.5}

	engine := s.Engine()
	require.Equal(t, 20*time.Millisecond, engine.Debounce)
	require.False(t, engine.SmoothScrolling)
	require.Equal(t, 300*time.Millisecond, engine.AnimationDuration)
	require.Equal(t, 2.5, engine.MinScrollDelta)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"negative debounce", func(c *Config) { c.SyncScroll.DebounceMS = -1 }, "debounce_ms"},
		{"negative animation", func(c *Config) { c.SyncScroll.AnimationMS = -5 }, "animation_ms"},
		{"negative delta", func(c *Config) { c.SyncScroll.MinScrollDelta = -0.1 }, "min_scroll_delta"},
		{"unknown style", func(c *Config) { c.UI.MarkdownStyle = "neon" }, "markdown_style"},
		{"zero cell height", func(c *Config) { c.UI.CellHeight = 0 }, "cell_height"},
		{"split ratio too large", func(c *Config) { c.UI.SplitRatio = 1 }, "split_ratio"},
		{"split ratio zero", func(c *Config) { c.UI.SplitRatio = 0 }, "split_ratio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := Validate(cfg)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_JoinsMultipleErrors(t *testing.T) {
	cfg := Defaults()
	cfg.SyncScroll.DebounceMS = -1
	cfg.UI.CellHeight = -2

	err := Validate(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "debounce_ms")
	require.Contains(t, err.Error(), "cell_height")
}

func TestValidate_EmptyStyleAllowed(t *testing.T) {
	cfg := Defaults()
	cfg.UI.MarkdownStyle = ""
	require.NoError(t, Validate(cfg))
}

func TestDefaultConfigTemplate_MatchesDefaults(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600))

	v := viper.New()
	v.SetConfigFile(configPath)
	require.NoError(t, v.ReadInConfig())

	var loaded Config
	require.NoError(t, v.Unmarshal(&loaded))
	require.Equal(t, Defaults(), loaded)
}

func TestWriteDefaultConfig_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "nested", "twinscroll", "config.yaml")

	require.NoError(t, WriteDefaultConfig(configPath))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfigTemplate(), string(data))
}
