package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/twinscroll/internal/config"
)

func TestLoadConfig_NoFileUsesDefaults(t *testing.T) {
	got, err := loadConfig(viper.New(), "")
	require.NoError(t, err)
	require.Equal(t, config.Defaults(), got)
}

func TestLoadConfig_TemplateMatchesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(path))

	got, err := loadConfig(viper.New(), path)
	require.NoError(t, err)
	require.Equal(t, config.Defaults(), got)
}

func TestLoadConfig_PartialFileKeepsOtherDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`sync_scroll:
  enabled: false
  animation_ms: 300
ui:
  markdown_style: light
`), 0o600))

	got, err := loadConfig(viper.New(), path)
	require.NoError(t, err)

	want := config.Defaults()
	want.SyncScroll.Enabled = false
	want.SyncScroll.AnimationMS = 300
	want.UI.MarkdownStyle = "light"
	require.Equal(t, want, got)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := loadConfig(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "reading config")
}

func TestFindConfig_PrefersProjectDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", filepath.Join(dir, "home"))

	require.Equal(t, "", findConfig())

	user := filepath.Join(dir, "home", ".config", "twinscroll", "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(user))
	require.Equal(t, user, findConfig())

	local := filepath.Join(".twinscroll", "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(local))
	require.Equal(t, local, findConfig())
}

func TestApplyViewFlags(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, c config.Config)
	}{
		{
			name: "no flags leaves config alone",
			args: nil,
			check: func(t *testing.T, c config.Config) {
				require.Equal(t, config.Defaults(), c)
			},
		},
		{
			name: "style",
			args: []string{"--style", "ascii"},
			check: func(t *testing.T, c config.Config) {
				require.Equal(t, "ascii", c.UI.MarkdownStyle)
			},
		},
		{
			name: "negations",
			args: []string{"--no-sync", "--no-smooth", "--no-watch"},
			check: func(t *testing.T, c config.Config) {
				require.False(t, c.SyncScroll.Enabled)
				require.False(t, c.SyncScroll.SmoothScrolling)
				require.False(t, c.Watch)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &cobra.Command{}
			addViewFlags(c)
			require.NoError(t, c.ParseFlags(tt.args))

			got := config.Defaults()
			applyViewFlags(c, &got)
			tt.check(t, got)
		})
	}
}

func TestPrepareConfig_RejectsInvalid(t *testing.T) {
	saved, savedErr := cfg, cfgErr
	t.Cleanup(func() { cfg, cfgErr = saved, savedErr })

	cfg = config.Defaults()
	cfg.UI.SplitRatio = 2
	cfgErr = nil

	c := &cobra.Command{}
	addViewFlags(c)
	_, err := prepareConfig(c)
	require.Error(t, err)
	require.Contains(t, err.Error(), "ui.split_ratio")
}

func TestPrepareConfig_FlagOverridesDoNotLeak(t *testing.T) {
	saved, savedErr := cfg, cfgErr
	t.Cleanup(func() { cfg, cfgErr = saved, savedErr })

	cfg = config.Defaults()
	cfgErr = nil

	c := &cobra.Command{}
	addViewFlags(c)
	require.NoError(t, c.ParseFlags([]string{"--no-sync"}))

	got, err := prepareConfig(c)
	require.NoError(t, err)
	require.False(t, got.SyncScroll.Enabled)
	require.True(t, cfg.SyncScroll.Enabled)
}

func TestOpenDocuments(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.md")
	b := filepath.Join(dir, "b.md")
	require.NoError(t, os.WriteFile(a, []byte("# A\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("# B\n"), 0o644))

	reg, err := openDocuments(config.Defaults(), []string{a, b, a})
	require.NoError(t, err)
	require.Equal(t, 2, reg.Len(), "the same file opens once")

	_, err = openDocuments(config.Defaults(), []string{a, filepath.Join(dir, "missing.md")})
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing.md")
}
