package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/twinscroll/internal/cachemanager"
	"github.com/zjrosen/twinscroll/internal/config"
	"github.com/zjrosen/twinscroll/internal/document"
	"github.com/zjrosen/twinscroll/internal/log"
	"github.com/zjrosen/twinscroll/internal/markdown"
	"github.com/zjrosen/twinscroll/internal/syncscroll"
	"github.com/zjrosen/twinscroll/internal/ui/preview"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool

	cfg     config.Config
	cfgPath string
	cfgErr  error
)

var rootCmd = &cobra.Command{
	Use:   "twinscroll [flags] FILE...",
	Short: "Markdown source and preview side by side, scrolled together",
	Long: `twinscroll shows the raw markdown of each FILE next to its rendered form.
Scrolling either pane moves the other to the same block of the document.

Keys: tab switches pane, s toggles sync scrolling, ctrl+n/ctrl+p cycle
documents, ? shows all key bindings.`,
	Version: version,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .twinscroll/config.yaml, then ~/.config/twinscroll/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write debug logs (path from TWINSCROLL_LOG, default debug.log)")
	addViewFlags(rootCmd)
}

// addViewFlags registers the flags that override config file settings.
func addViewFlags(c *cobra.Command) {
	c.Flags().StringP("style", "s", "", "glamour style for the rendered pane")
	c.Flags().Bool("no-sync", false, "start with sync scrolling disabled")
	c.Flags().Bool("no-smooth", false, "jump the following pane instead of easing it")
	c.Flags().Bool("no-watch", false, "do not reload documents when they change on disk")
}

// applyViewFlags copies explicitly set flags over the loaded config.
func applyViewFlags(c *cobra.Command, cfg *config.Config) {
	flags := c.Flags()
	if flags.Changed("style") {
		cfg.UI.MarkdownStyle, _ = flags.GetString("style")
	}
	if noSync, _ := flags.GetBool("no-sync"); noSync {
		cfg.SyncScroll.Enabled = false
	}
	if noSmooth, _ := flags.GetBool("no-smooth"); noSmooth {
		cfg.SyncScroll.SmoothScrolling = false
	}
	if noWatch, _ := flags.GetBool("no-watch"); noWatch {
		cfg.Watch = false
	}
}

func initConfig() {
	path := cfgFile
	if path == "" {
		path = findConfig()
	}
	if path == "" {
		// No config file found anywhere - create the user default
		path = userConfigPath()
		if err := config.WriteDefaultConfig(path); err != nil {
			// If write fails, just continue with defaults (no config file)
			path = ""
		}
	}

	cfgPath = path
	cfg, cfgErr = loadConfig(viper.GetViper(), path)
}

// findConfig returns the first existing config file in lookup order:
// 1. .twinscroll/config.yaml (current directory)
// 2. ~/.config/twinscroll/config.yaml (user config)
func findConfig() string {
	candidates := []string{filepath.Join(".twinscroll", "config.yaml")}
	if p := userConfigPath(); p != "" {
		candidates = append(candidates, p)
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "twinscroll", "config.yaml")
}

// loadConfig reads path into v on top of the defaults. An empty path yields
// the defaults.
func loadConfig(v *viper.Viper, path string) (config.Config, error) {
	setDefaults(v, config.Defaults())

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return config.Defaults(), fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var c config.Config
	if err := v.Unmarshal(&c); err != nil {
		return config.Defaults(), fmt.Errorf("decoding config: %w", err)
	}
	return c, nil
}

func setDefaults(v *viper.Viper, d config.Config) {
	v.SetDefault("sync_scroll.enabled", d.SyncScroll.Enabled)
	v.SetDefault("sync_scroll.debounce_ms", d.SyncScroll.DebounceMS)
	v.SetDefault("sync_scroll.smooth_scrolling", d.SyncScroll.SmoothScrolling)
	v.SetDefault("sync_scroll.animation_ms", d.SyncScroll.AnimationMS)
	v.SetDefault("sync_scroll.min_scroll_delta", d.SyncScroll.MinScrollDelta)
	v.SetDefault("ui.markdown_style", d.UI.MarkdownStyle)
	v.SetDefault("ui.cell_height", d.UI.CellHeight)
	v.SetDefault("ui.show_line_numbers", d.UI.ShowLineNumbers)
	v.SetDefault("ui.show_indicator", d.UI.ShowIndicator)
	v.SetDefault("ui.split_ratio", d.UI.SplitRatio)
	v.SetDefault("watch", d.Watch)
}

// initLogging enables the file logger when --debug or TWINSCROLL_DEBUG asks
// for it. The returned cleanup is always safe to call.
func initLogging(prefix string) (func(), error) {
	if !debugFlag && !log.DebugEnabledFromEnv() {
		return func() {}, nil
	}

	logPath := os.Getenv("TWINSCROLL_LOG")
	if logPath == "" {
		logPath = "debug.log"
	}
	cleanup, err := log.InitWithTeaLog(logPath, prefix)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	log.Info(log.CatConfig, "twinscroll starting", "version", version, "config", cfgPath, "logPath", logPath)
	return cleanup, nil
}

// prepareConfig applies flag overrides to the loaded config and validates it.
func prepareConfig(c *cobra.Command) (config.Config, error) {
	if cfgErr != nil {
		return config.Config{}, cfgErr
	}
	resolved := cfg
	applyViewFlags(c, &resolved)
	if err := config.Validate(resolved); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return resolved, nil
}

// newLayouter builds a layouter backed by an in-memory block render cache.
func newLayouter(c config.Config) (*markdown.Layouter, *cachemanager.InMemoryCacheManager[string, []string]) {
	cache := cachemanager.NewInMemoryCacheManager[string, []string](
		"block-render",
		cachemanager.DefaultExpiration,
		cachemanager.DefaultCleanupInterval,
	)
	return markdown.NewLayouter(c.UI.MarkdownStyle, c.UI.CellHeight, cache), cache
}

// openDocuments opens every path into a new registry.
func openDocuments(c config.Config, paths []string) (*document.Registry, error) {
	registry := document.NewRegistry(syncscroll.WithConfig(c.SyncScroll.Engine()))
	var errs []error
	for _, p := range paths {
		if _, err := registry.Open(p); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return registry, nil
}

func runApp(cmd *cobra.Command, args []string) error {
	resolved, err := prepareConfig(cmd)
	if err != nil {
		return err
	}

	cleanup, err := initLogging("twinscroll")
	if err != nil {
		return err
	}
	defer cleanup()

	registry, err := openDocuments(resolved, args)
	if err != nil {
		return err
	}
	layouter, cache := newLayouter(resolved)

	var opts []preview.Option
	if cfgPath != "" {
		opts = append(opts, preview.WithConfigPath(cfgPath))
	}
	model := preview.New(resolved, registry, layouter, opts...)
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, err := p.Run()

	// Clean up watcher resources
	if m, ok := final.(preview.Model); ok {
		m.Close()
	}
	stats := cache.Stats()
	log.Debug(log.CatCache, "Block render cache", "hits", stats.Hits, "misses", stats.Misses, "items", stats.Items)

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
