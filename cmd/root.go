package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/term"

	"github.com/zjrosen/glance/internal/app"
	"github.com/zjrosen/glance/internal/config"
	"github.com/zjrosen/glance/internal/filecache"
	"github.com/zjrosen/glance/internal/log"
	"github.com/zjrosen/glance/internal/menubar"
	"github.com/zjrosen/glance/internal/nav"
	"github.com/zjrosen/glance/internal/shell"
	"github.com/zjrosen/glance/internal/surface"
	"github.com/zjrosen/glance/internal/tracing"
	"github.com/zjrosen/glance/internal/viewer"
	"github.com/zjrosen/glance/internal/viewerpage"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in the view.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const defaultPrintWidth = 80

// errNotMounted makes --print exit non-zero when the viewer failed. The
// error card has already been written.
var errNotMounted = errors.New("file could not be displayed")

var (
	version   = "dev"
	cfgFile   string
	cfg       config.Config
	debugFlag bool

	// settings backs cfg. It uses config.KeyDelimiter so mime keys keep
	// their dots.
	settings = config.NewViper()
)

var rootCmd = &cobra.Command{
	Use:   "glance <path>",
	Short: "View a file in the terminal",
	Long: `View a file in the terminal with the viewer registered for its type.

The viewer is picked from the mime table: the file name first, then its
extension, falling back to a download card. Navigation flags may follow the
path as a query string.

Examples:
  glance notes.md
  glance 'report.pdf?nav=false'      # no border or rounded corners
  glance data.csv --print --width 120`,
	Version:       version,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/glance/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write a debug log (also GLANCE_DEBUG=1)")
	rootCmd.Flags().Bool("nav", true,
		"show the viewer chrome (overrides ?nav= in the path)")
	rootCmd.Flags().Bool("print", false,
		"render once to stdout and exit")
	rootCmd.Flags().Int("width", 0,
		"render width for --print (default: terminal width)")
	rootCmd.Flags().Bool("no-auto-reload", false,
		"do not reload when the file changes on disk")
	rootCmd.Flags().String("metrics-addr", "",
		"serve prometheus metrics on this address, e.g. 127.0.0.1:9464")

	_ = settings.BindPFlag(config.Key("metrics", "addr"), rootCmd.Flags().Lookup("metrics-addr"))
}

func initConfig() {
	loaded, err := readConfig(settings, cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "glance: %v\n", err)
	}
	cfg = loaded
}

// readConfig loads defaults, the config file and GLANCE_ environment
// variables into v and decodes them. A missing config file is not an error.
func readConfig(v *viper.Viper, path string) (config.Config, error) {
	setDefaults(v, config.Defaults())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		// Config lookup order:
		// 1. .glance/config.yaml (current directory)
		// 2. ~/.config/glance/config.yaml (user config)
		if _, err := os.Stat(".glance/config.yaml"); err == nil {
			v.SetConfigFile(".glance/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			v.AddConfigPath(filepath.Join(home, ".config", "glance"))
			v.SetConfigName("config")
			v.SetConfigType("yaml")
		}
	}
	v.SetEnvPrefix("GLANCE")
	v.AutomaticEnv()

	var readErr error
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			readErr = fmt.Errorf("reading config: %w", err)
		}
	}

	var c config.Config
	if err := v.Unmarshal(&c); err != nil {
		return config.Defaults(), fmt.Errorf("decoding config: %w", err)
	}
	return c, readErr
}

func setDefaults(v *viper.Viper, d config.Config) {
	k := config.Key
	v.SetDefault("auto_reload", d.AutoReload)
	v.SetDefault(k("ui", "markdown_style"), d.UI.MarkdownStyle)
	v.SetDefault(k("ui", "show_log"), d.UI.ShowLog)
	v.SetDefault(k("ui", "show_menubar"), d.UI.ShowMenubar)
	v.SetDefault(k("theme", "preset"), d.Theme.Preset)
	v.SetDefault(k("cache", "dir"), d.Cache.Dir)
	v.SetDefault(k("cache", "ttl"), d.Cache.TTL)
	v.SetDefault(k("cache", "retention"), d.Cache.Retention)
	v.SetDefault(k("tracing", "enabled"), d.Tracing.Enabled)
	v.SetDefault(k("tracing", "exporter"), d.Tracing.Exporter)
	v.SetDefault(k("tracing", "file_path"), d.Tracing.FilePath)
	v.SetDefault(k("tracing", "otlp_endpoint"), d.Tracing.OTLPEndpoint)
	v.SetDefault(k("tracing", "sample_rate"), d.Tracing.SampleRate)
}

// liveTypeTable re-reads the mime section from v on every call, so edits
// picked up by the config watcher apply on the next dispatch.
func liveTypeTable(v *viper.Viper, base config.Config) viewer.TableSource {
	return func() viewer.TypeTable {
		live := base
		live.Mime = nil
		if err := v.UnmarshalKey("mime", &live.Mime); err != nil {
			log.Warn(log.CatConfig, "ignoring unreadable mime table", "error", err)
			live.Mime = base.Mime
		}
		return live.TypeTable()
	}
}

func runApp(cmd *cobra.Command, args []string) error {
	// Initialize logging if debug mode enabled (via flag or env var)
	debug := os.Getenv("GLANCE_DEBUG") != "" || debugFlag
	if debug {
		logPath := os.Getenv("GLANCE_LOG")
		if logPath == "" {
			logPath = "debug.log"
		}
		cleanup, err := log.Init(logPath)
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		defer cleanup()
		log.Info(log.CatConfig, "glance starting", "debug", true, "logPath", logPath, "config", settings.ConfigFileUsed())
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	loc, err := targetLocation(cmd, args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	provider, err := tracing.NewProvider(ctx, tracingConfig(cfg.Tracing))
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			log.ErrorErr(log.CatTrace, "tracing shutdown failed", err)
		}
	}()

	reg := prometheus.NewRegistry()
	metrics := viewer.NewMetrics(reg)
	if cfg.Metrics.Addr != "" {
		srv, err := serveMetrics(cfg.Metrics.Addr, reg)
		if err != nil {
			return fmt.Errorf("starting metrics server: %w", err)
		}
		defer srv.Stop()
	}

	cache := filecache.New(filecache.Config{
		Dir:       cfg.Cache.Dir,
		TTL:       cfg.Cache.TTL,
		Retention: cfg.Cache.Retention,
	})
	defer func() { _ = cache.Close() }()

	deps := pageDeps(loc, cfg, liveTypeTable(settings, cfg), cache, metrics, provider.Tracer())

	printMode, _ := cmd.Flags().GetBool("print")
	if printMode {
		deps.Shell = shell.New(cmd.OutOrStdout())
		page := viewerpage.New(deps)
		defer page.Close()
		width, _ := cmd.Flags().GetInt("width")
		return runPrint(ctx, page, printWidth(width), cmd.OutOrStdout())
	}

	if settings.ConfigFileUsed() != "" {
		settings.OnConfigChange(func(e fsnotify.Event) {
			log.Info(log.CatConfig, "config changed", "path", e.Name)
		})
		settings.WatchConfig()
	}

	bar := menubar.New()
	deps.Shell = shell.New(os.Stdout)
	if cfg.UI.ShowMenubar {
		deps.Menubar = bar
	}
	page := viewerpage.New(deps)

	autoReload := cfg.AutoReload
	if noAutoReload, _ := cmd.Flags().GetBool("no-auto-reload"); noAutoReload {
		autoReload = false
	}

	model := app.New(app.Config{
		Page:       page,
		Menubar:    bar,
		Location:   loc,
		AutoReload: autoReload,
		Debug:      debug,
		ShowLog:    cfg.UI.ShowLog,
	})
	p := tea.NewProgram(
		&model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	_, err = p.Run()

	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// targetLocation parses the path argument, makes it absolute and applies
// an explicit --nav flag over the query string.
func targetLocation(cmd *cobra.Command, raw string) (nav.Location, error) {
	loc, err := nav.Parse(raw)
	if err != nil {
		return nav.Location{}, err
	}
	abs, err := filepath.Abs(loc.Path())
	if err != nil {
		return nav.Location{}, fmt.Errorf("resolving %s: %w", loc.Path(), err)
	}
	loc = loc.WithPath(abs)

	if f := cmd.Flags().Lookup("nav"); f != nil && f.Changed {
		show, _ := cmd.Flags().GetBool("nav")
		loc = loc.WithQuery(nav.FlagNav, strconv.FormatBool(show))
	}
	return loc, nil
}

func pageDeps(loc nav.Location, c config.Config, table viewer.TableSource, cache *filecache.Cache, metrics *viewer.Metrics, tracer trace.Tracer) viewerpage.Deps {
	return viewerpage.Deps{
		Location:        func() nav.Location { return loc },
		Table:           table,
		Cache:           cache,
		ThemeFile:       c.Theme.File,
		Theme:           c.Theme.Styles(),
		DownloadBaseURL: c.DownloadBaseURL,
		MarkdownStyle:   c.UI.MarkdownStyle,
		Metrics:         metrics,
		Tracer:          tracer,
	}
}

func tracingConfig(t config.TracingConfig) tracing.Config {
	return tracing.Config{
		Enabled:      t.Enabled,
		Exporter:     t.Exporter,
		FilePath:     t.FilePath,
		OTLPEndpoint: t.OTLPEndpoint,
		SampleRate:   t.SampleRate,
	}
}

// runPrint renders the page once into w.
func runPrint(ctx context.Context, page *viewerpage.Page, width int, w io.Writer) error {
	if err := page.Init(ctx); err != nil {
		return fmt.Errorf("initializing viewer: %w", err)
	}
	frame := surface.NewFrame()
	out := page.Render(ctx, frame, width)
	if _, err := fmt.Fprintln(w, frame.View()); err != nil {
		return err
	}
	if !out.Mounted {
		return errNotMounted
	}
	return nil
}

// printWidth is the surface width for --print: the flag, else the terminal
// width less the frame border and padding, else 80.
func printWidth(flag int) int {
	if flag > 0 {
		return flag
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 4 {
		return w - 4
	}
	return defaultPrintWidth
}

// configFilePath returns the loaded config file, or the user config path
// when none was found.
func configFilePath() string {
	if used := settings.ConfigFileUsed(); used != "" {
		return used
	}
	if cfgFile != "" {
		return cfgFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".glance", "config.yaml")
	}
	return filepath.Join(home, ".config", "glance", "config.yaml")
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
