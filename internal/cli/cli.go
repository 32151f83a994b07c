// Package cli implements the statuscard command-line interface.
//
// This package provides commands for rendering Steam status cards (profile,
// roster, gaming notice), managing Steam-account bindings, inspecting the
// render cache, and running the HTTP render service. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - profile: Render the full status card for one player
//   - roster: Render the friends-list card for a bound group
//   - notice: Render the gaming-start banner for one player
//   - bind: Manage group → user → Steam account bindings
//   - cache: Manage the render and image cache
//   - serve: Run the HTTP render service
//
// All commands support --verbose (-v) for debug-level logging and --config
// for an alternative TOML configuration file.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/statuscard/pkg/buildinfo"
	"github.com/matzehuels/statuscard/pkg/cache"
	"github.com/matzehuels/statuscard/pkg/fonts"
	"github.com/matzehuels/statuscard/pkg/pipeline"
	"github.com/matzehuels/statuscard/pkg/steam"
	"github.com/matzehuels/statuscard/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "statuscard"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger     *log.Logger
	ConfigPath string

	config *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "statuscard",
		Short:        "Statuscard renders Steam status cards",
		Long:         `Statuscard renders Steam player data as status card images: full profile cards with recent activity, group rosters with presence sections, and gaming-start notices.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "path to config file (default ~/.config/statuscard/config.toml)")

	// Register all subcommands
	root.AddCommand(c.profileCommand())
	root.AddCommand(c.rosterCommand())
	root.AddCommand(c.noticeCommand())
	root.AddCommand(c.bindCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig loads the TOML config once per process.
func (c *CLI) loadConfig() (*Config, error) {
	if c.config != nil {
		return c.config, nil
	}
	cfg, err := LoadConfig(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	c.config = cfg
	return cfg, nil
}

// newRunner assembles a pipeline runner from the config: cache backend,
// Steam client, bindings store, and fonts.
func (c *CLI) newRunner(cmd *cobra.Command, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	st, err := newStore(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}

	byteCache, err := newCache(cmd.Context(), cfg, noCache)
	if err != nil {
		return nil, err
	}

	clientOpts := []steam.Option{
		steam.WithCache(byteCache),
		steam.WithLogger(c.Logger),
	}
	if cfg.Steam.Proxy != "" {
		clientOpts = append(clientOpts, steam.WithProxy(cfg.Steam.Proxy))
	}
	client := steam.NewClient(cfg.Steam.APIKeys, clientOpts...)

	runner := pipeline.NewRunner(byteCache, client, st, fonts.New(cfg.Fonts), c.Logger)
	runner.TTL = cfg.Render.TTL()
	runner.Assets = loadAssets(cfg.Assets.Dir, c.Logger)
	return runner, nil
}

func newCache(ctx context.Context, cfg *Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if cfg.Storage.RedisAddr != "" {
		return cache.NewRedisCache(ctx, cfg.Storage.RedisAddr)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

func newStore(ctx context.Context, cfg *Config) (store.Store, error) {
	if cfg.Storage.Backend == "mongo" {
		return store.NewMongoStore(ctx, cfg.Storage.MongoURI, cfg.Storage.MongoDatabase)
	}
	path := ""
	if cfg.Storage.DataDir != "" {
		path = filepath.Join(cfg.Storage.DataDir, "bindings.json")
	}
	return store.NewFileStore(path)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/statuscard/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
