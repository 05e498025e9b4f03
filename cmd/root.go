package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/springymate/book-scanner/internal/config"
)

// CLI represents the complete command structure for the bookscan application
type CLI struct {
	// Global flags
	Config   string `help:"Path to config file (defaults to ./config.yaml when present)" type:"path"`
	CacheDB  string `help:"Path to persistent metadata cache SQLite file (empty keeps the cache in memory)"`
	CacheTTL string `help:"Metadata cache time-to-live (e.g., 720h for 30 days)"`
	MinDelay string `help:"Minimum delay between metadata API calls (e.g., 100ms)"`
	Workers  int    `help:"Concurrent metadata lookups"`
	LogLevel string `help:"Log level" enum:"debug,info,warn,error" default:"info"`

	Recommend RecommendCmd `cmd:"" help:"Recommend new books for a detected collection"`
	Enrich    EnrichCmd    `cmd:"" help:"Resolve metadata for detected books"`
	Resolve   ResolveCmd   `cmd:"" help:"Resolve metadata for a single title"`
	Genres    GenresCmd    `cmd:"" help:"Summarize a collection and suggest genres"`
	Cache     CacheCmd     `cmd:"" help:"Manage the metadata cache"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging(slog.LevelInfo)
	loadDotenv()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("bookscan"),
		kong.Description("Resolve book metadata from shelf photos and recommend what to read next."),
		kong.UsageOnError(),
	)

	initLogging(parseLevel(cli.LogLevel))

	if err := initConfig(cli.Config); err != nil {
		slog.Error("Fatal error config file", "error", err)
		os.Exit(1)
	}
	updateGlobalConfig(&cli)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration error", "error", err)
		os.Exit(1)
	}

	if err := ctx.Run(cfg); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// loadDotenv loads .env from the working directory when present.
func loadDotenv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}
}

func initConfig(path string) error {
	config.SetDefaults()

	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Debug("Config file not found, using defaults and environment")
			return nil
		}
		return err
	}
	slog.Debug("Loaded config file", "path", viper.ConfigFileUsed())
	return nil
}

// updateGlobalConfig applies flags that were set on top of the config file.
func updateGlobalConfig(cli *CLI) {
	if cli.CacheDB != "" {
		viper.Set("cache.dbfile", cli.CacheDB)
	}
	if cli.CacheTTL != "" {
		viper.Set("cache.ttl", cli.CacheTTL)
	}
	if cli.MinDelay != "" {
		viper.Set("metadata.min_delay", cli.MinDelay)
	}
	if cli.Workers > 0 {
		viper.Set("metadata.workers", cli.Workers)
	}
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return slog.LevelInfo
	}
	return l
}

func initLogging(level slog.Level) {
	// Logs go to stderr so structured output on stdout stays clean.
	handler := humanlog.NewHandler(os.Stderr, &humanlog.Options{
		Level: level,
	})

	slog.SetDefault(slog.New(handler))
}

// closeServices releases resources held by svc, logging failures.
func closeServices(svc *services) {
	if svc == nil || svc.close == nil {
		return
	}
	if err := svc.close(); err != nil {
		slog.Warn("Failed to close services", "error", err)
	}
}
