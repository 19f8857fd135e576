package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/dcasim/config"
	"github.com/alejandrodnm/dcasim/internal/adapters/storage"
	"github.com/alejandrodnm/dcasim/internal/adapters/yahoo"
	"github.com/alejandrodnm/dcasim/internal/ports"
	"github.com/alejandrodnm/dcasim/internal/simulator"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	serve := flag.Bool("serve", false, "run the HTTP API server")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	noCache := flag.Bool("no-cache", false, "skip the SQLite price cache")

	// Flags del modo one-shot (ignorados con -serve)
	symbols := flag.String("symbols", "^GSPC:100", `allocations as "SYM:PCT,SYM:PCT"`)
	start := flag.String("start", "", "start date YYYY-MM-DD")
	end := flag.String("end", "", "end date YYYY-MM-DD")
	monthly := flag.Float64("monthly", 500, "monthly investment amount")
	initial := flag.Float64("initial", 0, "initial lump sum")
	timeline := flag.Bool("timeline", false, "print the month-by-month timeline table")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	slog.Info("dcasim starting",
		"config", *configPath,
		"serve", *serve,
		"cache", !*noCache,
	)

	client := yahoo.NewClient(cfg.Yahoo.BaseURL, cfg.YahooTimeout(), cfg.Yahoo.RatePerSec)

	var provider ports.SeriesProvider = client
	if !*noCache {
		cache, err := storage.NewSQLiteCache(cfg.Cache.DSN, cfg.CacheRetention())
		if err != nil {
			slog.Error("failed to open price cache", "err", err, "dsn", cfg.Cache.DSN)
			os.Exit(1)
		}
		defer cache.Close()
		provider = storage.NewCachedProvider(client, cache)
	}

	engine := simulator.New(provider, cfg.Simulator.FetchWorkers)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *serve {
		if err := runServer(ctx, cfg.Server.Port, engine); err != nil {
			slog.Error("server exited with error", "err", err)
			os.Exit(1)
		}
		slog.Info("dcasim stopped cleanly")
		return
	}

	if err := runOnce(ctx, engine, onceFlags{
		symbols:  *symbols,
		start:    *start,
		end:      *end,
		monthly:  *monthly,
		initial:  *initial,
		timeline: *timeline,
	}); err != nil {
		slog.Error("simulation failed", "err", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
