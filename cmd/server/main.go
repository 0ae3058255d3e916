package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/mcoot/backlogbingo/internal/api"
	"github.com/mcoot/backlogbingo/internal/config"
	"github.com/mcoot/backlogbingo/internal/factory"
	"github.com/mcoot/backlogbingo/internal/middleware"
)

func main() {
	if slices.Contains(os.Args[1:], "-h") || slices.Contains(os.Args[1:], "--help") {
		fmt.Println("bingo-server is configured through environment variables or a .env file:")
		fmt.Println()
		if err := config.Usage(os.Stdout); err != nil {
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := cfg.Logger(os.Stdout)
	slog.SetDefault(logger)

	factoryCfg := factory.Config{
		Logger:        logger,
		StorageType:   cfg.Storage,
		FetchConfig:   cfg.Fetch(),
		EnableMetrics: cfg.Metrics,
	}
	switch cfg.Storage {
	case config.StorageRedis:
		redisCfg := cfg.Redis()
		factoryCfg.RedisConfig = &redisCfg
	case config.StorageBolt:
		boltCfg := cfg.Bolt()
		factoryCfg.BoltConfig = &boltCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		ProfileService:  app.ProfileService,
		RulesService:    app.RulesService,
		SourceService:   app.SourceService,
		CardService:     app.CardService,
		Metrics:         app.Metrics,
		CompressMinSize: middleware.DefaultCompressMinSize,
	})

	server := api.NewServer(router, cfg.Server(), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting server",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.Storage),
		slog.Bool("metrics", cfg.Metrics),
	)

	if err := server.Run(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server stopped")
}
