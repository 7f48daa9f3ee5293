package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/KotFed0t/extrol_cli/config"
	"github.com/KotFed0t/extrol_cli/data/cache"
	"github.com/KotFed0t/extrol_cli/internal/externalApi/cloudStorageApi/googleDriveApi"
	"github.com/KotFed0t/extrol_cli/internal/externalApi/extrolApi"
	"github.com/KotFed0t/extrol_cli/internal/reportGenerator/xlsxGenerator"
	"github.com/KotFed0t/extrol_cli/internal/scheduler"
	"github.com/KotFed0t/extrol_cli/internal/service/extrolService"
	"github.com/KotFed0t/extrol_cli/internal/transport/cli"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.Any("cfg", cfg))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	clientCache, err := cache.New(cfg)
	if err != nil {
		slog.Error("failed to init cache", slog.String("err", err.Error()))
		os.Exit(1)
	}

	apiClient := extrolApi.New(cfg)

	view := cli.NewView()

	extrolSrv := extrolService.New(apiClient, clientCache, view)

	reportGenerator := xlsxGenerator.New()

	newCloudStorage := func(ctx context.Context) (cli.CloudStorage, error) {
		return googleDriveApi.New(ctx, cfg)
	}

	sched := scheduler.New()

	controller := cli.NewController(
		extrolSrv,
		apiClient,
		view,
		reportGenerator,
		newCloudStorage,
		sched,
		cfg.Jobs.RefreshEntriesInterval,
	)

	if err := controller.RootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
