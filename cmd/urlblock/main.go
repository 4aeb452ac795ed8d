package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/st3v3nmw/urlblock/internal/api"
	"github.com/st3v3nmw/urlblock/internal/config"
	"github.com/st3v3nmw/urlblock/internal/history"
	"github.com/st3v3nmw/urlblock/internal/store"
	"github.com/st3v3nmw/urlblock/internal/types"
)

func main() {
	if err := run(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run() error {
	slog.Info("URL Blocker")

	// Read config
	dataDir := getEnv("DATA_DIR", "data")
	err := config.Read(getEnv("CONFIG_FILE", ""), dataDir)
	if err != nil {
		return err
	}

	logger, err := newLogger(config.All.Log)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Store
	blocklist := store.New(config.All.Store.Path)
	urls, err := blocklist.ReadAll()
	if err != nil {
		return err
	}
	slog.Info("Loaded blocklist", "path", blocklist.Path(), "urls", len(urls))

	// History
	var recorder *history.Recorder
	if config.All.History.Enabled {
		slog.Info("Setting up history...")
		recorder, err = setupHistory(config.All.History)
		if err != nil {
			return err
		}
		defer func() {
			if err := recorder.Shutdown(); err != nil {
				slog.Error("history shutdown", "error", err)
			}
		}()

		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return err
		}

		retention := config.All.History.Retention
		_, err = scheduler.NewJob(
			gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 30, 0))),
			gocron.NewTask(recorder.DeleteOlderThan, retention),
			gocron.WithStartAt(gocron.WithStartImmediately()),
		)
		if err != nil {
			return err
		}

		scheduler.Start()
		defer scheduler.Shutdown()
	}

	// API
	slog.Info("Starting API service...", "address", config.All.API.Address())
	service := api.New(config.All.API, blocklist, recorder)

	errs := make(chan error, 1)
	go func() {
		errs <- service.Start()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return service.Shutdown(shutdownCtx)
}

func setupHistory(conf config.HistoryConfig) (*history.Recorder, error) {
	err := os.MkdirAll(filepath.Dir(conf.Path), 0755)
	if err != nil {
		return nil, err
	}

	recorder, err := history.Open(conf.Path, conf.FlushInterval)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	recorder.Start()
	return recorder, nil
}

func newLogger(conf config.LogConfig) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(conf.Level)); err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if conf.Format == types.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts)), nil
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts)), nil
}

func getEnv(envVar, fallback string) string {
	fullEnvVar := fmt.Sprintf("URLBLOCK_%s", envVar)
	value, ok := os.LookupEnv(fullEnvVar)
	if !ok {
		return fallback
	}

	return value
}
