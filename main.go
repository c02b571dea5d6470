package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"markestedt/autom/autom/host"
	"markestedt/autom/config"
	"markestedt/autom/systray"
)

func main() {
	// Setup logging; the level is adjusted once the config is loaded
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	level.Set(cfg.Log.SlogLevel())
	slog.Info("Configuration loaded", "path", cfg.Path())

	auto, err := host.New(cfg)
	if err != nil {
		slog.Error("Failed to create automator", "error", err)
		os.Exit(1)
	}

	agent := NewAgent(cfg, auto)

	// Setup signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if !cfg.Tray.Enabled {
		if err := agent.Run(ctx); err != nil {
			slog.Error("Agent error", "error", err)
			os.Exit(1)
		}
		slog.Info("autom stopped")
		return
	}

	// The tray owns the main goroutine; the agent runs beside it
	tray := systray.NewManager(agent.WebURL(), agent)
	done := make(chan error, 1)
	go func() {
		done <- agent.Run(ctx)
		tray.Stop()
	}()
	go func() {
		select {
		case <-tray.WaitForQuit():
			cancel()
		case <-ctx.Done():
		}
	}()

	tray.Run()
	cancel()

	if err := <-done; err != nil {
		slog.Error("Agent error", "error", err)
		os.Exit(1)
	}
	slog.Info("autom stopped")
}
