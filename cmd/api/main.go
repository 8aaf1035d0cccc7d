package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hseinspect/internal/app"
	"hseinspect/internal/server"

	logger "github.com/Bparsons0904/goLogger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logger.New("main")

	if err := run(log); err != nil {
		log.Er("api exited with error", err)
		os.Exit(1)
	}

	log.Info("Graceful shutdown complete")
}

func run(log logger.Logger) error {
	log = log.Function("run")

	hseApp, err := app.New()
	if err != nil {
		return log.Err("failed to initialize app", err)
	}
	defer func() {
		if err := hseApp.Close(); err != nil {
			log.Er("failed to close app", err)
		}
	}()

	appServer, err := server.New(hseApp)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if hseApp.Config.SchedulerEnabled {
		if err := hseApp.Services.Scheduler.Start(ctx); err != nil {
			return log.Err("failed to start scheduler", err)
		}
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- appServer.Listen(hseApp.Config.ServerPort)
	}()

	select {
	case err := <-serverErr:
		return log.Err("server stopped unexpectedly", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down, press Ctrl+C again to force")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// No job should start while requests drain.
	var shutdownErr error
	if hseApp.Config.SchedulerEnabled {
		if err := hseApp.Services.Scheduler.Stop(shutdownCtx); err != nil {
			shutdownErr = errors.Join(shutdownErr, err)
		}
	}
	if err := appServer.FiberApp.ShutdownWithContext(shutdownCtx); err != nil {
		shutdownErr = errors.Join(shutdownErr, err)
	}

	return shutdownErr
}
