package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/davidbz/shahsearch/internal/app"
	"github.com/davidbz/shahsearch/internal/httpserver"
	"github.com/davidbz/shahsearch/internal/httpserver/middleware"
)

const shutdownTimeout = 10 * time.Second

func main() {
	container := buildContainer()

	err := container.Invoke(func(server *httpserver.Server, logger *zap.Logger) {
		defer func() { _ = logger.Sync() }()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Error("shutdown failed", zap.Error(err))
			}
		}()

		if err := server.Start(); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

func buildContainer() *dig.Container {
	container, err := app.BuildContainer()
	if err != nil {
		log.Fatalf("Failed to build container: %v", err)
	}

	// HTTP Layer
	if err := container.Provide(middleware.BuildMiddlewareChain); err != nil {
		log.Fatalf("Failed to provide middleware chain: %v", err)
	}
	if err := container.Provide(httpserver.NewHandler); err != nil {
		log.Fatalf("Failed to provide HTTP handler: %v", err)
	}
	if err := container.Provide(httpserver.NewServer); err != nil {
		log.Fatalf("Failed to provide HTTP server: %v", err)
	}

	return container
}
