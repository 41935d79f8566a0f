package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"wms-ops-agent/internal/bootstrap"
	"wms-ops-agent/internal/config"
	"wms-ops-agent/internal/server"
	"wms-ops-agent/internal/tracer"
	"wms-ops-agent/pkg/database"

	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(gormDB, cfg)
	if err != nil {
		log.Panicf("Unable to bootstrap container: %v", err)
	}
	defer func() {
		if err := container.Close(); err != nil {
			log.Printf("Shutdown: %v", err)
		}
	}()

	// 4. Tracer
	shutdownTracer := tracer.InitTracer(container.Logger)
	defer func() { _ = shutdownTracer(context.Background()) }()

	srv := server.New(cfg, container)

	// 5. Supervise the audit consumer and the HTTP server together
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return container.ConsumerService.Consume(gctx)
	})
	g.Go(func() error {
		return srv.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		container.Logger.Info("SERVER", "Shutting down", nil)
		return srv.Shutdown()
	})

	if err := g.Wait(); err != nil {
		container.Logger.Error("SERVER", "Stopped with error", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
