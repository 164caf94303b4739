package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todolist/internal/cache"
	"todolist/internal/config"
	"todolist/internal/controller"
	"todolist/internal/database"
	"todolist/internal/queue"
	"todolist/internal/repository"
	"todolist/internal/routes"
	"todolist/internal/service"
	"todolist/internal/worker"
	"todolist/pkg/logger"

	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		logger.Error(context.Background(), "Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	store, err := repository.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close(context.Background())

	var opts []service.Option
	deps := map[string]controller.Pinger{}

	// Redis is optional; without it every list goes to the store
	var todoCache *cache.TodoCache
	if rdb := cache.Client(ctx); rdb != nil {
		todoCache = cache.NewTodoCache(rdb, time.Duration(cfg.CacheTTL)*time.Second)
		opts = append(opts, service.WithCache(todoCache))
		deps["redis"] = todoCache
		defer rdb.Close()
	}

	queue.EnsureTopic(ctx, cfg)
	if pub := queue.NewPublisher(ctx, cfg); pub != nil {
		opts = append(opts, service.WithEvents(pub))
		defer pub.Close()
	}

	svc := service.NewTodoService(store, opts...)
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      routes.Router(controller.NewTodoController(svc, deps), cfg.CORSOrigins),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info(ctx, "HTTP server listening", "port", cfg.HTTPPort, "store", cfg.StoreDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if todoCache != nil {
		g.Go(func() error { return worker.Run(gctx, cfg, todoCache) })
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info(ctx, "Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info(ctx, "Server stopped")
	return nil
}
