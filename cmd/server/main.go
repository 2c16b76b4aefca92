package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"golfbot/internal/participant/events"
	participanthandler "golfbot/internal/participant/handler"
	participantmetrics "golfbot/internal/participant/metrics"
	"golfbot/internal/participant/service"
	"golfbot/internal/platform/config"
	"golfbot/internal/platform/health"
	"golfbot/internal/platform/httpserver"
	"golfbot/internal/platform/kafka/producer"
	"golfbot/internal/platform/logger"
	"golfbot/internal/platform/metrics"
	httptransport "golfbot/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal service packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	log.Info("initializing golfbot",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"store_backend", cfg.StoreBackend,
		"events_enabled", cfg.Kafka.Enabled(),
	)

	reg := metrics.NewRegistry()
	healthHandler := health.New(cfg.Environment)

	backend, err := openStore(ctx, cfg, log, reg)
	if err != nil {
		return err
	}
	defer backend.close()

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(participantmetrics.New(reg)),
	}
	if cfg.Kafka.Enabled() {
		prod, err := producer.New(cfg.Kafka, log)
		if err != nil {
			return err
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			_ = prod.Close(closeCtx)
		}()
		healthHandler.RegisterCheck("kafka", prod.Ping)
		opts = append(opts, service.WithPublisher(events.NewKafkaPublisher(prod, cfg.Kafka.Topic, log)))
	}

	svc := service.New(backend.store, opts...)
	healthHandler.RegisterCheck("store", svc.Ping)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:             log,
		Participants:       participanthandler.New(svc, log),
		Health:             healthHandler,
		Registry:           reg,
		RequestTimeout:     cfg.RequestTimeout,
		MaxBodyBytes:       cfg.MaxBodyBytes,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})
	srv := httpserver.New(cfg.Addr, router, cfg.RequestTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	if backend.background != nil {
		g.Go(func() error {
			backend.background(gctx)
			return nil
		})
	}

	return g.Wait()
}

// every runs fn on a fixed interval until ctx is cancelled.
func every(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}
