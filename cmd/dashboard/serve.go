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

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"golang.org/x/sync/errgroup"

	core "github.com/Turbo9k/dynamic-dashboard/components/dashboard"
	"github.com/Turbo9k/dynamic-dashboard/pkg/config"
	dashboardpkg "github.com/Turbo9k/dynamic-dashboard/pkg/dashboard"
	"github.com/Turbo9k/dynamic-dashboard/pkg/telemetry"
)

type serveCmd struct {
	Addr            string        `help:"Listen address (overrides DASHBOARD_ADDR)."`
	Transport       string        `help:"router (go-router on fiber) or http (chi)."`
	RefreshInterval time.Duration `help:"Automatic refresh period (overrides DASHBOARD_REFRESH_INTERVAL)."`
	Seed            uint64        `help:"Seed for reproducible values (overrides DASHBOARD_SEED)."`
}

func (cmd *serveCmd) Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cmd.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := config.NewLogger(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(logger)

	prom := telemetry.NewPrometheusTelemetry()
	d, err := dashboardpkg.New(dashboardpkg.Config{
		Options: dashboardpkg.Options{
			Generator:       generatorFor(cfg.Seed),
			Telemetry:       telemetry.Multi{telemetry.NewSlogTelemetry(logger), prom},
			Logger:          logger,
			RefreshInterval: cfg.RefreshInterval,
			RefreshLatency:  cfg.RefreshLatency,
			IdleTimeout:     cfg.IdleTimeout,
		},
		BasePath:      cfg.BasePath,
		ChartCacheTTL: cfg.ChartCacheTTL,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error { return d.Run(ctx) })

	switch cfg.Transport {
	case config.TransportHTTP:
		server := &http.Server{Addr: cfg.Addr, Handler: d.HTTPHandler(cfg.RefreshLimit, prom.Handler())}
		serveHTTP(ctx, group, logger, server, cfg.ShutdownTimeout)
	default:
		adapter := router.NewFiberAdapter()
		if err := dashboardpkg.Register[*fiber.App](adapter.Router(), d); err != nil {
			return fmt.Errorf("register routes: %w", err)
		}
		group.Go(func() error {
			logger.Info("starting dashboard", slog.String("addr", cfg.Addr), slog.String("transport", cfg.Transport))
			return adapter.Serve(cfg.Addr)
		})
		group.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			return adapter.Shutdown(shutdownCtx)
		})
		mux := http.NewServeMux()
		mux.Handle("/metrics", prom.Handler())
		serveHTTP(ctx, group, logger, &http.Server{Addr: cfg.MetricsAddr, Handler: mux}, cfg.ShutdownTimeout)
	}

	if err := group.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("dashboard stopped")
	return nil
}

func (cmd *serveCmd) apply(cfg *config.Config) {
	if cmd.Addr != "" {
		cfg.Addr = cmd.Addr
	}
	if cmd.Transport != "" {
		cfg.Transport = cmd.Transport
	}
	if cmd.RefreshInterval > 0 {
		cfg.RefreshInterval = cmd.RefreshInterval
	}
	if cmd.Seed != 0 {
		cfg.Seed = cmd.Seed
	}
}

func serveHTTP(ctx context.Context, group *errgroup.Group, logger *slog.Logger, server *http.Server, timeout time.Duration) {
	group.Go(func() error {
		logger.Info("starting http server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown", slog.Any("error", err))
			return err
		}
		return nil
	})
}

func generatorFor(seed uint64) core.Generator {
	if seed == 0 {
		return core.NewTimeSeededGenerator()
	}
	return core.NewRandomGenerator(seed)
}
