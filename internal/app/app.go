package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/SyedMHaroon/NamazBot/internal/config"
	"github.com/SyedMHaroon/NamazBot/internal/infrastructure/logging"
	"github.com/SyedMHaroon/NamazBot/internal/services"
)

const shutdownTimeout = 10 * time.Second

// Run serves the webhook and admin API and, when enabled, the delivery
// scheduler until SIGINT or SIGTERM
func Run(cfg *config.Config) error {
	logger, err := logging.NewLogger(cfg.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	c, err := NewContainer(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.SchedulerEnabled {
		g.Go(func() error {
			services.RunScheduler(gctx, c.Scheduler, cfg.TickInterval, logger)
			return nil
		})
	} else {
		logger.Info("scheduler disabled")
	}

	return g.Wait()
}
