package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/cloudhut/targetlag/kafka"
	"github.com/cloudhut/targetlag/lag"
	"github.com/cloudhut/targetlag/logging"
)

func main() {
	startupLogger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Errorf("failed to create startup logger: %w", err))
	}

	cfg, err := newConfig(startupLogger)
	if err != nil {
		startupLogger.Fatal("failed to parse config", zap.Error(err))
	}

	logger := logging.NewLogger(cfg.Logger, metricsNamespace)

	logger.Info("started targetlag", zap.String("version", os.Getenv("VERSION")))

	// Set up context which will be cancelled on SIGINT or SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupt
		logger.Info("received a signal, going to shut down targetlag")
		cancel()
	}()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("targetlag stopped with an error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg Config, logger *zap.Logger) error {
	kafkaSvc, err := kafka.NewService(cfg.Kafka, logger)
	if err != nil {
		return fmt.Errorf("failed to setup kafka service: %w", err)
	}
	defer kafkaSvc.Close()

	connectCtx, cancelConnect := context.WithTimeout(ctx, 15*time.Second)
	err = kafkaSvc.TestConnection(connectCtx)
	cancelConnect()
	if err != nil {
		return fmt.Errorf("failed to test connectivity to Kafka cluster: %w", err)
	}

	lagSvc, err := lag.NewService(cfg.Lag, logger.With(zap.String("source", "lag")), kafkaSvc.Admin)
	if err != nil {
		return fmt.Errorf("failed to setup lag service: %w", err)
	}
	defer lagSvc.Close()

	r := newRunner(cfg.Runner, logger.With(zap.String("source", "runner")), lagSvc)

	if cfg.Exporter.Port > 0 {
		srv := newHTTPServer(cfg.Exporter, r.IsReady)
		go func() {
			logger.Info("listening on address", zap.String("listen_address", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("failed to start HTTP server", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelShutdown()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("failed to gracefully shut down HTTP server", zap.Error(err))
			}
		}()
	}

	return r.Start(ctx)
}
