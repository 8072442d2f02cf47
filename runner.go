package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/cloudhut/targetlag/lag"
)

type lagMeasurer interface {
	AnyActiveGroupLag(ctx context.Context, topic string) (int64, error)
	LeastActiveGroup(ctx context.Context, topic string) (lag.GroupLag, bool, error)
}

// runner measures the lag of all configured topics, once or on an interval, and logs the results.
type runner struct {
	cfg    RunnerConfig
	logger *zap.Logger
	lagSvc lagMeasurer

	// isReady is set once the first round of measurements has finished, regardless of its outcome
	isReady *atomic.Bool
}

func newRunner(cfg RunnerConfig, logger *zap.Logger, lagSvc lagMeasurer) *runner {
	return &runner{
		cfg:     cfg,
		logger:  logger,
		lagSvc:  lagSvc,
		isReady: atomic.NewBool(false),
	}
}

// Start measures all topics immediately. With an interval of 0 it returns afterwards and reports whether any topic
// could not be measured. Otherwise it keeps measuring until ctx is done.
func (r *runner) Start(ctx context.Context) error {
	failed := r.measureAll(ctx)
	r.isReady.Store(true)

	if r.cfg.Interval == 0 {
		if failed > 0 {
			return fmt.Errorf("failed to measure lag of %d out of %d topics", failed, len(r.cfg.Topics))
		}
		return nil
	}

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.measureAll(ctx)
		}
	}
}

func (r *runner) IsReady() bool {
	return r.isReady.Load()
}

// measureAll measures every topic and returns the number of topics that failed.
func (r *runner) measureAll(ctx context.Context) int {
	failed := 0
	for _, topic := range r.cfg.Topics {
		if ctx.Err() != nil {
			return failed
		}
		err := r.measure(ctx, topic)
		if err != nil {
			failed++
			measurementsTotal.WithLabelValues(r.cfg.Strategy, "error").Inc()
			r.logger.Error("failed to measure topic lag",
				zap.String("topic_name", topic),
				zap.String("strategy", r.cfg.Strategy),
				zap.Error(err))
			continue
		}
		measurementsTotal.WithLabelValues(r.cfg.Strategy, "success").Inc()
	}

	return failed
}

func (r *runner) measure(ctx context.Context, topic string) error {
	switch r.cfg.Strategy {
	case StrategyAny:
		topicLag, err := r.lagSvc.AnyActiveGroupLag(ctx, topic)
		if err != nil {
			return err
		}
		r.logger.Info("measured topic lag",
			zap.String("topic_name", topic),
			zap.String("strategy", r.cfg.Strategy),
			zap.Int64("lag", topicLag))
	case StrategyLeast:
		least, found, err := r.lagSvc.LeastActiveGroup(ctx, topic)
		if err != nil {
			return err
		}
		if !found {
			r.logger.Info("measured topic lag, no active consumer group found",
				zap.String("topic_name", topic),
				zap.String("strategy", r.cfg.Strategy),
				zap.Int64("lag", 0))
			return nil
		}
		r.logger.Info("measured topic lag",
			zap.String("topic_name", topic),
			zap.String("strategy", r.cfg.Strategy),
			zap.String("consumer_group", least.Group),
			zap.Int("partition_count", len(least.Partitions)),
			zap.Int64("lag", least.Lag))
	default:
		return fmt.Errorf("unknown strategy '%v'", r.cfg.Strategy)
	}

	return nil
}
