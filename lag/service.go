package lag

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service measures how far the consumer groups of a topic lag behind. It is safe for concurrent use: the admin client
// is goroutine safe, and concurrent scans for the same topic share one in-flight scan.
type Service struct {
	cfg    Config
	logger *zap.Logger
	admin  AdminClient

	// requestGroup is used to deduplicate multiple concurrent group scans
	requestGroup  *singleflight.Group
	subscriptions *subscriptionCache

	allowedGroupIDsExpr []*regexp.Regexp
	ignoredGroupIDsExpr []*regexp.Regexp
}

func NewService(cfg Config, logger *zap.Logger, admin AdminClient) (*Service, error) {
	allowedGroupIDsExpr, err := compileRegexes(cfg.ConsumerGroups.AllowedGroupIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to compile allowed groups: %w", err)
	}
	ignoredGroupIDsExpr, err := compileRegexes(cfg.ConsumerGroups.IgnoredGroupIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to compile ignored groups: %w", err)
	}

	if cfg.ConsumerGroups.MeasureConcurrency < 1 {
		cfg.ConsumerGroups.MeasureConcurrency = 1
	}

	var subscriptions *subscriptionCache
	if cfg.ConsumerGroups.SubscriptionCacheTTL > 0 {
		subscriptions = newSubscriptionCache(cfg.ConsumerGroups.SubscriptionCacheTTL)
	}

	return &Service{
		cfg:    cfg,
		logger: logger,
		admin:  admin,

		requestGroup:  &singleflight.Group{},
		subscriptions: subscriptions,

		allowedGroupIDsExpr: allowedGroupIDsExpr,
		ignoredGroupIDsExpr: ignoredGroupIDsExpr,
	}, nil
}

// Close releases the subscription cache. The admin client is owned by the caller and stays open.
func (s *Service) Close() {
	if s.subscriptions != nil {
		s.subscriptions.close()
	}
}

// query carries the per query context, logger and bookkeeping of one public lag operation.
type query struct {
	operation string
	logger    *zap.Logger
	startedAt time.Time
	cancel    context.CancelFunc
}

func (s *Service) startQuery(ctx context.Context, operation string, fields ...zap.Field) (context.Context, *query) {
	cancel := func() {}
	if s.cfg.ConsumerGroups.RequestTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ConsumerGroups.RequestTimeout)
	}

	fields = append(fields,
		zap.String("operation", operation),
		zap.String("query_id", uuid.NewString()))

	return ctx, &query{
		operation: operation,
		logger:    s.logger.With(fields...),
		startedAt: time.Now(),
		cancel:    cancel,
	}
}

func (q *query) finish(err error) {
	q.cancel()

	duration := time.Since(q.startedAt)
	queryDuration.WithLabelValues(q.operation).Observe(duration.Seconds())
	if err != nil {
		queriesTotal.WithLabelValues(q.operation, "error").Inc()
		q.logger.Warn("failed to measure consumer group lag", zap.Error(err), zap.Duration("duration", duration))
		return
	}
	queriesTotal.WithLabelValues(q.operation, "success").Inc()
	q.logger.Debug("measured consumer group lag", zap.Duration("duration", duration))
}
