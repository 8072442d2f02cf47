package lag

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	operationAnyActiveGroupLag   = "any_active_group_lag"
	operationLeastActiveGroupLag = "least_active_group_lag"
	operationGroupLag            = "group_lag"
)

// AnyActiveGroupLag returns the lag of one Stable group consuming the topic. If several groups qualify, which one is
// measured is arbitrary. It returns 0 if no group consumes the topic.
func (s *Service) AnyActiveGroupLag(ctx context.Context, topic string) (lag int64, err error) {
	ctx, q := s.startQuery(ctx, operationAnyActiveGroupLag, zap.String("topic_name", topic))
	defer func() { q.finish(err) }()

	group, found, err := s.findActiveGroup(ctx, topic)
	if err != nil {
		return 0, err
	}
	if !found {
		q.logger.Debug("no active consumer group found for topic")
		return 0, nil
	}

	groupLag, err := s.measureGroup(ctx, group)
	if err != nil {
		return 0, err
	}

	return groupLag.Lag, nil
}

// LeastActiveGroupLag returns the smallest lag of all Stable groups consuming the topic, that is the backlog of the
// most caught up consumer. It returns 0 if no group consumes the topic.
func (s *Service) LeastActiveGroupLag(ctx context.Context, topic string) (int64, error) {
	groupLag, _, err := s.LeastActiveGroup(ctx, topic)
	if err != nil {
		return 0, err
	}

	return groupLag.Lag, nil
}

// LeastActiveGroup is like LeastActiveGroupLag but also reports which group has the smallest lag and its per
// partition lag. found is false if no group consumes the topic.
func (s *Service) LeastActiveGroup(ctx context.Context, topic string) (least GroupLag, found bool, err error) {
	ctx, q := s.startQuery(ctx, operationLeastActiveGroupLag, zap.String("topic_name", topic))
	defer func() { q.finish(err) }()

	groups, err := s.activeGroups(ctx, topic, false)
	if err != nil {
		return GroupLag{}, false, err
	}
	if len(groups) == 0 {
		q.logger.Debug("no active consumer group found for topic")
		return GroupLag{}, false, nil
	}

	lags, err := s.measureGroups(ctx, groups)
	if err != nil {
		return GroupLag{}, false, err
	}
	least, found = LeastLag(lags)

	return least, found, nil
}

// GroupLag measures the lag of a single group over all partitions it has committed offsets for. The group's state
// is not checked.
func (s *Service) GroupLag(ctx context.Context, group string) (groupLag GroupLag, err error) {
	ctx, q := s.startQuery(ctx, operationGroupLag, zap.String("consumer_group", group))
	defer func() { q.finish(err) }()

	return s.measureGroup(ctx, group)
}

func (s *Service) measureGroup(ctx context.Context, group string) (GroupLag, error) {
	committed, err := s.CommittedOffsets(ctx, group)
	if err != nil {
		return GroupLag{}, err
	}

	end, err := s.EndOffsets(ctx, committed.Partitions())
	if err != nil {
		return GroupLag{}, err
	}

	return CalculateLag(group, committed, end)
}

// measureGroups measures all groups, at most MeasureConcurrency at a time. The result has the order of groups.
func (s *Service) measureGroups(ctx context.Context, groups []string) ([]GroupLag, error) {
	lags := make([]GroupLag, len(groups))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.cfg.ConsumerGroups.MeasureConcurrency)
	for i, group := range groups {
		i, group := i, group
		eg.Go(func() error {
			groupLag, err := s.measureGroup(egCtx, group)
			if err != nil {
				return err
			}
			lags[i] = groupLag
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return lags, nil
}
