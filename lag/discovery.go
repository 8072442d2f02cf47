package lag

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const (
	operationFindActiveGroup  = "find_active_group"
	operationListActiveGroups = "list_active_groups"
)

// FindActiveGroup returns one Stable consumer group that has committed offsets for the topic. Which group is returned
// if several qualify is not part of the contract. found is false if no group qualifies.
func (s *Service) FindActiveGroup(ctx context.Context, topic string) (group string, found bool, err error) {
	ctx, q := s.startQuery(ctx, operationFindActiveGroup, zap.String("topic_name", topic))
	defer func() { q.finish(err) }()

	return s.findActiveGroup(ctx, topic)
}

// ListActiveGroups returns all Stable consumer groups that have committed offsets for the topic. The result is empty
// if no group qualifies.
func (s *Service) ListActiveGroups(ctx context.Context, topic string) (groups []string, err error) {
	ctx, q := s.startQuery(ctx, operationListActiveGroups, zap.String("topic_name", topic))
	defer func() { q.finish(err) }()

	return s.activeGroups(ctx, topic, false)
}

func (s *Service) findActiveGroup(ctx context.Context, topic string) (string, bool, error) {
	groups, err := s.activeGroups(ctx, topic, true)
	if err != nil {
		return "", false, err
	}
	if len(groups) == 0 {
		return "", false, nil
	}

	return groups[0], true, nil
}

func (s *Service) activeGroups(ctx context.Context, topic string, firstOnly bool) ([]string, error) {
	if s.subscriptions != nil {
		subscribers, err := s.subscribedGroupsCached(ctx, topic)
		if err != nil {
			return nil, err
		}
		return s.stableGroups(ctx, subscribers, firstOnly)
	}

	key := fmt.Sprintf("active-groups-%v-%v", topic, firstOnly)
	res, err := s.sharedScan(ctx, key, func(scanCtx context.Context) (interface{}, error) {
		return s.scanActiveGroups(scanCtx, topic, firstOnly)
	})
	if err != nil {
		return nil, err
	}

	// The slice may be shared with concurrent callers
	shared := res.([]string)
	groups := make([]string, len(shared))
	copy(groups, shared)

	return groups, nil
}

// sharedScan runs scan once for all concurrent callers of the same key. The scan does not stop when the caller that
// started it goes away, it is only bounded by the configured request timeout. Each caller stops waiting as soon as
// its own ctx is done.
func (s *Service) sharedScan(ctx context.Context, key string, scan func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	resCh := s.requestGroup.DoChan(key, func() (interface{}, error) {
		scanCtx := context.WithoutCancel(ctx)
		if s.cfg.ConsumerGroups.RequestTimeout > 0 {
			var cancel context.CancelFunc
			scanCtx, cancel = context.WithTimeout(scanCtx, s.cfg.ConsumerGroups.RequestTimeout)
			defer cancel()
		}
		return scan(scanCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resCh:
		if res.Err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return res.Val, res.Err
	}
}

// scanActiveGroups walks all listed groups, checks whether each committed offsets for the topic and describes the
// matching ones. The number of requests grows with the number of groups in the cluster.
func (s *Service) scanActiveGroups(ctx context.Context, topic string, firstOnly bool) ([]string, error) {
	groups, err := s.listGroupIDs(ctx, s.cfg.ConsumerGroups.StableStateFilter)
	if err != nil {
		return nil, err
	}

	active := make([]string, 0)
	for _, group := range groups {
		scannedGroupsTotal.Inc()
		offsets, err := s.CommittedOffsets(ctx, group)
		if err != nil {
			return nil, err
		}
		if !offsets.HasTopic(topic) {
			continue
		}

		isStable, err := s.isGroupStable(ctx, group)
		if err != nil {
			return nil, err
		}
		if !isStable {
			continue
		}

		active = append(active, group)
		if firstOnly {
			break
		}
	}

	s.logger.Debug("scanned consumer groups for topic subscribers",
		zap.String("topic_name", topic),
		zap.Int("listed_groups", len(groups)),
		zap.Strings("active_groups", active))

	return active, nil
}

// subscribedGroupsCached returns all groups that committed offsets for the topic, regardless of their state.
// On a cache miss all groups are scanned once and the subscribers of every topic seen are cached.
func (s *Service) subscribedGroupsCached(ctx context.Context, topic string) ([]string, error) {
	if groups, exists := s.subscriptions.get(topic); exists {
		return groups, nil
	}

	res, err := s.sharedScan(ctx, "subscriptions", func(scanCtx context.Context) (interface{}, error) {
		index, err := s.scanSubscriptions(scanCtx)
		if err != nil {
			return nil, err
		}
		for t, groups := range index {
			s.subscriptions.set(t, groups)
		}
		return index, nil
	})
	if err != nil {
		return nil, err
	}

	index := res.(map[string][]string)
	groups, exists := index[topic]
	if !exists {
		// Remember that nobody consumes this topic so that the next query doesn't scan again
		groups = []string{}
		s.subscriptions.set(topic, groups)
	}

	return groups, nil
}

// scanSubscriptions builds an index from topic to the groups that committed offsets for it. All groups are listed,
// regardless of their state, as the index outlives the current group states.
func (s *Service) scanSubscriptions(ctx context.Context) (map[string][]string, error) {
	groups, err := s.listGroupIDs(ctx, false)
	if err != nil {
		return nil, err
	}

	index := make(map[string][]string)
	for _, group := range groups {
		scannedGroupsTotal.Inc()
		offsets, err := s.CommittedOffsets(ctx, group)
		if err != nil {
			return nil, err
		}
		for _, topic := range offsets.Topics() {
			index[topic] = append(index[topic], group)
		}
	}

	s.logger.Debug("refreshed topic subscriptions",
		zap.Int("listed_groups", len(groups)),
		zap.Int("subscribed_topics", len(index)))

	return index, nil
}
