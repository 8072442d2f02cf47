package lag

import (
	"context"

	"go.uber.org/zap"
)

// listGroupIDs lists all consumer groups that pass the allow and ignore lists, sorted by name. If stableOnly is set
// the brokers are asked to only return Stable groups.
func (s *Service) listGroupIDs(ctx context.Context, stableOnly bool) ([]string, error) {
	var filterStates []string
	if stableOnly {
		filterStates = []string{StateStable}
	}

	listed, err := s.admin.ListGroups(ctx, filterStates...)
	if err != nil {
		return nil, newRequestError("list consumer groups", "", err)
	}

	allGroups := listed.Groups()
	groups := make([]string, 0, len(allGroups))
	for _, group := range allGroups {
		if !s.isGroupAllowed(group) {
			continue
		}
		groups = append(groups, group)
	}

	limit := s.cfg.ConsumerGroups.MaxScannedGroups
	if limit > 0 && len(groups) > limit {
		s.logger.Warn("number of consumer groups exceeds the configured scan limit",
			zap.Int("group_count", len(groups)),
			zap.Int("max_scanned_groups", limit))
		return nil, ErrGroupScanLimit
	}

	return groups, nil
}

// isGroupStable describes a single group and reports whether it is in the Stable state.
func (s *Service) isGroupStable(ctx context.Context, group string) (bool, error) {
	stableGroups, err := s.stableGroups(ctx, []string{group}, true)
	if err != nil {
		return false, err
	}

	return len(stableGroups) == 1, nil
}

// stableGroups describes the given groups in a single request and returns those in the Stable state, preserving the
// input order. With firstOnly set, at most one group is returned.
func (s *Service) stableGroups(ctx context.Context, groups []string, firstOnly bool) ([]string, error) {
	if len(groups) == 0 {
		return []string{}, nil
	}

	described, err := s.admin.DescribeGroups(ctx, groups...)
	if err != nil {
		return nil, newRequestError("describe consumer groups", "", err)
	}

	stable := make([]string, 0)
	for _, group := range groups {
		dg, exists := described[group]
		if !exists {
			s.logger.Debug("described consumer groups response does not contain group", zap.String("consumer_group", group))
			continue
		}
		if dg.Err != nil {
			return nil, newRequestError("describe consumer group", group, dg.Err)
		}
		if dg.State != StateStable {
			s.logger.Debug("skipping consumer group because it is not stable",
				zap.String("consumer_group", group),
				zap.String("state", dg.State))
			continue
		}

		stable = append(stable, group)
		if firstOnly {
			break
		}
	}

	return stable, nil
}
