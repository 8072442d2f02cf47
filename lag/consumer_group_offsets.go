package lag

import (
	"context"

	"github.com/twmb/franz-go/pkg/kadm"
)

// CommittedOffsets returns the last committed offset of each partition the group has committed offsets for.
// Partitions without a committed offset are not part of the result. It issues a single request that is only bounded
// by ctx.
func (s *Service) CommittedOffsets(ctx context.Context, group string) (PartitionOffsets, error) {
	res, err := s.admin.FetchOffsets(ctx, group)
	if err != nil {
		return nil, newRequestError("fetch committed offsets", group, err)
	}
	err = res.Error()
	if err != nil {
		return nil, newRequestError("fetch committed offsets", group, err)
	}

	offsets := make(PartitionOffsets)
	res.Each(func(o kadm.OffsetResponse) {
		if o.At < 0 {
			return
		}
		offsets[TopicPartition{Topic: o.Topic, Partition: o.Partition}] = o.At
	})

	return offsets, nil
}
