package lag

import (
	"context"

	"github.com/pkg/errors"
	"github.com/twmb/franz-go/pkg/kadm"
	"go.uber.org/zap"
)

// EndOffsets fetches the high water marks of exactly the given partitions. Partitions the brokers could not answer
// for are missing from the result. The request only fails if no broker answered at all. It is only bounded by ctx.
func (s *Service) EndOffsets(ctx context.Context, partitions []TopicPartition) (PartitionOffsets, error) {
	offsets := make(PartitionOffsets, len(partitions))
	if len(partitions) == 0 {
		return offsets, nil
	}

	topicSet := make(map[string]struct{})
	topics := make([]string, 0)
	for _, tp := range partitions {
		if _, exists := topicSet[tp.Topic]; exists {
			continue
		}
		topicSet[tp.Topic] = struct{}{}
		topics = append(topics, tp.Topic)
	}

	listedOffsets, err := s.admin.ListEndOffsets(ctx, topics...)
	if err != nil {
		var se *kadm.ShardErrors
		if !errors.As(err, &se) || se.AllFailed {
			return nil, newRequestError("list end offsets", "", err)
		}
		s.logger.Info("failed to list end offsets from some shards", zap.Int("failed_shards", len(se.Errs)))
		for _, shardErr := range se.Errs {
			s.logger.Warn("shard error for listing end offsets",
				zap.Int32("broker_id", shardErr.Broker.NodeID),
				zap.Error(shardErr.Err))
		}
	}

	for _, tp := range partitions {
		listed, exists := listedOffsets.Lookup(tp.Topic, tp.Partition)
		if !exists {
			continue
		}
		if listed.Err != nil {
			s.logger.Warn("failed to list end offset of partition",
				zap.String("topic_name", tp.Topic),
				zap.Int32("partition_id", tp.Partition),
				zap.Error(listed.Err))
			continue
		}
		offsets[tp] = listed.Offset
	}

	return offsets, nil
}
