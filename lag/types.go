package lag

import (
	"sort"
)

// StateStable is the consumer group state of a group whose members are assigned and not rebalancing.
const StateStable = "Stable"

// TopicPartition identifies a single partition of a topic.
type TopicPartition struct {
	Topic     string
	Partition int32
}

// PartitionOffsets maps partitions to offsets. It is used for both committed group offsets and partition end offsets.
type PartitionOffsets map[TopicPartition]int64

// Partitions returns the partitions of the map sorted by topic and partition id.
func (o PartitionOffsets) Partitions() []TopicPartition {
	partitions := make([]TopicPartition, 0, len(o))
	for tp := range o {
		partitions = append(partitions, tp)
	}
	sort.Slice(partitions, func(i, j int) bool {
		if partitions[i].Topic != partitions[j].Topic {
			return partitions[i].Topic < partitions[j].Topic
		}
		return partitions[i].Partition < partitions[j].Partition
	})

	return partitions
}

// Topics returns the distinct, sorted topic names of all partitions in the map.
func (o PartitionOffsets) Topics() []string {
	seen := make(map[string]struct{})
	for tp := range o {
		seen[tp.Topic] = struct{}{}
	}
	topics := make([]string, 0, len(seen))
	for topic := range seen {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	return topics
}

// HasTopic reports whether any partition in the map belongs to the given topic.
func (o PartitionOffsets) HasTopic(topic string) bool {
	for tp := range o {
		if tp.Topic == topic {
			return true
		}
	}
	return false
}

// PartitionLag is the lag of a single partition for one consumer group.
type PartitionLag struct {
	TopicPartition
	CommittedOffset int64
	EndOffset       int64
	Lag             int64
}

// GroupLag is the lag of one consumer group summed over all partitions the group has committed offsets for.
// It is derived on every query and never stored.
type GroupLag struct {
	Group      string
	Lag        int64
	Partitions []PartitionLag
}
