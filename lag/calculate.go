package lag

// ClampedLag returns the number of messages between the committed offset and the end offset. Committed offsets
// beyond the end offset (retention, compaction or reads at slightly different moments) count as no lag.
func ClampedLag(endOffset, committedOffset int64) int64 {
	lag := endOffset - committedOffset
	if lag < 0 {
		return 0
	}
	return lag
}

// CalculateLag sums the lag over exactly the partitions in committed. Every committed partition must have an end
// offset, otherwise a *MissingEndOffsetError is returned.
func CalculateLag(group string, committed, end PartitionOffsets) (GroupLag, error) {
	groupLag := GroupLag{
		Group:      group,
		Partitions: make([]PartitionLag, 0, len(committed)),
	}

	for _, tp := range committed.Partitions() {
		committedOffset := committed[tp]
		endOffset, exists := end[tp]
		if !exists {
			return GroupLag{}, &MissingEndOffsetError{Group: group, TopicPartition: tp}
		}

		lag := ClampedLag(endOffset, committedOffset)
		groupLag.Lag += lag
		groupLag.Partitions = append(groupLag.Partitions, PartitionLag{
			TopicPartition:  tp,
			CommittedOffset: committedOffset,
			EndOffset:       endOffset,
			Lag:             lag,
		})
	}

	return groupLag, nil
}

// LeastLag returns the group with the smallest total lag. On ties the earlier group in lags wins. ok is false if lags
// is empty.
func LeastLag(lags []GroupLag) (least GroupLag, ok bool) {
	for i, groupLag := range lags {
		if i == 0 || groupLag.Lag < least.Lag {
			least = groupLag
		}
	}

	return least, len(lags) > 0
}
