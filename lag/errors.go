package lag

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/twmb/franz-go/pkg/kerr"
)

var (
	// ErrBrokerRequest is matched by every error caused by a failed request to the Kafka cluster. It allows callers to
	// tell "the backlog is empty" apart from "the backlog could not be measured".
	ErrBrokerRequest = errors.New("kafka request failed")

	// ErrMissingEndOffset is returned if a group has committed offsets for a partition whose end offset could not be
	// retrieved. Retrying the same broker state won't help.
	ErrMissingEndOffset = errors.New("no end offset for committed partition")

	// ErrGroupScanLimit is returned if discovering groups would inspect more consumer groups than configured.
	ErrGroupScanLimit = errors.New("consumer group scan limit exceeded")
)

// RequestError describes a failed request to the Kafka cluster.
type RequestError struct {
	// Op is the request that failed, for example "list groups".
	Op string
	// Group is set if the request targeted a single consumer group.
	Group string
	Err   error
}

func (e *RequestError) Error() string {
	if e.Group != "" {
		return fmt.Sprintf("failed to %v for group '%v': %v", e.Op, e.Group, e.Err)
	}
	return fmt.Sprintf("failed to %v: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func (e *RequestError) Is(target error) bool {
	return target == ErrBrokerRequest
}

// Retriable reports whether the underlying Kafka error is marked as retriable, e.g. a coordinator that is loading.
func (e *RequestError) Retriable() bool {
	return kerr.IsRetriable(e.Err)
}

// MissingEndOffsetError names the partition whose end offset is missing.
type MissingEndOffsetError struct {
	Group string
	TopicPartition
}

func (e *MissingEndOffsetError) Error() string {
	return fmt.Sprintf("group '%v' committed an offset on topic '%v' partition %d, but no end offset is known for it",
		e.Group, e.Topic, e.Partition)
}

func (e *MissingEndOffsetError) Is(target error) bool {
	return target == ErrMissingEndOffset
}

func newRequestError(op, group string, err error) error {
	return &RequestError{Op: op, Group: group, Err: err}
}
