package lag

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kadm"
	"go.uber.org/zap"
)

// fakeAdmin is an in memory AdminClient. Group offsets and end offsets are keyed by topic and partition.
type fakeAdmin struct {
	mu sync.Mutex

	states     map[string]string
	committed  map[string]map[string]map[int32]int64
	endOffsets map[string]map[int32]int64

	listErr     error
	describeErr error
	fetchErr    error
	// endErr is returned together with the end offsets that are known
	endErr error

	groupErrs     map[string]error
	committedErrs map[TopicPartition]error
	endErrs       map[TopicPartition]error

	// listStarted receives a value whenever ListGroups is called. ListGroups then waits until listRelease is
	// closed or its ctx is done.
	listStarted chan struct{}
	listRelease chan struct{}

	listFilters [][]string
	calls       map[string]int
}

func newFakeAdmin() *fakeAdmin {
	return &fakeAdmin{
		states:        make(map[string]string),
		committed:     make(map[string]map[string]map[int32]int64),
		endOffsets:    make(map[string]map[int32]int64),
		groupErrs:     make(map[string]error),
		committedErrs: make(map[TopicPartition]error),
		endErrs:       make(map[TopicPartition]error),
		calls:         make(map[string]int),
	}
}

func (f *fakeAdmin) addGroup(group, state string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[group] = state
}

func (f *fakeAdmin) setState(group, state string) {
	f.addGroup(group, state)
}

func (f *fakeAdmin) commit(group, topic string, partition int32, offset int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.committed[group] == nil {
		f.committed[group] = make(map[string]map[int32]int64)
	}
	if f.committed[group][topic] == nil {
		f.committed[group][topic] = make(map[int32]int64)
	}
	f.committed[group][topic][partition] = offset
}

func (f *fakeAdmin) setEnd(topic string, partition int32, offset int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.endOffsets[topic] == nil {
		f.endOffsets[topic] = make(map[int32]int64)
	}
	f.endOffsets[topic][partition] = offset
}

func (f *fakeAdmin) deleteEnd(topic string, partition int32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.endOffsets[topic], partition)
}

// blockListing makes ListGroups wait until the returned release func is called.
func (f *fakeAdmin) blockListing() (started <-chan struct{}, release func()) {
	f.listStarted = make(chan struct{}, 16)
	f.listRelease = make(chan struct{})
	var once sync.Once
	return f.listStarted, func() { once.Do(func() { close(f.listRelease) }) }
}

func (f *fakeAdmin) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAdmin) ListGroups(ctx context.Context, filterStates ...string) (kadm.ListedGroups, error) {
	if f.listRelease != nil {
		f.listStarted <- struct{}{}
		select {
		case <-f.listRelease:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["ListGroups"]++
	f.listFilters = append(f.listFilters, filterStates)
	if f.listErr != nil {
		return nil, f.listErr
	}

	listed := make(kadm.ListedGroups)
	for group, state := range f.states {
		if len(filterStates) > 0 && !contains(filterStates, state) {
			continue
		}
		listed[group] = kadm.ListedGroup{Group: group, State: state, ProtocolType: "consumer"}
	}
	return listed, nil
}

func (f *fakeAdmin) DescribeGroups(_ context.Context, groups ...string) (kadm.DescribedGroups, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["DescribeGroups"]++
	if f.describeErr != nil {
		return nil, f.describeErr
	}

	described := make(kadm.DescribedGroups)
	for _, group := range groups {
		state, exists := f.states[group]
		if !exists {
			state = "Dead"
		}
		described[group] = kadm.DescribedGroup{Group: group, State: state, ProtocolType: "consumer", Err: f.groupErrs[group]}
	}
	return described, nil
}

func (f *fakeAdmin) FetchOffsets(_ context.Context, group string) (kadm.OffsetResponses, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["FetchOffsets"]++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}

	res := make(kadm.OffsetResponses)
	for topic, partitions := range f.committed[group] {
		res[topic] = make(map[int32]kadm.OffsetResponse)
		for partition, offset := range partitions {
			res[topic][partition] = kadm.OffsetResponse{
				Offset: kadm.Offset{Topic: topic, Partition: partition, At: offset, LeaderEpoch: -1},
				Err:    f.committedErrs[TopicPartition{Topic: topic, Partition: partition}],
			}
		}
	}
	return res, nil
}

func (f *fakeAdmin) ListEndOffsets(_ context.Context, topics ...string) (kadm.ListedOffsets, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["ListEndOffsets"]++

	listed := make(kadm.ListedOffsets)
	for _, topic := range topics {
		for partition, offset := range f.endOffsets[topic] {
			if listed[topic] == nil {
				listed[topic] = make(map[int32]kadm.ListedOffset)
			}
			listed[topic][partition] = kadm.ListedOffset{
				Topic:       topic,
				Partition:   partition,
				Offset:      offset,
				LeaderEpoch: -1,
				Err:         f.endErrs[TopicPartition{Topic: topic, Partition: partition}],
			}
		}
	}
	return listed, f.endErr
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func defaultConfig() Config {
	var cfg Config
	cfg.SetDefaults()
	return cfg
}

func newTestService(t *testing.T, cfg Config, admin AdminClient) *Service {
	t.Helper()
	svc, err := NewService(cfg, zap.NewNop(), admin)
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	return svc
}

// ordersScenario sets up the topic "orders" with P0 (end=100) and P1 (end=50).
func ordersScenario() *fakeAdmin {
	admin := newFakeAdmin()
	admin.setEnd("orders", 0, 100)
	admin.setEnd("orders", 1, 50)
	return admin
}
