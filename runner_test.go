package main

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cloudhut/targetlag/lag"
)

type fakeMeasurer struct {
	mu    sync.Mutex
	calls int

	lags     map[string]lag.GroupLag
	errs     map[string]error
	onCalled func(calls int)
}

func (f *fakeMeasurer) called() {
	f.mu.Lock()
	f.calls++
	calls := f.calls
	f.mu.Unlock()

	if f.onCalled != nil {
		f.onCalled(calls)
	}
}

func (f *fakeMeasurer) AnyActiveGroupLag(_ context.Context, topic string) (int64, error) {
	f.called()
	if err := f.errs[topic]; err != nil {
		return 0, err
	}
	return f.lags[topic].Lag, nil
}

func (f *fakeMeasurer) LeastActiveGroup(_ context.Context, topic string) (lag.GroupLag, bool, error) {
	f.called()
	if err := f.errs[topic]; err != nil {
		return lag.GroupLag{}, false, err
	}
	groupLag, found := f.lags[topic]
	return groupLag, found, nil
}

func newObservedRunner(cfg RunnerConfig, measurer lagMeasurer) (*runner, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return newRunner(cfg, zap.New(core), measurer), logs
}

func TestRunner_Once(t *testing.T) {
	measurer := &fakeMeasurer{
		lags: map[string]lag.GroupLag{
			"orders": {Group: "orders-service", Lag: 20},
		},
		errs: map[string]error{
			"payments": errors.Wrap(lag.ErrBrokerRequest, "coordinator not available"),
		},
	}
	cfg := RunnerConfig{Topics: []string{"orders", "payments", "audit"}, Strategy: StrategyLeast}
	r, logs := newObservedRunner(cfg, measurer)
	assert.False(t, r.IsReady())

	err := r.Start(context.Background())
	require.Error(t, err)
	assert.True(t, r.IsReady())

	measured := logs.FilterMessage("measured topic lag").All()
	require.Len(t, measured, 1)
	assert.Equal(t, "orders", measured[0].ContextMap()["topic_name"])
	assert.Equal(t, "orders-service", measured[0].ContextMap()["consumer_group"])
	assert.Equal(t, int64(20), measured[0].ContextMap()["lag"])

	assert.Equal(t, 1, logs.FilterMessage("measured topic lag, no active consumer group found").Len())

	failed := logs.FilterMessage("failed to measure topic lag").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.ErrorLevel, failed[0].Level)
	assert.Equal(t, "payments", failed[0].ContextMap()["topic_name"])
	assert.NotContains(t, failed[0].ContextMap(), "lag")
}

func TestRunner_AnyStrategy(t *testing.T) {
	measurer := &fakeMeasurer{lags: map[string]lag.GroupLag{"orders": {Lag: 7}}}
	cfg := RunnerConfig{Topics: []string{"orders"}, Strategy: StrategyAny}
	r, logs := newObservedRunner(cfg, measurer)

	require.NoError(t, r.Start(context.Background()))

	measured := logs.FilterMessage("measured topic lag").All()
	require.Len(t, measured, 1)
	assert.Equal(t, int64(7), measured[0].ContextMap()["lag"])
	assert.Equal(t, StrategyAny, measured[0].ContextMap()["strategy"])
}

func TestRunner_Interval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	measurer := &fakeMeasurer{
		lags: map[string]lag.GroupLag{"orders": {Lag: 1}},
		onCalled: func(calls int) {
			if calls >= 3 {
				cancel()
			}
		},
	}
	cfg := RunnerConfig{Topics: []string{"orders"}, Strategy: StrategyAny, Interval: time.Millisecond}
	r, _ := newObservedRunner(cfg, measurer)

	done := make(chan error, 1)
	go func() { done <- r.Start(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("runner did not stop after the context was cancelled")
	}
	assert.True(t, r.IsReady())
	assert.GreaterOrEqual(t, measurer.calls, 3)
}
