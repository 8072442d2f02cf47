package kafka

import (
	"net"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/kmsg"
	"go.uber.org/zap"
)

// clientHooks log broker connection changes and record request metrics for every request the client issues.
type clientHooks struct {
	logger *zap.Logger
}

func newClientHooks(logger *zap.Logger) *clientHooks {
	return &clientHooks{
		logger: logger,
	}
}

func (c *clientHooks) OnBrokerConnect(meta kgo.BrokerMetadata, dialDur time.Duration, _ net.Conn, err error) {
	if err != nil {
		c.logger.Debug("kafka connection failed",
			zap.String("broker_host", meta.Host),
			zap.Int32("broker_id", meta.NodeID),
			zap.Error(err))
		return
	}
	c.logger.Debug("kafka connection succeeded",
		zap.String("broker_host", meta.Host),
		zap.Int32("broker_id", meta.NodeID),
		zap.Duration("dial_duration", dialDur))
}

func (c *clientHooks) OnBrokerDisconnect(meta kgo.BrokerMetadata, _ net.Conn) {
	c.logger.Debug("kafka broker disconnected",
		zap.String("broker_host", meta.Host),
		zap.Int32("broker_id", meta.NodeID))
}

// OnBrokerE2E is called once a request has been written and its response has been read (or failed to).
func (c *clientHooks) OnBrokerE2E(_ kgo.BrokerMetadata, key int16, e2e kgo.BrokerE2E) {
	request := kmsg.NameForKey(key)
	result := "success"
	if e2e.Err() != nil {
		result = "error"
	}
	requestsTotal.WithLabelValues(request, result).Inc()
	requestDuration.WithLabelValues(request).Observe(e2e.DurationE2E().Seconds())
}
