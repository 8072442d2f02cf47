package kafka

import (
	"context"
	"fmt"
	"strings"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/kmsg"
	"github.com/twmb/franz-go/pkg/kversion"
	"go.uber.org/zap"
)

// Service owns the long-lived Kafka client. The client is safe for concurrent use and is shared by all lag queries.
type Service struct {
	cfg    Config
	Client *kgo.Client
	Admin  *kadm.Client
	logger *zap.Logger
}

// NewService creates the Kafka client. Additional opts are appended after the options derived from cfg and
// therefore take precedence.
func NewService(cfg Config, logger *zap.Logger, opts ...kgo.Opt) (*Service, error) {
	hooksChildLogger := logger.With(zap.String("source", "kafka_client_hooks"))
	clientHooks := newClientHooks(hooksChildLogger)

	kgoOpts, err := NewKgoConfig(cfg, logger, clientHooks)
	if err != nil {
		return nil, fmt.Errorf("failed to create a valid kafka Client config: %w", err)
	}
	kgoOpts = append(kgoOpts, opts...)

	kafkaClient, err := kgo.NewClient(kgoOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka Client: %w", err)
	}

	return &Service{
		cfg:    cfg,
		Client: kafkaClient,
		Admin:  kadm.NewClient(kafkaClient),
		logger: logger,
	}, nil
}

// TestConnection tries to fetch Broker metadata and prints some information if connection succeeds. An error will be
// returned if connecting fails.
func (s *Service) TestConnection(ctx context.Context) error {
	s.logger.Info("connecting to Kafka seed brokers, trying to fetch cluster metadata",
		zap.String("seed_brokers", strings.Join(s.cfg.Brokers, ",")))

	req := kmsg.NewMetadataRequest()
	req.Topics = nil
	res, err := req.RequestWith(ctx, s.Client)
	if err != nil {
		return fmt.Errorf("failed to request metadata: %w", err)
	}

	// Request versions in order to guess Kafka Cluster version
	versionsReq := kmsg.NewApiVersionsRequest()
	versionsReq.ClientSoftwareName = "targetlag"
	versionsReq.ClientSoftwareVersion = "v1"
	versionsRes, err := versionsReq.RequestWith(ctx, s.Client)
	if err != nil {
		return fmt.Errorf("failed to request api versions: %w", err)
	}
	err = kerr.ErrorForCode(versionsRes.ErrorCode)
	if err != nil {
		return fmt.Errorf("failed to request api versions. Inner kafka error: %w", err)
	}
	versions := kversion.FromApiVersionsResponse(versionsRes)

	// Listing groups by state requires ListGroups v4 (Kafka 2.6+). Older brokers ignore the filter.
	listGroups := kmsg.NewListGroupsRequest()
	maxListGroups, supported := versions.LookupMaxKeyVersion(listGroups.Key())
	if !supported {
		return fmt.Errorf("the kafka cluster does not support listing consumer groups")
	}
	if maxListGroups < 4 {
		s.logger.Warn("your Kafka cluster does not support filtering consumer groups by state, " +
			"all consumer groups will be inspected for each lag query")
	}

	s.logger.Info("successfully connected to kafka cluster",
		zap.Int("advertised_broker_count", len(res.Brokers)),
		zap.Int("topic_count", len(res.Topics)),
		zap.Int32("controller_id", res.ControllerID),
		zap.String("kafka_version", versions.VersionGuess()))

	return nil
}

// Close closes the underlying Kafka client and all its broker connections.
func (s *Service) Close() {
	s.Client.Close()
}
