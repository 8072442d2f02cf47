package lag

import (
	"fmt"
	"time"
)

type ConsumerGroupConfig struct {
	// AllowedGroups are regex strings of group ids that may be considered as consumers of a topic.
	AllowedGroupIDs []string `koanf:"allowedGroups"`

	// IgnoredGroups are regex strings of group ids that shall never be considered. Ignored groups
	// take precedence over allowed groups.
	IgnoredGroupIDs []string `koanf:"ignoredGroups"`

	// StableStateFilter asks the brokers to only list groups in the Stable state. This requires Kafka 2.6+, older
	// brokers return all groups and the state is checked when describing the group.
	StableStateFilter bool `koanf:"stableStateFilter"`

	// MaxScannedGroups bounds how many consumer groups a single discovery may inspect. 0 means unlimited.
	MaxScannedGroups int `koanf:"maxScannedGroups"`

	// SubscriptionCacheTTL is how long the set of groups that committed offsets for a topic is remembered. Group
	// states are never cached. 0 disables the cache and every query scans all groups.
	SubscriptionCacheTTL time.Duration `koanf:"subscriptionCacheTtl"`

	// MeasureConcurrency is the number of groups whose lag is measured in parallel when all active groups
	// of a topic are measured.
	MeasureConcurrency int `koanf:"measureConcurrency"`

	// RequestTimeout bounds a whole lag query. 0 means the query only ends with its context.
	RequestTimeout time.Duration `koanf:"requestTimeout"`
}

func (c *ConsumerGroupConfig) SetDefaults() {
	c.AllowedGroupIDs = []string{"/.*/"}
	c.StableStateFilter = true
	c.MeasureConcurrency = 1
}

func (c *ConsumerGroupConfig) Validate() error {
	// Check if all group strings are valid regex or literals
	for _, groupID := range c.AllowedGroupIDs {
		_, err := compileRegex(groupID)
		if err != nil {
			return fmt.Errorf("allowed group string '%v' is not valid regex", groupID)
		}
	}

	for _, groupID := range c.IgnoredGroupIDs {
		_, err := compileRegex(groupID)
		if err != nil {
			return fmt.Errorf("ignored group string '%v' is not valid regex", groupID)
		}
	}

	if c.MaxScannedGroups < 0 {
		return fmt.Errorf("maxScannedGroups must not be negative, given: %d", c.MaxScannedGroups)
	}
	if c.SubscriptionCacheTTL < 0 {
		return fmt.Errorf("subscriptionCacheTtl must not be negative, given: %v", c.SubscriptionCacheTTL)
	}
	if c.MeasureConcurrency < 1 {
		return fmt.Errorf("measureConcurrency must be at least 1, given: %d", c.MeasureConcurrency)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("requestTimeout must not be negative, given: %v", c.RequestTimeout)
	}

	return nil
}
