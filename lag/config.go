package lag

import (
	"fmt"
)

type Config struct {
	ConsumerGroups ConsumerGroupConfig `koanf:"consumerGroups"`
}

func (c *Config) SetDefaults() {
	c.ConsumerGroups.SetDefaults()
}

func (c *Config) Validate() error {
	err := c.ConsumerGroups.Validate()
	if err != nil {
		return fmt.Errorf("failed to validate consumer group config: %w", err)
	}

	return nil
}
