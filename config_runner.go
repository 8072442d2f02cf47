package main

import (
	"fmt"
	"time"
)

const (
	// StrategyAny measures one arbitrary Stable group per topic.
	StrategyAny = "any"
	// StrategyLeast measures all Stable groups of a topic and reports the smallest lag.
	StrategyLeast = "least"
)

type RunnerConfig struct {
	Topics   []string      `koanf:"topics"`
	Strategy string        `koanf:"strategy"`
	Interval time.Duration `koanf:"interval"`
}

func (c *RunnerConfig) SetDefaults() {
	c.Strategy = StrategyLeast
	c.Interval = 30 * time.Second
}

func (c *RunnerConfig) Validate() error {
	if len(c.Topics) == 0 {
		return fmt.Errorf("no topics specified, at least one topic must be configured")
	}
	for _, topic := range c.Topics {
		if topic == "" {
			return fmt.Errorf("topic names must not be empty")
		}
	}

	switch c.Strategy {
	case StrategyAny, StrategyLeast:
	default:
		return fmt.Errorf("invalid strategy '%v', valid strategies are '%v' or '%v'", c.Strategy, StrategyAny, StrategyLeast)
	}

	if c.Interval < 0 {
		return fmt.Errorf("interval must not be negative, given: %v", c.Interval)
	}

	return nil
}
