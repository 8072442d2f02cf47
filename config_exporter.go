package main

import (
	"fmt"
)

type ExporterConfig struct {
	Host string `koanf:"host"`
	// Port of the HTTP server serving /metrics and /ready. 0 disables the server.
	Port int `koanf:"port"`
}

func (c *ExporterConfig) SetDefaults() {
	c.Port = 8080
}

func (c *ExporterConfig) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535, given: %d", c.Port)
	}

	return nil
}
