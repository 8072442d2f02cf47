package kafka

import "fmt"

// TLSConfig to connect to Kafka via TLS. Certificates can either be passed as file paths or inline as PEM strings.
type TLSConfig struct {
	Enabled               bool   `koanf:"enabled"`
	CaFilepath            string `koanf:"caFilepath"`
	CertFilepath          string `koanf:"certFilepath"`
	KeyFilepath           string `koanf:"keyFilepath"`
	Ca                    string `koanf:"ca"`
	Cert                  string `koanf:"cert"`
	Key                   string `koanf:"key"`
	Passphrase            string `koanf:"passphrase"`
	InsecureSkipTLSVerify bool   `koanf:"insecureSkipTlsVerify"`
}

func (c *TLSConfig) SetDefaults() {
	c.Enabled = false
}

func (c *TLSConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.CaFilepath != "" && c.Ca != "" {
		return fmt.Errorf("config keys 'caFilepath' and 'ca' are both set. only one can be used at the same time")
	}
	if c.CertFilepath != "" && c.Cert != "" {
		return fmt.Errorf("config keys 'certFilepath' and 'cert' are both set. only one can be used at the same time")
	}
	if c.KeyFilepath != "" && c.Key != "" {
		return fmt.Errorf("config keys 'keyFilepath' and 'key' are both set. only one can be used at the same time")
	}

	hasCert := c.CertFilepath != "" || c.Cert != ""
	hasKey := c.KeyFilepath != "" || c.Key != ""
	if hasCert != hasKey {
		return fmt.Errorf("mutual TLS requires both a client certificate and a key")
	}

	return nil
}
