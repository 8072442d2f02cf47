package kafka

import "fmt"

const (
	GSSAPIAuthTypeUser   = "USER_AUTH"
	GSSAPIAuthTypeKeytab = "KEYTAB_AUTH"
)

// SASLGSSAPIConfig represents the Kafka Kerberos config
type SASLGSSAPIConfig struct {
	AuthType           string `koanf:"authType"`
	KeyTabPath         string `koanf:"keyTabPath"`
	KerberosConfigPath string `koanf:"kerberosConfigPath"`
	ServiceName        string `koanf:"serviceName"`
	Username           string `koanf:"username"`
	Password           string `koanf:"password"`
	Realm              string `koanf:"realm"`

	// EnableFast enables FAST, which is a pre-authentication framework for Kerberos.
	EnableFast bool `koanf:"enableFast"`
}

func (c *SASLGSSAPIConfig) SetDefaults() {
	c.AuthType = GSSAPIAuthTypeUser
	c.KerberosConfigPath = "/etc/krb5.conf"
	c.ServiceName = "kafka"
	c.EnableFast = true
}

func (c *SASLGSSAPIConfig) Validate() error {
	switch c.AuthType {
	case GSSAPIAuthTypeUser:
	case GSSAPIAuthTypeKeytab:
		if c.KeyTabPath == "" {
			return fmt.Errorf("kerberos auth type '%v' requires a keytab path", c.AuthType)
		}
	default:
		return fmt.Errorf("kerberos auth type must be one of %v or %v, given: '%v'",
			GSSAPIAuthTypeUser, GSSAPIAuthTypeKeytab, c.AuthType)
	}

	if c.Username == "" || c.Realm == "" {
		return fmt.Errorf("kerberos requires both a username and a realm")
	}

	return nil
}
