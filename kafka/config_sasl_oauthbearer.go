package kafka

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

type OAuthBearerConfig struct {
	TokenEndpoint string `koanf:"tokenEndpoint"`
	ClientID      string `koanf:"clientId"`
	ClientSecret  string `koanf:"clientSecret"`
	Scope         string `koanf:"scope"`
}

func (c *OAuthBearerConfig) Validate() error {
	if c.TokenEndpoint == "" {
		return fmt.Errorf("OAuthBearer token endpoint is not specified")
	}
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("OAuthBearer client credentials are not specified")
	}
	return nil
}

// tokenSource returns a client credentials token source. Tokens are reused until they expire, so the returned source
// must be kept for the lifetime of the Kafka client.
func (c *OAuthBearerConfig) tokenSource() oauth2.TokenSource {
	ccCfg := clientcredentials.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     c.TokenEndpoint,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	if c.Scope != "" {
		ccCfg.Scopes = strings.Split(c.Scope, " ")
	}

	return ccCfg.TokenSource(context.Background())
}
