package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/cloudhut/targetlag/kafka"
	"github.com/cloudhut/targetlag/lag"
	"github.com/cloudhut/targetlag/logging"
)

type Config struct {
	Kafka    kafka.Config   `koanf:"kafka"`
	Lag      lag.Config     `koanf:"lag"`
	Runner   RunnerConfig   `koanf:"runner"`
	Exporter ExporterConfig `koanf:"exporter"`
	Logger   logging.Config `koanf:"logger"`
}

func (c *Config) SetDefaults() {
	c.Kafka.SetDefaults()
	c.Lag.SetDefaults()
	c.Runner.SetDefaults()
	c.Exporter.SetDefaults()
	c.Logger.SetDefaults()
}

func (c *Config) Validate() error {
	err := c.Kafka.Validate()
	if err != nil {
		return fmt.Errorf("failed to validate kafka config: %w", err)
	}

	err = c.Lag.Validate()
	if err != nil {
		return fmt.Errorf("failed to validate lag config: %w", err)
	}

	err = c.Runner.Validate()
	if err != nil {
		return fmt.Errorf("failed to validate runner config: %w", err)
	}

	err = c.Exporter.Validate()
	if err != nil {
		return fmt.Errorf("failed to validate exporter config: %w", err)
	}

	err = c.Logger.Validate()
	if err != nil {
		return fmt.Errorf("failed to validate logger config: %w", err)
	}

	return nil
}

func newConfig(logger *zap.Logger) (Config, error) {
	k := koanf.New(".")
	var cfg Config
	cfg.SetDefaults()

	// 1. Check if a config filepath is set via env. If there is one we'll try to load the file using a YAML Parser
	envKey := "CONFIG_FILEPATH"
	configFilepath := os.Getenv(envKey)
	if configFilepath == "" {
		logger.Info("the env variable '" + envKey + "' is not set, therefore no YAML config will be loaded")
	} else {
		yamlCfg := koanf.New(".")
		err := yamlCfg.Load(file.Provider(configFilepath), yaml.Parser())
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse YAML config: %w", err)
		}

		// Env keys can only be lowercase, so YAML keys are lowercased too. Otherwise a camelCase YAML key and its env
		// override end up as two different keys and the decoder picks the YAML one.
		err = k.Load(confmap.Provider(lowercaseKeys(yamlCfg.All()), "."), nil)
		if err != nil {
			return Config{}, fmt.Errorf("failed to load YAML config: %w", err)
		}
	}

	// The YAML config is unmarshalled with `ErrorUnused` so that typos in the file are reported. Environment
	// variables are unmarshalled without it, as orchestrators inject plenty of unrelated variables.
	err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag:       "",
		FlatPaths: false,
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc()),
			Metadata:         nil,
			Result:           &cfg,
			WeaklyTypedInput: true,
			ErrorUnused:      true,
		},
	})
	if err != nil {
		return Config{}, err
	}

	// 2. Environment variables, e.g. RUNNER_TOPICS=orders,payments for runner.topics
	err = k.Load(env.ProviderWithValue("", ".", func(s string, v string) (string, interface{}) {
		key := strings.ReplaceAll(strings.ToLower(s), "_", ".")
		// If there is a comma in the value, split the value into a slice by the comma.
		if strings.Contains(v, ",") {
			return key, strings.Split(v, ",")
		}

		return key, v
	}), nil)
	if err != nil {
		return Config{}, err
	}

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return Config{}, err
	}

	err = cfg.Validate()
	if err != nil {
		return Config{}, fmt.Errorf("failed to validate config: %w", err)
	}

	return cfg, nil
}

// lowercaseKeys lowercases the keys of a flattened config map. Struct fields are matched case insensitively.
func lowercaseKeys(flat map[string]interface{}) map[string]interface{} {
	lowered := make(map[string]interface{}, len(flat))
	for key, val := range flat {
		lowered[strings.ToLower(key)] = val
	}

	return lowered
}
