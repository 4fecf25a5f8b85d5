package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/aretw0/loamenum"
)

// Config is the CLI configuration merged from defaults, loamenum.yaml,
// LOAMENUM_* environment variables and flags, in increasing priority.
type Config struct {
	Vault   string `mapstructure:"vault"`
	Adapter string `mapstructure:"adapter"`
	Schema  string `mapstructure:"schema"`
	Listen  string `mapstructure:"listen"`
	Trace   bool   `mapstructure:"trace"`
	Table   string `mapstructure:"table"`
}

var adapters = map[string]bool{"fs": true, "sqlite": true, "memory": true}

func loadConfig(file string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("vault", ".")
	v.SetDefault("adapter", "fs")
	v.SetDefault("schema", "loamenum.schema.yaml")
	v.SetDefault("listen", "127.0.0.1:8080")
	v.SetDefault("trace", false)
	v.SetDefault("table", "documents")

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("loamenum")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if wd, err := os.Getwd(); err == nil {
			if root, err := loamenum.FindRoot(wd); err == nil {
				v.AddConfigPath(root)
			}
		}
	}

	v.SetEnvPrefix("LOAMENUM")
	v.AutomaticEnv()

	for _, name := range []string{"vault", "adapter", "schema", "listen", "trace"} {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(name, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if !adapters[c.Adapter] {
		return fmt.Errorf("adapter must be one of fs, sqlite, memory, got: %s", c.Adapter)
	}
	if c.Schema == "" {
		return errors.New("schema is required")
	}
	return nil
}
