package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/nbalance/core/metrics"
	"github.com/kilianp07/nbalance/core/model"
)

// Config holds the settings shared by every balance run of the CLI.
type Config struct {
	// Field is the default fertiliser policy; scenarios may override it.
	Field          model.FieldParams    `json:"field"`
	LossAccounting model.LossAccounting `json:"loss_accounting"`
	Logging        LoggingConfig        `json:"logging"`
	Metrics        metrics.Config       `json:"metrics"`
	// Workers bounds how many scenario files run at once.
	Workers int `json:"workers"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Field.Efficiency == 0 {
		c.Field.Efficiency = 1
	}
	if c.LossAccounting == "" {
		c.LossAccounting = model.LossAbsolute
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	c.Logging.SetDefaults()
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if err := c.Field.Validate(); err != nil {
		return err
	}
	switch c.LossAccounting {
	case model.LossAbsolute, model.LossRate:
	default:
		return fmt.Errorf("unknown loss_accounting %q", c.LossAccounting)
	}
	return c.Logging.Validate()
}

// Load reads the configuration file at path, applies K_ prefixed environment
// overrides (K_FIELD__TRIGGER=40 sets field.trigger) and validates the result.
// An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
