package model

import (
	"errors"
	"testing"
	"time"
)

func validConfig() Config {
	est := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	return Config{
		Current:   CropPeriod{EstablishDate: est, HarvestDate: est.AddDate(0, 3, 0)},
		Following: CropPeriod{EstablishDate: est.AddDate(0, 3, 1), HarvestDate: est.AddDate(0, 7, 0)},
		Field:     FieldParams{Trigger: 30, Efficiency: 0.8, Splits: 2},
	}
}

func TestConfigDefaults(t *testing.T) {
	c := validConfig()
	c.Following = CropPeriod{}
	c.SetDefaults()
	if c.LossAccounting != LossAbsolute {
		t.Fatalf("expected absolute accounting, got %q", c.LossAccounting)
	}
	if !c.Following.HarvestDate.Equal(c.Current.HarvestDate) {
		t.Fatalf("following period should default to current")
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestConfigValidateRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"zero efficiency":   func(c *Config) { c.Field.Efficiency = 0 },
		"efficiency above":  func(c *Config) { c.Field.Efficiency = 1.2 },
		"negative splits":   func(c *Config) { c.Field.Splits = -1 },
		"negative trigger":  func(c *Config) { c.Field.Trigger = -5 },
		"missing harvest":   func(c *Config) { c.Current.HarvestDate = time.Time{} },
		"harvest first":     func(c *Config) { c.Current.HarvestDate = c.Current.EstablishDate.AddDate(0, 0, -1) },
		"following earlier": func(c *Config) { c.Following.HarvestDate = c.Current.HarvestDate.AddDate(0, 0, -1) },
		"unknown loss mode": func(c *Config) { c.LossAccounting = "percent" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := validConfig()
			c.SetDefaults()
			mutate(&c)
			if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestConfigValidateAcceptsFullEfficiency(t *testing.T) {
	c := validConfig()
	c.Field.Efficiency = 1
	c.Field.Splits = 0
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}
