package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid balance config")

// CropPeriod bounds a crop in the rotation.
type CropPeriod struct {
	Name          string    `json:"name" yaml:"name"`
	EstablishDate time.Time `json:"establish_date" yaml:"establish_date"`
	HarvestDate   time.Time `json:"harvest_date" yaml:"harvest_date"`
}

// FieldParams holds the field-level fertiliser policy.
type FieldParams struct {
	Trigger    float64 `json:"trigger" yaml:"trigger"`       // kg N/ha soil N floor
	Efficiency float64 `json:"efficiency" yaml:"efficiency"` // fraction of applied N made available
	Splits     int     `json:"splits" yaml:"splits"`         // number of equal applications
}

// LossAccounting selects what is stored in the lost N series for
// applications that were recorded before the run.
type LossAccounting string

const (
	// LossAbsolute stores amount * (1 - efficiency).
	LossAbsolute LossAccounting = "absolute"
	// LossRate stores 1 - efficiency, as older rotation files expect.
	// Zero-amount entries are not applications and get no loss booking in
	// either mode.
	LossRate LossAccounting = "rate"
)

// Config is the balance configuration for one crop in the rotation.
type Config struct {
	Current        CropPeriod     `json:"current" yaml:"current"`
	Following      CropPeriod     `json:"following" yaml:"following"`
	Field          FieldParams    `json:"field" yaml:"field"`
	LossAccounting LossAccounting `json:"loss_accounting" yaml:"loss_accounting"`
}

// SetDefaults fills unset optional fields.
func (c *Config) SetDefaults() {
	if c.LossAccounting == "" {
		c.LossAccounting = LossAbsolute
	}
	if c.Following.HarvestDate.IsZero() {
		c.Following = c.Current
	}
}

// Validate checks the policy parameters and period bounds.
func (c Config) Validate() error {
	if err := c.Field.Validate(); err != nil {
		return err
	}
	if c.Current.EstablishDate.IsZero() || c.Current.HarvestDate.IsZero() {
		return fmt.Errorf("%w: current crop period is incomplete", ErrInvalidConfig)
	}
	if c.Current.HarvestDate.Before(c.Current.EstablishDate) {
		return fmt.Errorf("%w: harvest %s before establishment %s", ErrInvalidConfig,
			c.Current.HarvestDate.Format(time.DateOnly), c.Current.EstablishDate.Format(time.DateOnly))
	}
	if c.Following.HarvestDate.Before(c.Current.HarvestDate) {
		return fmt.Errorf("%w: following harvest precedes current harvest", ErrInvalidConfig)
	}
	switch c.LossAccounting {
	case LossAbsolute, LossRate:
	default:
		return fmt.Errorf("%w: unknown loss accounting %q", ErrInvalidConfig, c.LossAccounting)
	}
	return nil
}

// Validate checks trigger, efficiency and splits.
func (f FieldParams) Validate() error {
	if f.Trigger < 0 {
		return fmt.Errorf("%w: trigger must not be negative", ErrInvalidConfig)
	}
	if f.Efficiency <= 0 || f.Efficiency > 1 {
		return fmt.Errorf("%w: efficiency %.3f outside (0,1]", ErrInvalidConfig, f.Efficiency)
	}
	if f.Splits < 0 {
		return fmt.Errorf("%w: splits must not be negative", ErrInvalidConfig)
	}
	return nil
}
