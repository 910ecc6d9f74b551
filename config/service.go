package config

import (
	"fmt"

	"github.com/kbukum/svcreg/logger"
	"github.com/kbukum/svcreg/observability"
	"github.com/kbukum/svcreg/validation"
)

// Config describes a service and the values its registry is seeded with.
//
// Example:
//
//	name: billing
//	services:
//	  db:
//	    host: localhost
//	    port: 5432
//	tags:
//	  infra: [db]
type Config struct {
	Name          string               `yaml:"name" mapstructure:"name" validate:"required"`
	Environment   string               `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Version       string               `yaml:"version" mapstructure:"version"`
	Debug         bool                 `yaml:"debug" mapstructure:"debug"`
	Logging       logger.Config        `yaml:"logging" mapstructure:"logging"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
	Services      map[string]any       `yaml:"services" mapstructure:"services"`
	Tags          map[string][]string  `yaml:"tags" mapstructure:"tags" validate:"dive,dive,required"`
}

// ApplyDefaults applies default values to the configuration.
func (c *Config) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	c.Logging.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}
