package planner

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/planfit/core/availability"
	"github.com/kilianp07/planfit/core/model"
)

// Config defines the planning parameters.
type Config struct {
	Settings     model.Settings      `json:"settings" yaml:"settings"`
	Availability availability.Config `json:"availability" yaml:"availability"`
	// HorizonDays bounds how far into the future placement is attempted.
	HorizonDays int `json:"horizon_days" yaml:"horizon_days"`
}

// SetDefaults applies the reference policy and the two-week horizon.
func (c *Config) SetDefaults() {
	c.Settings.SetDefaults()
	c.Availability.SetDefaults()
	if c.HorizonDays == 0 {
		c.HorizonDays = 14
	}
}

// Validate checks the planning parameters.
func (c Config) Validate() error {
	if err := c.Settings.Validate(); err != nil {
		return err
	}
	if c.HorizonDays <= 0 {
		return fmt.Errorf("horizon_days must be positive")
	}
	return nil
}

// LoadConfig loads a Config from a JSON or YAML file.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	var cfg Config
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	default:
		return Config{}, fmt.Errorf("unsupported config format: %s", ext)
	}
	return cfg, err
}

// DecodeConfig reads from r to decode a Config.
func DecodeConfig(r io.Reader, format string) (Config, error) {
	var cfg Config
	switch strings.ToLower(format) {
	case "yaml", "yml":
		dec := yaml.NewDecoder(r)
		if err := dec.Decode(&cfg); err != nil {
			return cfg, err
		}
	case "json":
		dec := json.NewDecoder(r)
		if err := dec.Decode(&cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported format: %s", format)
	}
	return cfg, nil
}
