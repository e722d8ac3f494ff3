package store

import (
	"fmt"

	corestore "github.com/kilianp07/planfit/core/store"
)

// Config selects and locates the snapshot backend.
type Config struct {
	// Backend selects the store type: "json" or "sqlite".
	Backend string `json:"backend"`
	// Path is the file location of the store.
	Path string `json:"path"`
}

// SetDefaults applies the JSON file backend.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "json"
	}
	if c.Path == "" {
		c.Path = "planfit.json"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Backend != "json" && c.Backend != "sqlite" {
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

// New builds the configured store.
func New(cfg Config) (corestore.Store, error) {
	switch cfg.Backend {
	case "json":
		return NewJSONStore(cfg.Path)
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown backend %s", cfg.Backend)
	}
}
