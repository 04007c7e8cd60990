package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/toolbus-dev/toolbus"
)

// Config selects which built-in services to install and how their schemas are
// built.
type Config struct {
	// Services lists the services Build installs, in order.
	Services []string `toml:"services"`

	// Lenient builds schemas that ignore unknown argument fields instead of
	// rejecting them.
	Lenient bool `toml:"lenient"`
}

// Default enables every built-in service with strict validation.
func Default() Config {
	return Config{Services: []string{"utility", "slack", "google", "github"}}
}

// Load reads a TOML config file. A missing file yields Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if len(cfg.Services) == 0 {
		cfg.Services = Default().Services
	}
	return cfg, nil
}

// object builds an input schema honoring the configured strictness.
func (c Config) object(params ...toolbus.Param) toolbus.Schema {
	if c.Lenient {
		return toolbus.LenientObject(params...)
	}
	return toolbus.Object(params...)
}
