package config

import (
	"os"

	"github.com/pseudomuto/mecha/pkg/consts"
	"github.com/pseudomuto/mecha/pkg/format"
	"go.uber.org/fx"
)

var Module = fx.Module("config", fx.Provide(
	// Function attempts to load the configuration from mecha.yaml if it exists.
	// Returns nil if the file doesn't exist, allowing commands that don't require config
	// (like init, fmt, help) to function properly.
	func() (*Config, error) {
		if _, err := os.Stat(consts.ConfigFile); os.IsNotExist(err) {
			return nil, nil
		}

		return LoadConfigFile(consts.ConfigFile)
	},
	func(c *Config) *format.Formatter {
		return c.GetFormatter()
	},
))
