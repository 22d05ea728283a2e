package config

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.FFmpegPath == "" {
		return errors.New("ffmpeg_path must be set")
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateChain()
}

func (c *Config) validateLogging() error {
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
}

// validateChain rejects malformed entries. Unknown effect names are allowed;
// they run as pass-through stages.
func (c *Config) validateChain() error {
	for i, s := range c.EffectChain {
		if s.Name == "" {
			return fmt.Errorf("effect_chain[%d].name must be set", i)
		}
		if s.Probability < 0 || s.Probability > 1 {
			return fmt.Errorf("effect_chain[%d] (%s): probability must be between 0 and 1", i, s.Name)
		}
	}
	return nil
}
