package config

import (
	"fmt"
	"os"
	"strings"
)

// Environment overrides, usually supplied through .env.
const (
	EnvFFmpeg     = "YTPGEN_FFMPEG"
	EnvFFprobe    = "YTPGEN_FFPROBE"
	EnvAssetsDir  = "YTPGEN_ASSETS_DIR"
	EnvStagingDir = "YTPGEN_STAGING_DIR"
)

func (c *Config) normalize() error {
	c.applyEnv()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	for i := range c.EffectChain {
		c.EffectChain[i].Name = strings.TrimSpace(c.EffectChain[i].Name)
	}
	return nil
}

func (c *Config) applyEnv() {
	override := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	override(&c.FFmpegPath, EnvFFmpeg)
	override(&c.FFprobePath, EnvFFprobe)
	override(&c.AssetsDir, EnvAssetsDir)
	override(&c.StagingDir, EnvStagingDir)
}

// normalizePaths expands directories. Tool paths are left alone so bare
// names still resolve through PATH.
func (c *Config) normalizePaths() error {
	c.FFmpegPath = strings.TrimSpace(c.FFmpegPath)
	if c.FFmpegPath == "" {
		c.FFmpegPath = defaultFFmpeg
	}
	c.FFprobePath = strings.TrimSpace(c.FFprobePath)
	if strings.HasPrefix(c.FFmpegPath, "~") {
		p, err := expandPath(c.FFmpegPath)
		if err != nil {
			return fmt.Errorf("ffmpeg_path: %w", err)
		}
		c.FFmpegPath = p
	}

	var err error
	if strings.TrimSpace(c.AssetsDir) == "" {
		c.AssetsDir = defaultAssetsDir
	}
	if c.AssetsDir, err = expandPath(c.AssetsDir); err != nil {
		return fmt.Errorf("assets_dir: %w", err)
	}
	if c.StagingDir, err = expandPath(strings.TrimSpace(c.StagingDir)); err != nil {
		return fmt.Errorf("staging_dir: %w", err)
	}
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}
