package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/forPelevin/ytpgen/internal/types"
)

//go:embed sample_config.toml
var sampleConfig string

// Encoding holds the codec settings shared by every effect template.
type Encoding struct {
	VideoCodec   string `toml:"video_codec" json:"video_codec"`
	Preset       string `toml:"preset" json:"preset"`
	AudioCodec   string `toml:"audio_codec" json:"audio_codec"`
	AudioBitrate string `toml:"audio_bitrate" json:"audio_bitrate"`
	LoudBitrate  string `toml:"loud_bitrate" json:"loud_bitrate"`
	LogLevel     string `toml:"log_level" json:"log_level"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level" json:"level"`
	Format string `toml:"format" json:"format"`
}

// History controls the local run log.
type History struct {
	Enabled bool   `toml:"enabled" json:"enabled"`
	Path    string `toml:"path" json:"path"`
}

// Config is the full ytpgen configuration. The effect chain is kept apart
// from the struct tags because entries are flat tables with free-form knobs.
type Config struct {
	FFmpegPath  string   `toml:"ffmpeg_path" json:"ffmpeg_path"`
	FFprobePath string   `toml:"ffprobe_path" json:"ffprobe_path"`
	AssetsDir   string   `toml:"assets_dir" json:"assets_dir"`
	StagingDir  string   `toml:"staging_dir" json:"staging_dir"`
	Seed        uint64   `toml:"seed" json:"seed"`
	Encoding    Encoding `toml:"encoding" json:"encoding"`
	Logging     Logging  `toml:"logging" json:"logging"`
	History     History  `toml:"history" json:"history"`

	EffectChain []types.EffectSpec `toml:"-" json:"-"`
}

// document is the on-disk shape.
type document struct {
	Config
	Chain []map[string]any `toml:"effect_chain" json:"effect_chain"`
}

// DefaultConfigPath returns the per-user configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/ytpgen/config.toml")
}

// Load locates, parses, and validates a configuration file. A missing file
// yields the defaults.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		b, err := os.ReadFile(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		if err := cfg.decode(b, isJSON(resolvedPath)); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func (c *Config) decode(b []byte, asJSON bool) error {
	doc := document{Config: *c}
	var err error
	if asJSON {
		dec := json.NewDecoder(bytes.NewReader(b))
		err = dec.Decode(&doc)
	} else {
		err = toml.Unmarshal(b, &doc)
	}
	if err != nil {
		return err
	}

	chain := c.EffectChain
	if doc.Chain != nil {
		if chain, err = decodeChain(doc.Chain); err != nil {
			return err
		}
	}
	*c = doc.Config
	c.EffectChain = chain
	return nil
}

// Save writes the configuration to path, as JSON when the extension says so.
func (c *Config) Save(path string) error {
	doc := document{Config: *c, Chain: encodeChain(c.EffectChain)}

	var (
		b   []byte
		err error
	)
	if isJSON(path) {
		b, err = json.MarshalIndent(doc, "", "  ")
	} else {
		b, err = toml.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs("ytpgen.toml")
	if err != nil {
		return "", false, err
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath applies the configuration path rules (home expansion, absolute).
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
