package config

import "github.com/forPelevin/ytpgen/internal/types"

const (
	defaultFFmpeg      = "ffmpeg"
	defaultAssetsDir   = "assets"
	defaultHistoryPath = "~/.local/share/ytpgen/history.db"
	defaultLogLevel    = "info"
	defaultLogFormat   = "console"
)

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		FFmpegPath: defaultFFmpeg,
		AssetsDir:  defaultAssetsDir,
		Encoding: Encoding{
			VideoCodec:   "libx264",
			Preset:       "veryfast",
			AudioCodec:   "aac",
			AudioBitrate: "192k",
			LoudBitrate:  "320k",
			LogLevel:     "warning",
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
		EffectChain: DefaultChain(),
	}
}

// DefaultChain is the stock effect chain.
func DefaultChain() []types.EffectSpec {
	e := func(name string, enabled bool, p float64, params map[string]float64) types.EffectSpec {
		return types.EffectSpec{Name: name, Enabled: enabled, Probability: p, Params: params}
	}
	return []types.EffectSpec{
		e("random_sound_overlay", true, 0.9, map[string]float64{"max_sounds": 2}),
		e("reverse", true, 0.15, nil),
		e("speed_change", true, 0.5, map[string]float64{"min_factor": 0.25, "max_factor": 3.0}),
		e("chorus", true, 0.25, map[string]float64{"level": 0.8}),
		e("vibrato", true, 0.2, map[string]float64{"depth": 0.8}),
		e("stutter", true, 0.3, map[string]float64{"max_repeats": 6}),
		e("earrape", true, 0.05, map[string]float64{"gain_db": 20}),
		e("autotune_chaos", false, 0.1, nil),
		e("dance_squidward", true, 0.25, nil),
		e("invert_colors", true, 0.15, nil),
		e("rainbow_overlay", true, 0.25, nil),
		e("mirror", true, 0.1, nil),
		e("sus_effect", true, 0.2, nil),
		e("explosion_spam", true, 0.12, nil),
		e("frame_shuffle", true, 0.2, nil),
		e("meme_injection", true, 0.4, nil),
		e("random_cuts", true, 0.8, map[string]float64{"min_cuts": 2, "max_cuts": 8}),
	}
}
