package effects

import (
	"math"

	"github.com/forPelevin/ytpgen/internal/rng"
	"github.com/forPelevin/ytpgen/internal/types"
)

// Per-effect defaults applied when a knob is absent from the spec.
const (
	DefaultMinFactor     = 0.5
	DefaultMaxFactor     = 2.0
	DefaultGainDB        = 20
	DefaultChorusLevel   = 0.7
	DefaultVibratoDepth  = 0.5
	DefaultStutterMax    = 5
	DefaultExplosionMax  = 6
	DefaultSampleRate    = 15
	DefaultMaxSounds     = 1
	DefaultMinCuts       = 2
	DefaultMaxCuts       = 6
	minRepeats           = 2
	minimumSpeedFactor   = 1e-3
	minimumFrameRateHint = 1
)

// Resolver turns an EffectSpec into a concrete Request. It only reads the
// catalog and draws from its random source.
type Resolver struct {
	rand rng.Source
}

func NewResolver(r rng.Source) *Resolver {
	return &Resolver{rand: r}
}

// Resolve draws every random parameter for spec. Asset-backed effects with
// no candidates return types.ErrNoEligibleInput.
func (r *Resolver) Resolve(spec types.EffectSpec, cat types.Catalog, input, output, scratch string) (types.Request, error) {
	req := types.Request{
		Kind:    types.ParseKind(spec.Name),
		Effect:  spec.Name,
		Input:   input,
		Output:  output,
		Scratch: scratch,
	}

	switch req.Kind {
	case types.KindSpeedChange:
		req.Factor = math.Max(r.knob(spec, "factor", DefaultMinFactor, DefaultMaxFactor), minimumSpeedFactor)
	case types.KindEarrape:
		req.GainDB = r.knob(spec, "gain_db", DefaultGainDB, DefaultGainDB)
	case types.KindChorus:
		req.Level = r.knob(spec, "level", DefaultChorusLevel, DefaultChorusLevel)
	case types.KindVibrato:
		req.Depth = r.knob(spec, "depth", DefaultVibratoDepth, DefaultVibratoDepth)
	case types.KindStutter:
		req.Repeats = r.repeats(spec, DefaultStutterMax)
	case types.KindFrameShuffle:
		req.SampleRate = max(int(math.Round(r.knob(spec, "sample_rate", DefaultSampleRate, DefaultSampleRate))), minimumFrameRateHint)
	case types.KindRandomCuts:
		lo := intParam(spec, "min_cuts", DefaultMinCuts)
		hi := intParam(spec, "max_cuts", DefaultMaxCuts)
		req.Cuts = max(r.rand.IntRange(lo, max(lo, hi)), 1)
	case types.KindRandomSoundOverlay:
		candidates := cat.Pick(types.CategorySounds, types.CategoryMemesSounds)
		k := intParam(spec, "max_sounds", DefaultMaxSounds)
		req.Sounds = r.rand.Sample(candidates, k)
		if len(req.Sounds) == 0 {
			return req, types.ErrNoEligibleInput
		}
	case types.KindRainbowOverlay:
		pick := r.rand.Sample(cat.Pick(types.CategoryImages, types.CategoryMemes), 1)
		if len(pick) == 0 {
			return req, types.ErrNoEligibleInput
		}
		req.Image = pick[0]
	case types.KindExplosionSpam:
		pick := r.rand.Sample(cat.Pick(types.CategoryOverlaysVideos), 1)
		if len(pick) == 0 {
			return req, types.ErrNoEligibleInput
		}
		req.Clip = pick[0]
		req.Repeats = r.repeats(spec, DefaultExplosionMax)
	case types.KindMemeInjection:
		imgs := cat.Pick(types.CategoryMemes, types.CategoryImages)
		sounds := cat.Pick(types.CategoryMemesSounds, types.CategorySounds)
		if len(imgs) == 0 && len(sounds) == 0 {
			return req, types.ErrNoEligibleInput
		}
		if pick := r.rand.Sample(imgs, 1); len(pick) == 1 {
			req.MemeImage = pick[0]
		}
		if pick := r.rand.Sample(sounds, 1); len(pick) == 1 {
			req.MemeSound = pick[0]
		}
	}
	return req, nil
}

// knob resolves a numeric parameter: an explicit min_/max_ pair is drawn
// from, a plain key is used as-is, otherwise [defLo, defHi] is drawn from.
func (r *Resolver) knob(spec types.EffectSpec, key string, defLo, defHi float64) float64 {
	lo, hasLo := spec.Param("min_" + key)
	hi, hasHi := spec.Param("max_" + key)
	if hasLo && hasHi {
		return r.rand.Uniform(lo, hi)
	}
	if v, ok := spec.Param(key); ok {
		return v
	}
	if hasLo {
		defLo = lo
	}
	if hasHi {
		defHi = hi
	}
	if defLo == defHi {
		return defLo
	}
	return r.rand.Uniform(defLo, defHi)
}

func (r *Resolver) repeats(spec types.EffectSpec, defMax int) int {
	hi := max(intParam(spec, "max_repeats", defMax), minRepeats)
	return r.rand.IntRange(minRepeats, hi)
}

func intParam(spec types.EffectSpec, key string, def int) int {
	if v, ok := spec.Param(key); ok {
		return int(math.Round(v))
	}
	return def
}
