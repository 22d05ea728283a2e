package types

import (
	"sort"
	"time"
)

// EffectKind identifies one of the known transformations. The set is closed;
// names outside it map to KindUnknown and run as a pass-through.
type EffectKind int

const (
	KindUnknown EffectKind = iota
	KindRandomSoundOverlay
	KindReverse
	KindSpeedChange
	KindChorus
	KindVibrato
	KindStutter
	KindEarrape
	KindAutotuneChaos
	KindDanceSquidward
	KindInvertColors
	KindRainbowOverlay
	KindMirror
	KindSusEffect
	KindExplosionSpam
	KindFrameShuffle
	KindMemeInjection
	KindRandomCuts
)

var kindNames = map[EffectKind]string{
	KindRandomSoundOverlay: "random_sound_overlay",
	KindReverse:            "reverse",
	KindSpeedChange:        "speed_change",
	KindChorus:             "chorus",
	KindVibrato:            "vibrato",
	KindStutter:            "stutter",
	KindEarrape:            "earrape",
	KindAutotuneChaos:      "autotune_chaos",
	KindDanceSquidward:     "dance_squidward",
	KindInvertColors:       "invert_colors",
	KindRainbowOverlay:     "rainbow_overlay",
	KindMirror:             "mirror",
	KindSusEffect:          "sus_effect",
	KindExplosionSpam:      "explosion_spam",
	KindFrameShuffle:       "frame_shuffle",
	KindMemeInjection:      "meme_injection",
	KindRandomCuts:         "random_cuts",
}

var kindsByName = func() map[string]EffectKind {
	m := make(map[string]EffectKind, len(kindNames))
	for k, n := range kindNames {
		m[n] = k
	}
	return m
}()

// ParseKind maps a configured effect name to its kind.
func ParseKind(name string) EffectKind {
	return kindsByName[name]
}

func (k EffectKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// KnownEffects returns every recognised effect name in declaration order.
func KnownEffects() []string {
	kinds := make([]EffectKind, 0, len(kindNames))
	for k := range kindNames {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = k.String()
	}
	return out
}

// EffectSpec is one declarative chain entry.
type EffectSpec struct {
	Name        string
	Enabled     bool
	Probability float64
	Params      map[string]float64
}

// Clone returns a copy that shares no state with s.
func (s EffectSpec) Clone() EffectSpec {
	c := s
	if s.Params != nil {
		c.Params = make(map[string]float64, len(s.Params))
		for k, v := range s.Params {
			c.Params[k] = v
		}
	}
	return c
}

// Param returns the named knob and whether it was configured.
func (s EffectSpec) Param(key string) (float64, bool) {
	v, ok := s.Params[key]
	return v, ok
}

// CloneChain deep-copies a chain.
func CloneChain(chain []EffectSpec) []EffectSpec {
	out := make([]EffectSpec, len(chain))
	for i, s := range chain {
		out[i] = s.Clone()
	}
	return out
}

// EnabledCount is the progress total estimate: entries with Enabled set.
func EnabledCount(chain []EffectSpec) int {
	n := 0
	for _, s := range chain {
		if s.Enabled {
			n++
		}
	}
	return n
}

// Asset categories.
const (
	CategoryAdverts        = "adverts"
	CategoryErrors         = "errors"
	CategoryImages         = "images"
	CategoryMemes          = "memes"
	CategoryMemesSounds    = "memes_sounds"
	CategoryOverlaysVideos = "overlays_videos"
	CategorySounds         = "sounds"
)

// AssetCategories lists every category directory under the assets root.
var AssetCategories = []string{
	CategoryAdverts,
	CategoryErrors,
	CategoryImages,
	CategoryMemes,
	CategoryMemesSounds,
	CategoryOverlaysVideos,
	CategorySounds,
}

// Catalog maps an asset category to the files available in it.
type Catalog map[string][]string

// Pick returns the combined files of the given categories, in order. The
// result is a fresh slice.
func (c Catalog) Pick(categories ...string) []string {
	var out []string
	for _, cat := range categories {
		out = append(out, c[cat]...)
	}
	return out
}

// Request is a fully resolved transformation: every random choice has
// already been made.
type Request struct {
	Kind    EffectKind
	Effect  string
	Input   string
	Output  string
	Scratch string

	Factor     float64
	GainDB     float64
	Level      float64
	Depth      float64
	Repeats    int
	SampleRate int
	Cuts       int

	Sounds    []string
	Image     string
	Clip      string
	MemeImage string
	MemeSound string
}

// InvocationKind tells the executor how to realise an Invocation.
type InvocationKind int

const (
	InvokeCommand InvocationKind = iota
	InvokeSequence
	InvokePassThrough
	// InvokeRandomCuts is planned at execution time from a duration probe.
	InvokeRandomCuts
)

// ListFile is a concat list that must exist before a step runs.
type ListFile struct {
	Path    string
	Content string
}

// Step is one external tool invocation.
type Step struct {
	Args  []string
	Lists []ListFile
}

// Invocation is what the builder produces for one stage. For a sequence the
// last step writes the stage output.
type Invocation struct {
	Kind    InvocationKind
	Steps   []Step
	Scratch string
	Input   string
	Output  string
	// Cuts is the segment count for InvokeRandomCuts.
	Cuts    int
}

// ProgressKind classifies progress events.
type ProgressKind int

const (
	ProgressSkipped ProgressKind = iota
	ProgressRunning
	ProgressPassThrough
	ProgressDryRun
	ProgressSaved
	ProgressWouldSave
	ProgressRetained
)

// Progress is one event on the progress side channel.
type Progress struct {
	Stage   int
	Total   int
	Message string
	Kind    ProgressKind
}

// StageRecord describes one stage that actually ran.
type StageRecord struct {
	Stage       int
	Effect      string
	Artifact    string
	PassThrough bool
}

// Run statuses stored in history.
const (
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// RunRecord is one pipeline run as kept in history.
type RunRecord struct {
	ID         string
	Input      string
	Output     string
	Seed       uint64
	Status     string
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
	Stages     []StageRecord
}
