package effects

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/forPelevin/ytpgen/internal/types"
)

// Info describes an effect for listings and the GUI.
type Info struct {
	Name        string
	Summary     string
	Implemented bool
	Assets      []string
}

var infos = map[types.EffectKind]Info{
	types.KindRandomSoundOverlay: {Summary: "mix random sounds over the audio", Implemented: true, Assets: []string{types.CategorySounds, types.CategoryMemesSounds}},
	types.KindReverse:            {Summary: "play video and audio backwards", Implemented: true},
	types.KindSpeedChange:        {Summary: "speed up or slow down", Implemented: true},
	types.KindChorus:             {Summary: "echo-based chorus", Implemented: true},
	types.KindVibrato:            {Summary: "static pitch shift", Implemented: true},
	types.KindStutter:            {Summary: "repeat the opening fraction of a second", Implemented: true},
	types.KindEarrape:            {Summary: "boost audio gain", Implemented: true},
	types.KindAutotuneChaos:      {Summary: "reserved"},
	types.KindDanceSquidward:     {Summary: "reserved"},
	types.KindInvertColors:       {Summary: "negate colours", Implemented: true},
	types.KindRainbowOverlay:     {Summary: "overlay an image", Implemented: true, Assets: []string{types.CategoryImages, types.CategoryMemes}},
	types.KindMirror:             {Summary: "horizontal flip", Implemented: true},
	types.KindSusEffect:          {Summary: "reserved"},
	types.KindExplosionSpam:      {Summary: "overlay a looping clip", Implemented: true, Assets: []string{types.CategoryOverlaysVideos}},
	types.KindFrameShuffle:       {Summary: "resample frame rate", Implemented: true},
	types.KindMemeInjection:      {Summary: "meme image then meme sound", Implemented: true, Assets: []string{types.CategoryMemes, types.CategoryImages, types.CategoryMemesSounds, types.CategorySounds}},
	types.KindRandomCuts:         {Summary: "cut into segments and shuffle them", Implemented: true},
}

// Describe returns listing information for an effect name. Unknown names
// come back unimplemented.
func Describe(name string) Info {
	info, ok := infos[types.ParseKind(name)]
	if !ok {
		info = Info{Summary: "unrecognised, passes through"}
	}
	info.Name = name
	return info
}

// DisplayName turns "random_sound_overlay" into "Random Sound Overlay".
func DisplayName(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}
