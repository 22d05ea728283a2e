// Package commands maps resolved transformation requests onto ffmpeg
// argument vectors. Nothing here touches the filesystem or spawns processes.
package commands

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/forPelevin/ytpgen/internal/types"
)

// StutterSample is the length, in seconds, of the clip stutter repeats.
const StutterSample = 0.2

// Profile carries the encoding knobs shared by every template.
type Profile struct {
	FFmpeg       string
	LogLevel     string
	VideoCodec   string
	Preset       string
	AudioCodec   string
	AudioBitrate string
	LoudBitrate  string
}

// DefaultProfile mirrors the settings the effect templates were tuned with.
func DefaultProfile() Profile {
	return Profile{
		FFmpeg:       "ffmpeg",
		LogLevel:     "warning",
		VideoCodec:   "libx264",
		Preset:       "veryfast",
		AudioCodec:   "aac",
		AudioBitrate: "192k",
		LoudBitrate:  "320k",
	}
}

type Builder struct {
	p Profile
}

func NewBuilder(p Profile) *Builder {
	d := DefaultProfile()
	if p.FFmpeg == "" {
		p.FFmpeg = d.FFmpeg
	}
	if p.LogLevel == "" {
		p.LogLevel = d.LogLevel
	}
	if p.VideoCodec == "" {
		p.VideoCodec = d.VideoCodec
	}
	if p.Preset == "" {
		p.Preset = d.Preset
	}
	if p.AudioCodec == "" {
		p.AudioCodec = d.AudioCodec
	}
	if p.AudioBitrate == "" {
		p.AudioBitrate = d.AudioBitrate
	}
	if p.LoudBitrate == "" {
		p.LoudBitrate = d.LoudBitrate
	}
	return &Builder{p: p}
}

// PassThrough is the copy-input-to-output invocation.
func PassThrough(in, out string) types.Invocation {
	return types.Invocation{Kind: types.InvokePassThrough, Input: in, Output: out}
}

// Build returns the invocation for req. Kinds without a template pass
// through unchanged.
func (b *Builder) Build(req types.Request) types.Invocation {
	switch req.Kind {
	case types.KindReverse:
		return b.single(req, []string{"-vf", "reverse", "-af", "areverse"}, b.reencode())
	case types.KindSpeedChange:
		return b.single(req, []string{"-vf", fmt.Sprintf("setpts=%s*PTS", num(1/req.Factor)), "-af", AtempoFilter(req.Factor)}, b.reencode())
	case types.KindInvertColors:
		return b.single(req, []string{"-vf", "negate"}, b.videoOnly())
	case types.KindMirror:
		return b.single(req, []string{"-vf", "hflip"}, b.videoOnly())
	case types.KindEarrape:
		return b.single(req, []string{"-af", fmt.Sprintf("volume=%sdB", num(req.GainDB))}, []string{"-c:v", "copy", "-c:a", b.p.AudioCodec, "-b:a", b.p.LoudBitrate})
	case types.KindChorus:
		return b.single(req, []string{"-af", ChorusFilter(req.Level)}, b.audioOnly())
	case types.KindVibrato:
		return b.single(req, []string{"-af", VibratoFilter(req.Depth)}, b.audioOnly())
	case types.KindFrameShuffle:
		return b.single(req, []string{"-vf", fmt.Sprintf("fps=%d", req.SampleRate)}, b.videoOnly())
	case types.KindRandomSoundOverlay:
		return command(b.audioMix(req.Input, req.Output, req.Sounds))
	case types.KindRainbowOverlay:
		return command(b.imageOverlay(req.Input, req.Output, req.Image))
	case types.KindExplosionSpam:
		return command(b.clipOverlay(req))
	case types.KindMemeInjection:
		return b.memeInjection(req)
	case types.KindStutter:
		return b.stutter(req)
	case types.KindRandomCuts:
		return types.Invocation{
			Kind:    types.InvokeRandomCuts,
			Cuts:    req.Cuts,
			Scratch: req.Scratch,
			Input:   req.Input,
			Output:  req.Output,
		}
	default:
		return PassThrough(req.Input, req.Output)
	}
}

func command(s types.Step) types.Invocation {
	return types.Invocation{Kind: types.InvokeCommand, Steps: []types.Step{s}}
}

func (b *Builder) base() []string {
	return []string{b.p.FFmpeg, "-y", "-loglevel", b.p.LogLevel}
}

func (b *Builder) reencode() []string {
	return []string{"-c:v", b.p.VideoCodec, "-preset", b.p.Preset, "-c:a", b.p.AudioCodec, "-b:a", b.p.AudioBitrate}
}

func (b *Builder) videoOnly() []string {
	return []string{"-c:v", b.p.VideoCodec, "-preset", b.p.Preset, "-c:a", "copy"}
}

func (b *Builder) audioOnly() []string {
	return []string{"-c:v", "copy", "-c:a", b.p.AudioCodec, "-b:a", b.p.AudioBitrate}
}

func (b *Builder) single(req types.Request, filters, codecs []string) types.Invocation {
	args := append(b.base(), "-i", req.Input)
	args = append(args, filters...)
	args = append(args, codecs...)
	args = append(args, req.Output)
	return command(types.Step{Args: args})
}

func (b *Builder) audioMix(in, out string, overlays []string) types.Step {
	args := append(b.base(), "-i", in)
	for _, o := range overlays {
		args = append(args, "-i", o)
	}
	args = append(args,
		"-filter_complex", fmt.Sprintf("amix=inputs=%d:normalize=0", 1+len(overlays)),
		"-c:v", "copy", "-c:a", b.p.AudioCodec, "-b:a", b.p.AudioBitrate,
		out,
	)
	return types.Step{Args: args}
}

func (b *Builder) imageOverlay(in, out, image string) types.Step {
	args := append(b.base(),
		"-i", in,
		"-i", image,
		"-filter_complex", "[0:v][1:v] overlay=10:10:enable='between(t,0,99999)'",
		"-c:a", "copy", "-c:v", b.p.VideoCodec, "-preset", b.p.Preset,
		out,
	)
	return types.Step{Args: args}
}

func (b *Builder) clipOverlay(req types.Request) types.Step {
	args := append(b.base(),
		"-i", req.Input,
		"-stream_loop", strconv.Itoa(req.Repeats-1),
		"-i", req.Clip,
		"-filter_complex", "[0:v][1:v] overlay=10:10:enable='gte(t,0)'",
		"-c:v", b.p.VideoCodec, "-preset", b.p.Preset, "-c:a", "copy",
		req.Output,
	)
	return types.Step{Args: args}
}

func (b *Builder) memeInjection(req types.Request) types.Invocation {
	switch {
	case req.MemeImage != "" && req.MemeSound != "":
		mid := filepath.Join(req.Scratch, "meme_image.mp4")
		return types.Invocation{
			Kind: types.InvokeSequence,
			Steps: []types.Step{
				b.imageOverlay(req.Input, mid, req.MemeImage),
				b.audioMix(mid, req.Output, []string{req.MemeSound}),
			},
			Scratch: req.Scratch,
		}
	case req.MemeImage != "":
		return command(b.imageOverlay(req.Input, req.Output, req.MemeImage))
	case req.MemeSound != "":
		return command(b.audioMix(req.Input, req.Output, []string{req.MemeSound}))
	default:
		return PassThrough(req.Input, req.Output)
	}
}

func (b *Builder) stutter(req types.Request) types.Invocation {
	sample := filepath.Join(req.Scratch, "sample.mp4")
	repeated := filepath.Join(req.Scratch, "repeated.mp4")
	loopList := filepath.Join(req.Scratch, "list.txt")
	finalList := filepath.Join(req.Scratch, "concat.txt")

	loop := make([]string, req.Repeats)
	for i := range loop {
		loop[i] = sample
	}

	extract := append(b.base(), "-i", req.Input, "-ss", "0", "-t", num(StutterSample))
	extract = append(extract, b.reencode()...)
	extract = append(extract, sample)

	return types.Invocation{
		Kind: types.InvokeSequence,
		Steps: []types.Step{
			{Args: extract},
			b.Concat(loopList, loop, repeated),
			b.Concat(finalList, []string{repeated, req.Input}, req.Output),
		},
		Scratch: req.Scratch,
	}
}

// ExtractSegment copies [start, end) seconds of in to out without re-encoding.
func (b *Builder) ExtractSegment(in string, start, end float64, out string) types.Step {
	return types.Step{Args: append(b.base(), "-i", in, "-ss", num(start), "-to", num(end), "-c", "copy", out)}
}

// Concat joins inputs with the concat demuxer; the list file is written by
// the executor before the step runs.
func (b *Builder) Concat(listPath string, inputs []string, out string) types.Step {
	return types.Step{
		Args:  append(b.base(), "-f", "concat", "-safe", "0", "-i", listPath, "-c", "copy", out),
		Lists: []types.ListFile{{Path: listPath, Content: ConcatList(inputs)}},
	}
}

// ConcatList renders a concat demuxer script.
func ConcatList(paths []string) string {
	var sb strings.Builder
	for _, p := range paths {
		sb.WriteString("file '")
		sb.WriteString(strings.ReplaceAll(p, "'", `'\''`))
		sb.WriteString("'\n")
	}
	return sb.String()
}

// ChorusFilter approximates a chorus with a two-tap aecho.
func ChorusFilter(level float64) string {
	inGain := 0.8 + 0.2*level
	return fmt.Sprintf("aecho=%s:0.9:60|90:%s|%s", num(inGain), num(0.4*level), num(0.3*level))
}

// VibratoFilter applies a small static pitch shift scaled by depth.
func VibratoFilter(depth float64) string {
	ratio := 1.0 + (depth-0.5)*0.3
	return fmt.Sprintf("asetrate=44100*%s,aresample=44100", num(ratio))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
