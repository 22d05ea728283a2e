package commands

import (
	"math"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/forPelevin/ytpgen/internal/types"
)

func TestAtempoChain_RoundTrip(t *testing.T) {
	t.Parallel()

	targets := []float64{0.01, 0.1, 0.25, 0.3, 0.5, 0.99, 1, 1.5, 2, 2.01, 3, 7.7, 64, 100}
	for _, target := range targets {
		chain := AtempoChain(target)
		if len(chain) == 0 {
			t.Fatalf("empty chain for %v", target)
		}
		product := 1.0
		for _, f := range chain {
			if f < 0.5 || f > 2.0 {
				t.Fatalf("factor %v for target %v outside [0.5, 2.0]: %v", f, target, chain)
			}
			product *= f
		}
		if math.Abs(product-target) > 1e-9*math.Max(1, target) {
			t.Fatalf("product %v != target %v (%v)", product, target, chain)
		}
	}
	if AtempoChain(0) != nil || AtempoChain(-1) != nil {
		t.Fatalf("expected nil chain for non-positive targets")
	}
}

func TestAtempoFilter(t *testing.T) {
	if got := AtempoFilter(3); got != "atempo=2,atempo=1.5" {
		t.Fatalf("AtempoFilter(3) = %q", got)
	}
	if got := AtempoFilter(0.25); got != "atempo=0.5,atempo=0.5,atempo=1" {
		t.Fatalf("AtempoFilter(0.25) = %q", got)
	}
}

func TestBuild_SingleInputKinds(t *testing.T) {
	t.Parallel()

	b := NewBuilder(Profile{FFmpeg: "/usr/bin/ffmpeg"})
	tests := []struct {
		req  types.Request
		want string
	}{
		{types.Request{Kind: types.KindReverse}, "-vf reverse -af areverse"},
		{types.Request{Kind: types.KindSpeedChange, Factor: 2}, "-vf setpts=0.5*PTS -af atempo=2"},
		{types.Request{Kind: types.KindInvertColors}, "-vf negate"},
		{types.Request{Kind: types.KindMirror}, "-vf hflip"},
		{types.Request{Kind: types.KindEarrape, GainDB: 20}, "-af volume=20dB"},
		{types.Request{Kind: types.KindChorus, Level: 0.5}, "-af aecho=0.9:0.9:60|90:0.2|0.15"},
		{types.Request{Kind: types.KindVibrato, Depth: 0.5}, "-af asetrate=44100*1,aresample=44100"},
		{types.Request{Kind: types.KindFrameShuffle, SampleRate: 15}, "-vf fps=15"},
	}
	for _, tt := range tests {
		t.Run(tt.req.Kind.String(), func(t *testing.T) {
			tt.req.Input, tt.req.Output = "/in.mp4", "/out.mp4"
			inv := b.Build(tt.req)
			if inv.Kind != types.InvokeCommand || len(inv.Steps) != 1 {
				t.Fatalf("expected single command, got %+v", inv)
			}
			args := inv.Steps[0].Args
			if args[0] != "/usr/bin/ffmpeg" {
				t.Fatalf("expected ffmpeg path first, got %q", args[0])
			}
			joined := strings.Join(args, " ")
			if !strings.Contains(joined, "-i /in.mp4 "+tt.want) {
				t.Fatalf("argv %q missing %q", joined, tt.want)
			}
			if args[len(args)-1] != "/out.mp4" {
				t.Fatalf("expected output last, got %q", args[len(args)-1])
			}
		})
	}
}

func TestBuild_IsDeterministic(t *testing.T) {
	t.Parallel()

	b := NewBuilder(DefaultProfile())
	req := types.Request{Kind: types.KindStutter, Input: "/in.mp4", Output: "/out.mp4", Scratch: "/s", Repeats: 3}
	if !reflect.DeepEqual(b.Build(req), b.Build(req)) {
		t.Fatalf("same request built different invocations")
	}
}

func TestBuild_AudioMixArity(t *testing.T) {
	t.Parallel()

	b := NewBuilder(DefaultProfile())
	inv := b.Build(types.Request{
		Kind:   types.KindRandomSoundOverlay,
		Input:  "/in.mp4",
		Output: "/out.mp4",
		Sounds: []string{"/a.wav", "/b.wav"},
	})
	joined := strings.Join(inv.Steps[0].Args, " ")
	if strings.Count(joined, "-i ") != 3 {
		t.Fatalf("expected 3 inputs: %s", joined)
	}
	if !strings.Contains(joined, "amix=inputs=3:normalize=0") {
		t.Fatalf("expected unnormalised 3-input amix: %s", joined)
	}
}

func TestBuild_MemeInjection(t *testing.T) {
	t.Parallel()

	b := NewBuilder(DefaultProfile())
	base := types.Request{Kind: types.KindMemeInjection, Input: "/in.mp4", Output: "/out.mp4", Scratch: "/scratch"}

	both := base
	both.MemeImage, both.MemeSound = "/m.png", "/m.wav"
	inv := b.Build(both)
	if inv.Kind != types.InvokeSequence || len(inv.Steps) != 2 {
		t.Fatalf("expected two-step sequence, got %+v", inv)
	}
	mid := filepath.Join("/scratch", "meme_image.mp4")
	first, second := inv.Steps[0].Args, inv.Steps[1].Args
	if first[len(first)-1] != mid {
		t.Fatalf("image overlay should write intermediate, got %q", first[len(first)-1])
	}
	if second[len(second)-1] != "/out.mp4" || !strings.Contains(strings.Join(second, " "), "-i "+mid) {
		t.Fatalf("audio overlay should read intermediate and write output: %v", second)
	}

	soundOnly := base
	soundOnly.MemeSound = "/m.wav"
	if inv := b.Build(soundOnly); inv.Kind != types.InvokeCommand || len(inv.Steps) != 1 {
		t.Fatalf("expected single command with only a sound, got %+v", inv)
	}

	imageOnly := base
	imageOnly.MemeImage = "/m.png"
	if inv := b.Build(imageOnly); inv.Kind != types.InvokeCommand {
		t.Fatalf("expected single command with only an image, got %+v", inv)
	}
}

func TestBuild_Stutter(t *testing.T) {
	t.Parallel()

	b := NewBuilder(DefaultProfile())
	inv := b.Build(types.Request{Kind: types.KindStutter, Input: "/in.mp4", Output: "/out.mp4", Scratch: "/s", Repeats: 3})
	if inv.Kind != types.InvokeSequence || len(inv.Steps) != 3 {
		t.Fatalf("expected 3-step sequence, got %+v", inv)
	}
	if !strings.Contains(strings.Join(inv.Steps[0].Args, " "), "-ss 0 -t 0.2") {
		t.Fatalf("extract step should take a 0.2s sample: %v", inv.Steps[0].Args)
	}
	loop := inv.Steps[1].Lists[0].Content
	if strings.Count(loop, "file '/s/sample.mp4'") != 3 {
		t.Fatalf("expected sample listed 3 times:\n%s", loop)
	}
	final := inv.Steps[2].Lists[0].Content
	if final != "file '/s/repeated.mp4'\nfile '/in.mp4'\n" {
		t.Fatalf("unexpected final concat list:\n%s", final)
	}
	last := inv.Steps[2].Args
	if last[len(last)-1] != "/out.mp4" {
		t.Fatalf("final step must write the stage output")
	}
}

func TestBuild_UnimplementedKindsPassThrough(t *testing.T) {
	t.Parallel()

	b := NewBuilder(DefaultProfile())
	for _, k := range []types.EffectKind{types.KindUnknown, types.KindAutotuneChaos, types.KindDanceSquidward, types.KindSusEffect} {
		inv := b.Build(types.Request{Kind: k, Input: "/in", Output: "/out"})
		if inv.Kind != types.InvokePassThrough || inv.Input != "/in" || inv.Output != "/out" {
			t.Fatalf("%v: expected pass-through, got %+v", k, inv)
		}
	}
}

func TestConcatListEscapesQuotes(t *testing.T) {
	got := ConcatList([]string{"/a/it's.mp4"})
	if got != "file '/a/it'\\''s.mp4'\n" {
		t.Fatalf("unexpected escaping: %q", got)
	}
}
