package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/forPelevin/ytpgen/internal/config"
	"github.com/forPelevin/ytpgen/internal/history"
	"github.com/forPelevin/ytpgen/internal/ports"
	"github.com/forPelevin/ytpgen/internal/types"
)

func TestBuildOutputPath(t *testing.T) {
	now := time.Date(2026, 2, 12, 10, 30, 45, 1234, time.UTC)
	got := buildOutputPath("out", "/tmp/My Cool.Video.mp4", now)
	base := filepath.Base(got)
	if filepath.Dir(got) != "out" {
		t.Fatalf("unexpected parent dir: %s", got)
	}
	prefix := "my-cool-video-ytp-20260212-103045Z-"
	if !strings.HasPrefix(base, prefix) || !strings.HasSuffix(base, ".mp4") {
		t.Fatalf("unexpected output name format: %s", base)
	}
	if len(base) != len(prefix)+6+len(".mp4") {
		t.Fatalf("unexpected suffix length: %s", base)
	}
}

func TestNormalizePathSegment(t *testing.T) {
	tests := map[string]string{
		"  My Cool.Video  ": "my-cool-video",
		"___":               "",
		"abc123":            "abc123",
		"Name (v2)!":        "name-v2",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			if got := normalizePathSegment(in); got != want {
				t.Fatalf("normalizePathSegment(%q) = %q, want %q", in, got, want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.mp4")
	if err := os.WriteFile(input, []byte("x"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	settings := config.Default()

	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{"empty input", Config{Settings: &settings}, "input is empty"},
		{"missing input", Config{InputPath: filepath.Join(dir, "nope.mp4"), Settings: &settings}, "stat input"},
		{"directory input", Config{InputPath: dir, Settings: &settings}, "not a regular file"},
		{"no settings", Config{InputPath: input}, "settings are required"},
		{"output is input", Config{InputPath: input, OutputPath: input, Settings: &settings}, "output must differ"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q, got %v", tc.want, err)
			}
		})
	}
	if err := (Config{InputPath: input, Settings: &settings}).Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestLockOutput(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "result.mp4")

	unlock, err := lockOutput(root, out)
	if err != nil {
		t.Fatalf("first lock: %v", err)
	}
	if _, err := lockOutput(root, out); !errors.Is(err, ErrOutputBusy) {
		t.Fatalf("expected ErrOutputBusy, got %v", err)
	}
	if other, err := lockOutput(root, filepath.Join(root, "other.mp4")); err != nil {
		t.Fatalf("different output should lock independently: %v", err)
	} else {
		other()
	}
	unlock()
	again, err := lockOutput(root, out)
	if err != nil {
		t.Fatalf("relock after unlock: %v", err)
	}
	again()
}

type fixture struct {
	input    string
	output   string
	settings config.Config
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	dir := t.TempDir()
	ff := filepath.Join(dir, "bin", "ffmpeg")
	if err := os.MkdirAll(filepath.Dir(ff), 0o755); err != nil {
		t.Fatalf("mkdir bin: %v", err)
	}
	// Writes its last argument, like ffmpeg writing the output file.
	script := "#!/bin/sh\nfor last; do :; done\necho rendered > \"$last\"\n"
	if err := os.WriteFile(ff, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake ffmpeg: %v", err)
	}
	input := filepath.Join(dir, "in.mp4")
	if err := os.WriteFile(input, []byte("original"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	s := config.Default()
	s.FFmpegPath = ff
	s.AssetsDir = filepath.Join(dir, "assets")
	s.StagingDir = filepath.Join(dir, "staging")
	s.EffectChain = []types.EffectSpec{{Name: "reverse", Enabled: true, Probability: 1}}
	return fixture{input: input, output: filepath.Join(dir, "out", "result.mp4"), settings: s}
}

func TestRun_EndToEndWithHistory(t *testing.T) {
	f := newFixture(t)
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer store.Close()

	var events []types.Progress
	res, err := Run(context.Background(), Config{
		InputPath:  f.input,
		OutputPath: f.output,
		Seed:       5,
		Settings:   &f.settings,
		Progress:   ports.ProgressFunc(func(p types.Progress) { events = append(events, p) }),
		Log:        zerolog.Nop(),
		History:    store,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	b, err := os.ReadFile(f.output)
	if err != nil || strings.TrimSpace(string(b)) != "rendered" {
		t.Fatalf("unexpected output %q: %v", b, err)
	}
	if len(res.Stages) != 1 || res.RunID == "" {
		t.Fatalf("unexpected result: %+v", res)
	}
	for _, c := range []string{types.CategorySounds, types.CategoryMemes} {
		if _, err := os.Stat(filepath.Join(f.settings.AssetsDir, c)); err != nil {
			t.Fatalf("asset dir %s not created: %v", c, err)
		}
	}
	if len(events) == 0 || events[len(events)-1].Kind != types.ProgressSaved {
		t.Fatalf("expected saved event last: %+v", events)
	}

	runs, err := store.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != res.RunID || runs[0].Seed != 5 || runs[0].Status != types.RunSucceeded {
		t.Fatalf("unexpected history: %+v", runs)
	}
}

func TestRun_DryRunRecordsNothing(t *testing.T) {
	f := newFixture(t)
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer store.Close()

	res, err := Run(context.Background(), Config{
		InputPath:  f.input,
		OutputPath: f.output,
		DryRun:     true,
		Settings:   &f.settings,
		Log:        zerolog.Nop(),
		History:    store,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(f.output); !os.IsNotExist(err) {
		t.Fatalf("dry run wrote output")
	}
	if res.StagingDir == "" {
		t.Fatalf("dry run should report the kept staging dir")
	}
	if runs, _ := store.List(context.Background(), 0); len(runs) != 0 {
		t.Fatalf("dry run recorded history: %+v", runs)
	}
}

func TestRun_ToolNotFound(t *testing.T) {
	f := newFixture(t)
	f.settings.FFmpegPath = filepath.Join(t.TempDir(), "missing-ffmpeg")

	_, err := Run(context.Background(), Config{
		InputPath:  f.input,
		OutputPath: f.output,
		Settings:   &f.settings,
		Log:        zerolog.Nop(),
	})
	if !errors.Is(err, types.ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound, got %v", err)
	}
	if _, err := os.Stat(f.settings.StagingDir); !os.IsNotExist(err) {
		t.Fatalf("nothing should be staged before the tool is located")
	}
}
