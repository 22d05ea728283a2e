package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"

	"github.com/forPelevin/ytpgen/internal/config"
	"github.com/forPelevin/ytpgen/internal/domain/commands"
	"github.com/forPelevin/ytpgen/internal/history"
	"github.com/forPelevin/ytpgen/internal/ports"
	"github.com/forPelevin/ytpgen/internal/ports/adapters/assets"
	"github.com/forPelevin/ytpgen/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/ytpgen/internal/rng"
	"github.com/forPelevin/ytpgen/internal/types"
	"github.com/forPelevin/ytpgen/internal/usecase"
)

// ErrOutputBusy is returned when another run holds the output lock.
var ErrOutputBusy = errors.New("output is being written by another run")

type Config struct {
	InputPath string
	// OutputPath defaults to a timestamped file under OutDir.
	OutputPath string
	OutDir     string
	DryRun     bool
	// Seed overrides Settings.Seed. Zero on both draws one from the clock.
	Seed     uint64
	Settings *config.Config
	// Chain overrides Settings.EffectChain when non-nil.
	Chain    []types.EffectSpec
	Progress ports.ProgressSink
	Log      zerolog.Logger
	History  ports.RunStore
}

func (c Config) Validate() error {
	if c.InputPath == "" {
		return errors.New("input is empty")
	}
	info, err := os.Stat(c.InputPath)
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("input %s is not a regular file", c.InputPath)
	}
	if c.Settings == nil {
		return errors.New("settings are required")
	}
	if c.OutputPath != "" && sameFile(c.InputPath, c.OutputPath) {
		return errors.New("output must differ from input")
	}
	return nil
}

// Run wires the adapters for one pipeline run and executes it.
func Run(ctx context.Context, cfg Config) (usecase.Result, error) {
	if err := cfg.Validate(); err != nil {
		return usecase.Result{}, err
	}
	s := cfg.Settings
	log := cfg.Log

	ffmpegPath, err := ffmpeg.Locate(s.FFmpegPath)
	if err != nil {
		return usecase.Result{}, err
	}
	probePath := s.FFprobePath
	if probePath == "" {
		probePath = ffmpeg.SiblingProbe(ffmpegPath)
	}
	tool := ffmpeg.New(ffmpegPath, probePath, log.With().Str("component", "ffmpeg").Logger())
	log.Debug().Str("ffmpeg", tool.FFmpeg()).Str("ffprobe", tool.FFprobe()).Msg("tools located")

	if err := assets.EnsureDirs(s.AssetsDir); err != nil {
		return usecase.Result{}, err
	}
	catalog, err := assets.List(s.AssetsDir)
	if err != nil {
		return usecase.Result{}, err
	}

	outPath := cfg.OutputPath
	if outPath == "" {
		outDir := cfg.OutDir
		if outDir == "" {
			outDir = "out"
		}
		outPath = buildOutputPath(outDir, cfg.InputPath, time.Now().UTC())
	}
	if outPath, err = filepath.Abs(outPath); err != nil {
		return usecase.Result{}, err
	}
	inPath, err := filepath.Abs(cfg.InputPath)
	if err != nil {
		return usecase.Result{}, err
	}

	stagingRoot := s.StagingDir
	if stagingRoot == "" {
		stagingRoot = os.TempDir()
	}

	if !cfg.DryRun {
		unlock, err := lockOutput(stagingRoot, outPath)
		if err != nil {
			return usecase.Result{}, err
		}
		defer unlock()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = s.Seed
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	log.Info().Uint64("seed", seed).Str("output", outPath).Bool("dry_run", cfg.DryRun).Msg("run start")

	chain := s.EffectChain
	if cfg.Chain != nil {
		chain = cfg.Chain
	}

	uc := usecase.New(usecase.Deps{
		Tool:     tool,
		Builder:  commands.NewBuilder(Profile(s, tool.FFmpeg())),
		Rand:     rng.New(seed),
		Progress: cfg.Progress,
		Log:      log,
	})

	started := time.Now().UTC()
	res, runErr := uc.Run(ctx, usecase.Input{
		InputPath:   inPath,
		OutputPath:  outPath,
		Chain:       types.CloneChain(chain),
		Catalog:     catalog,
		StagingRoot: stagingRoot,
		DryRun:      cfg.DryRun,
	})

	if cfg.History != nil && !cfg.DryRun {
		rec := types.RunRecord{
			ID:         res.RunID,
			Input:      inPath,
			Output:     outPath,
			Seed:       seed,
			Status:     types.RunSucceeded,
			StartedAt:  started,
			FinishedAt: time.Now().UTC(),
			Stages:     res.Stages,
		}
		if runErr != nil {
			rec.Status = types.RunFailed
			rec.Error = runErr.Error()
		}
		if rec.ID != "" {
			if err := cfg.History.Record(context.WithoutCancel(ctx), rec); err != nil {
				log.Warn().Err(err).Msg("record run history")
			}
		}
	}

	if runErr != nil {
		return res, runErr
	}
	log.Info().Int("stages", len(res.Stages)).Msg("run done")
	return res, nil
}

// Profile builds the encoding profile for the command builder.
func Profile(s *config.Config, ffmpegPath string) commands.Profile {
	return commands.Profile{
		FFmpeg:       ffmpegPath,
		LogLevel:     s.Encoding.LogLevel,
		VideoCodec:   s.Encoding.VideoCodec,
		Preset:       s.Encoding.Preset,
		AudioCodec:   s.Encoding.AudioCodec,
		AudioBitrate: s.Encoding.AudioBitrate,
		LoudBitrate:  s.Encoding.LoudBitrate,
	}
}

// lockOutput takes an exclusive, non-blocking lock keyed by the output path.
func lockOutput(stagingRoot, outPath string) (func(), error) {
	dir := filepath.Join(stagingRoot, "locks")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	lock := flock.New(filepath.Join(dir, hash(outPath)+".lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOutputBusy, outPath)
	}
	return func() { _ = lock.Unlock() }, nil
}

func buildOutputPath(outRoot, input string, now time.Time) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name = normalizePathSegment(name)
	if name == "" {
		name = "input"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", input, now.UTC().UnixNano())
	suffix := hash(runSeed)[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-ytp-%s-%s.mp4", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.MediaTool = (*ffmpeg.Adapter)(nil)
var _ ports.RunStore = (*history.Store)(nil)
