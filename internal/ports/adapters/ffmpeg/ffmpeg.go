package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/forPelevin/ytpgen/internal/types"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
	log     zerolog.Logger
}

func New(ffmpegPath, ffprobePath string, log zerolog.Logger) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath, log: log}
}

func (a *Adapter) FFmpeg() string  { return a.ffmpeg }
func (a *Adapter) FFprobe() string { return a.ffprobe }

// Locate resolves a configured executable: a name found on PATH, or an
// existing regular file.
func Locate(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty path", types.ErrToolNotFound)
	}
	if p, err := exec.LookPath(path); err == nil {
		return p, nil
	}
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		return path, nil
	}
	return "", fmt.Errorf("%w: %s", types.ErrToolNotFound, path)
}

// SiblingProbe guesses ffprobe next to a located ffmpeg, falling back to
// the bare name.
func SiblingProbe(ffmpegPath string) string {
	dir := filepath.Dir(ffmpegPath)
	if dir == "." {
		return "ffprobe"
	}
	name := "ffprobe" + strings.TrimPrefix(filepath.Base(ffmpegPath), "ffmpeg")
	candidate := filepath.Join(dir, name)
	if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
		return candidate
	}
	return "ffprobe"
}

// Run executes argv and returns a *types.ToolError on non-zero exit.
func (a *Adapter) Run(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return errors.New("ffmpeg run: empty argv")
	}
	a.log.Debug().Strs("argv", argv).Msg("exec")

	start := time.Now()
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return toolError(filepath.Base(argv[0]), err, b)
	}
	a.log.Debug().Dur("took", time.Since(start)).Msg("exec done")
	return nil
}

func (a *Adapter) ProbeDuration(ctx context.Context, inMP4 string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inMP4,
	)
	b, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w", toolError("ffprobe", err, b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return time.Duration(sec * float64(time.Second)), nil
}

func toolError(tool string, err error, out []byte) error {
	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
		if len(out) == 0 {
			out = exitErr.Stderr
		}
	}
	return &types.ToolError{Tool: tool, ExitCode: code, Output: strings.TrimSpace(string(out)), Err: err}
}
