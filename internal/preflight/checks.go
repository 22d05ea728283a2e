// Package preflight verifies the environment a run depends on: the media
// executables and the directories it reads and writes.
package preflight

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/forPelevin/ytpgen/internal/config"
	"github.com/forPelevin/ytpgen/internal/ports/adapters/ffmpeg"
)

// Result is the outcome of one check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// Requirement defines an external executable ytpgen relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// CheckBinaries reports the availability of each requirement.
func CheckBinaries(requirements []Requirement) []Result {
	results := make([]Result, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		res := Result{Name: req.Name, Optional: req.Optional}
		if cmd == "" {
			res.Detail = "command not configured"
			results = append(results, res)
			continue
		}
		path, err := ffmpeg.Locate(cmd)
		if err != nil {
			res.Detail = fmt.Sprintf("binary %q not found (%s)", cmd, req.Description)
			results = append(results, res)
			continue
		}
		res.Passed = true
		res.Detail = path
		results = append(results, res)
	}
	return results
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// Run evaluates every check for cfg.
func Run(cfg *config.Config) []Result {
	probe := cfg.FFprobePath
	if probe == "" {
		if located, err := ffmpeg.Locate(cfg.FFmpegPath); err == nil {
			probe = ffmpeg.SiblingProbe(located)
		} else {
			probe = "ffprobe"
		}
	}
	results := CheckBinaries([]Requirement{
		{Name: "FFmpeg", Command: cfg.FFmpegPath, Description: "required for every effect"},
		{Name: "FFprobe", Command: probe, Description: "required by random_cuts", Optional: true},
	})

	stagingRoot := cfg.StagingDir
	if stagingRoot == "" {
		stagingRoot = os.TempDir()
	}
	results = append(results,
		CheckDirectoryAccess("Assets", cfg.AssetsDir),
		CheckDirectoryAccess("Staging", stagingRoot),
	)
	return results
}

// Failed reports whether any required check failed.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed && !r.Optional {
			return true
		}
	}
	return false
}
