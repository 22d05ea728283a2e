package types

import (
	"errors"
	"fmt"
)

var (
	// ErrToolNotFound is a configuration error: ffmpeg could not be located.
	ErrToolNotFound = errors.New("media tool not found")
	// ErrNoEligibleInput means an asset-backed effect had nothing to draw
	// from. The orchestrator degrades the stage to a pass-through.
	ErrNoEligibleInput = errors.New("no eligible input")
	// ErrProbe is returned when random cuts cannot establish a usable duration.
	ErrProbe = errors.New("duration probe failed")
	// ErrNoSegments is returned when every random-cuts segment is too short.
	ErrNoSegments = errors.New("no segments survived minimum length filter")
)

// ToolError reports a non-zero exit from an external executable.
type ToolError struct {
	Tool     string
	ExitCode int
	Output   string
	Err      error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s exited with status %d: %v\n%s", e.Tool, e.ExitCode, e.Err, e.Output)
}

func (e *ToolError) Unwrap() error { return e.Err }

// StageError ties a failure to the effect and stage that produced it.
type StageError struct {
	Effect string
	Stage  int
	Err    error
}

func (e *StageError) Error() string {
	if code, ok := ExitCode(e.Err); ok {
		return fmt.Sprintf("stage %d (%s) failed with exit %d: %v", e.Stage, e.Effect, code, e.Err)
	}
	return fmt.Sprintf("stage %d (%s) failed: %v", e.Stage, e.Effect, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// ExitCode extracts the external exit status from err, if any.
func ExitCode(err error) (int, bool) {
	var te *ToolError
	if errors.As(err, &te) {
		return te.ExitCode, true
	}
	return 0, false
}
