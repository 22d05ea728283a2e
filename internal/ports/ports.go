package ports

import (
	"context"
	"time"

	"github.com/forPelevin/ytpgen/internal/types"
)

// MediaTool runs the external media executables. argv[0] is the program.
type MediaTool interface {
	Run(ctx context.Context, argv []string) error
	ProbeDuration(ctx context.Context, inMP4 string) (time.Duration, error)
}

type ProgressSink interface {
	Report(p types.Progress)
}

// ProgressFunc adapts a plain function to ProgressSink.
type ProgressFunc func(types.Progress)

func (f ProgressFunc) Report(p types.Progress) { f(p) }

// NopProgress discards every event.
var NopProgress ProgressSink = ProgressFunc(func(types.Progress) {})

// RunStore persists run outcomes.
type RunStore interface {
	Record(ctx context.Context, run types.RunRecord) error
}
