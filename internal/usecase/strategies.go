package usecase

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/forPelevin/ytpgen/internal/domain/cuts"
	"github.com/forPelevin/ytpgen/internal/staging"
	"github.com/forPelevin/ytpgen/internal/types"
)

// randomCuts probes the input, slices it at random points, extracts every
// segment long enough to keep and concatenates them in shuffled order.
func (u Usecase) randomCuts(ctx context.Context, inv types.Invocation) error {
	d, err := u.d.Tool.ProbeDuration(ctx, inv.Input)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrProbe, err)
	}
	if d <= 0 {
		return fmt.Errorf("%w: non-positive duration %v", types.ErrProbe, d)
	}

	plan := cuts.New(d.Seconds(), inv.Cuts, u.d.Rand)
	if len(plan.Kept) == 0 {
		return fmt.Errorf("%w: %d cuts over %.3fs", types.ErrNoSegments, inv.Cuts, d.Seconds())
	}

	cleanup, err := staging.Sub(inv.Scratch, false)
	if err != nil {
		return err
	}
	defer u.cleanup(cleanup)

	pieces := make(map[cuts.Segment]string, len(plan.Kept))
	for i, s := range plan.Kept {
		out := filepath.Join(inv.Scratch, fmt.Sprintf("segment_%03d.mp4", i))
		if err := u.runStep(ctx, u.d.Builder.ExtractSegment(inv.Input, s.Start, s.End, out)); err != nil {
			return err
		}
		pieces[s] = out
	}

	ordered := make([]string, len(plan.Order))
	for i, s := range plan.Order {
		ordered[i] = pieces[s]
	}
	u.d.Log.Debug().Int("segments", len(ordered)).Float64("duration", d.Seconds()).Msg("random cuts")
	return u.runStep(ctx, u.d.Builder.Concat(filepath.Join(inv.Scratch, "concat.txt"), ordered, inv.Output))
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy %s: %w", filepath.Base(src), err)
	}
	return out.Close()
}

// publish copies src next to dst and renames it into place, so dst is
// either untouched or complete.
func publish(src, dst string) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".ytpgen-*"+filepath.Ext(dst))
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()

	if err := copyFile(src, tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write output: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("publish output: %w", err)
	}
	return nil
}
