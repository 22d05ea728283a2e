package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/forPelevin/ytpgen/internal/domain/commands"
	"github.com/forPelevin/ytpgen/internal/domain/effects"
	"github.com/forPelevin/ytpgen/internal/ports"
	"github.com/forPelevin/ytpgen/internal/rng"
	"github.com/forPelevin/ytpgen/internal/staging"
	"github.com/forPelevin/ytpgen/internal/types"
)

type Deps struct {
	Tool     ports.MediaTool
	Builder  *commands.Builder
	Rand     rng.Source
	Progress ports.ProgressSink
	Log      zerolog.Logger
}

type Usecase struct {
	d        Deps
	resolver *effects.Resolver
}

func New(d Deps) Usecase {
	if d.Progress == nil {
		d.Progress = ports.NopProgress
	}
	if d.Builder == nil {
		d.Builder = commands.NewBuilder(commands.DefaultProfile())
	}
	return Usecase{d: d, resolver: effects.NewResolver(d.Rand)}
}

type Input struct {
	InputPath   string
	OutputPath  string
	Chain       []types.EffectSpec
	Catalog     types.Catalog
	StagingRoot string
	DryRun      bool
}

type Result struct {
	RunID string
	// StagingDir is set only when the directory was kept (dry run).
	StagingDir string
	Stages     []types.StageRecord
	// Output is empty for dry runs.
	Output string
}

// Run pushes the input through every gated stage of the chain and writes
// the last artifact to the output path. Stages run strictly in order.
func (u Usecase) Run(ctx context.Context, in Input) (res Result, err error) {
	// Concat lists resolve relative entries against their own directory.
	if in.InputPath, err = filepath.Abs(in.InputPath); err != nil {
		return Result{}, fmt.Errorf("resolve input: %w", err)
	}

	dir, err := staging.New(in.StagingRoot)
	if err != nil {
		return Result{}, err
	}
	res.RunID = dir.ID()
	defer func() {
		if in.DryRun {
			res.StagingDir = dir.Path()
			return
		}
		if rerr := dir.Release(false); rerr != nil {
			u.d.Log.Warn().Err(rerr).Str("dir", dir.Path()).Msg("remove staging dir")
		}
	}()

	total := types.EnabledCount(in.Chain)
	current := in.InputPath
	stage := 0

	for _, spec := range in.Chain {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if !spec.Enabled {
			u.report(stage, total, types.ProgressSkipped, "Skipping %s (disabled)", spec.Name)
			continue
		}
		roll := u.d.Rand.Float64()
		if spec.Probability <= 0 || roll > spec.Probability {
			u.report(stage, total, types.ProgressSkipped, "Skipping %s (prob %.2f roll %.2f)", spec.Name, spec.Probability, roll)
			continue
		}

		stage++
		out := dir.Artifact(stage)
		u.report(stage, total, types.ProgressRunning, "Running %s -> %s", spec.Name, filepath.Base(out))

		inv, err := u.plan(spec, in.Catalog, current, out, dir.Scratch(stage, spec.Name))
		if err != nil {
			return res, &types.StageError{Effect: spec.Name, Stage: stage, Err: err}
		}
		rec := types.StageRecord{Stage: stage, Effect: spec.Name, Artifact: out, PassThrough: inv.Kind == types.InvokePassThrough}
		if rec.PassThrough {
			u.report(stage, total, types.ProgressPassThrough, "Passing %s through unchanged", spec.Name)
		}

		if in.DryRun {
			u.describe(stage, total, inv)
			res.Stages = append(res.Stages, rec)
			continue
		}

		u.d.Log.Info().Int("stage", stage).Str("effect", spec.Name).Msg("stage start")
		if err := u.execute(ctx, inv); err != nil {
			return res, &types.StageError{Effect: spec.Name, Stage: stage, Err: err}
		}
		res.Stages = append(res.Stages, rec)
		current = out
	}

	if in.DryRun {
		u.report(stage, total, types.ProgressWouldSave, "DRY RUN: final output would be: %s", in.OutputPath)
		u.report(stage, total, types.ProgressRetained, "Temporary files kept at: %s", dir.Path())
		return res, nil
	}

	if err := publish(current, in.OutputPath); err != nil {
		return res, err
	}
	res.Output = in.OutputPath
	u.report(stage, total, types.ProgressSaved, "Saved output: %s", in.OutputPath)
	return res, nil
}

// plan resolves and builds one stage. An asset-backed effect with nothing
// to draw from degrades to a pass-through.
func (u Usecase) plan(spec types.EffectSpec, cat types.Catalog, in, out, scratch string) (types.Invocation, error) {
	req, err := u.resolver.Resolve(spec, cat, in, out, scratch)
	if errors.Is(err, types.ErrNoEligibleInput) {
		u.d.Log.Warn().Str("effect", spec.Name).Msg("no eligible assets, passing through")
		return commands.PassThrough(in, out), nil
	}
	if err != nil {
		return types.Invocation{}, err
	}
	return u.d.Builder.Build(req), nil
}

func (u Usecase) describe(stage, total int, inv types.Invocation) {
	switch inv.Kind {
	case types.InvokePassThrough:
		u.report(stage, total, types.ProgressDryRun, "DRY RUN: copy %s -> %s", inv.Input, inv.Output)
	case types.InvokeRandomCuts:
		u.report(stage, total, types.ProgressDryRun, "DRY RUN: random_cuts into %d segments of %s -> %s (cut plan resolved after probing)", inv.Cuts, inv.Input, inv.Output)
	default:
		for _, st := range inv.Steps {
			u.report(stage, total, types.ProgressDryRun, "DRY RUN: %s", strings.Join(st.Args, " "))
		}
	}
}

func (u Usecase) execute(ctx context.Context, inv types.Invocation) error {
	switch inv.Kind {
	case types.InvokePassThrough:
		return copyFile(inv.Input, inv.Output)
	case types.InvokeRandomCuts:
		return u.randomCuts(ctx, inv)
	}

	if inv.Scratch != "" {
		cleanup, err := staging.Sub(inv.Scratch, false)
		if err != nil {
			return err
		}
		defer u.cleanup(cleanup)
	}
	for _, st := range inv.Steps {
		if err := u.runStep(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (u Usecase) runStep(ctx context.Context, st types.Step) error {
	for _, l := range st.Lists {
		if err := os.WriteFile(l.Path, []byte(l.Content), 0o644); err != nil {
			return fmt.Errorf("write concat list: %w", err)
		}
	}
	return u.d.Tool.Run(ctx, st.Args)
}

func (u Usecase) cleanup(fn func() error) {
	if err := fn(); err != nil {
		u.d.Log.Warn().Err(err).Msg("remove scratch dir")
	}
}

func (u Usecase) report(stage, total int, kind types.ProgressKind, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	u.d.Log.Debug().Int("stage", stage).Int("total", total).Msg(msg)
	u.d.Progress.Report(types.Progress{Stage: stage, Total: total, Message: msg, Kind: kind})
}
