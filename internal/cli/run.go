package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/forPelevin/ytpgen/internal/history"
	"github.com/forPelevin/ytpgen/internal/pipeline"
	"github.com/forPelevin/ytpgen/internal/ports"
	"github.com/forPelevin/ytpgen/internal/types"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		out       string
		outDir    string
		dryRun    bool
		seed      uint64
		noHistory bool
	)

	cmd := &cobra.Command{
		Use:   "run <input>",
		Short: "Run the effect chain over one video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			absIn, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			pcfg := pipeline.Config{
				InputPath:  absIn,
				OutputPath: out,
				OutDir:     outDir,
				DryRun:     dryRun,
				Seed:       seed,
				Settings:   cfg,
				Progress:   progressPrinter(cmd.OutOrStdout()),
				Log:        ctx.logger("pipeline"),
			}
			if err := pcfg.Validate(); err != nil {
				return fmt.Errorf("config: %w", err)
			}

			if cfg.History.Enabled && !noHistory && !dryRun {
				store, err := history.Open(cfg.History.Path)
				if err != nil {
					log := ctx.logger("history")
					log.Warn().Err(err).Msg("history disabled for this run")
				} else {
					defer store.Close()
					pcfg.History = store
				}
			}

			res, err := pipeline.Run(cmd.Context(), pcfg)
			if err != nil {
				return err
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "Dry run planned %d stage(s); staging kept at %s\n", len(res.Stages), res.StagingDir)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: timestamped file under --out-dir)")
	cmd.Flags().StringVar(&outDir, "out-dir", "out", "Directory for generated output names")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the ffmpeg commands without running them")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Fix the random source (0 uses config seed or the clock)")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record this run")
	return cmd
}

func progressPrinter(w io.Writer) ports.ProgressSink {
	return ports.ProgressFunc(func(p types.Progress) {
		fmt.Fprintf(w, "[%d/%d] %s\n", p.Stage, p.Total, p.Message)
	})
}
