package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/forPelevin/ytpgen/internal/config"
	"github.com/forPelevin/ytpgen/internal/domain/effects"
	"github.com/forPelevin/ytpgen/internal/gui"
	"github.com/forPelevin/ytpgen/internal/history"
	"github.com/forPelevin/ytpgen/internal/ports/adapters/assets"
	"github.com/forPelevin/ytpgen/internal/preflight"
	"github.com/forPelevin/ytpgen/internal/types"
)

func newEffectsCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "effects",
		Short: "List the configured effect chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				var rows [][]string
				for _, name := range types.KnownEffects() {
					info := effects.Describe(name)
					rows = append(rows, []string{effects.DisplayName(name), name, info.Summary, strings.Join(info.Assets, ", ")})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Effect", "Key", "Does", "Assets"}, rows, nil))
				return nil
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(cfg.EffectChain))
			for i, s := range cfg.EffectChain {
				status := "runs"
				if !effects.Describe(s.Name).Implemented {
					status = "pass-through"
				}
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					effects.DisplayName(s.Name),
					yesNo(s.Enabled),
					strconv.FormatFloat(s.Probability, 'f', 2, 64),
					formatParams(s.Params),
					status,
				})
			}
			headers := []string{"#", "Effect", "Enabled", "Probability", "Params", "Status"}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, []columnAlignment{alignRight, alignLeft, alignLeft, alignRight}))
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "List every known effect instead of the chain")
	return cmd
}

func newAssetsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "assets",
		Short: "Create the asset directories and count their files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := assets.EnsureDirs(cfg.AssetsDir); err != nil {
				return err
			}
			cat, err := assets.List(cfg.AssetsDir)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(types.AssetCategories))
			for _, c := range types.AssetCategories {
				rows = append(rows, []string{c, strconv.Itoa(len(cat[c])), filepath.Join(cfg.AssetsDir, c)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Category", "Files", "Directory"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, r := range runs {
				effectsRun := make([]string, 0, len(r.Stages))
				for _, s := range r.Stages {
					effectsRun = append(effectsRun, s.Effect)
				}
				rows = append(rows, []string{
					r.StartedAt.Local().Format("2006-01-02 15:04:05"),
					r.Status,
					filepath.Base(r.Input),
					filepath.Base(r.Output),
					strings.Join(effectsRun, " > "),
					r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String(),
					strconv.FormatUint(r.Seed, 10),
				})
			}
			headers := []string{"Started", "Status", "Input", "Output", "Stages", "Took", "Seed"}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight}))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show (0 for all)")
	return cmd
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify ffmpeg, ffprobe and directory access",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := assets.EnsureDirs(cfg.AssetsDir); err != nil {
				return err
			}
			results := preflight.Run(cfg)
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				state := "ok"
				switch {
				case !r.Passed && r.Optional:
					state = "warn"
				case !r.Passed:
					state = "FAIL"
				}
				rows = append(rows, []string{r.Name, state, r.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Check", "State", "Detail"}, rows, nil))
			if preflight.Failed(results) {
				return errors.New("preflight failed")
			}
			return nil
		},
	}
}

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	var overwrite bool
	initCmd := &cobra.Command{
		Use:         "init [path]",
		Short:       "Create a sample configuration file",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipConfigLoad: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				target string
				err    error
			)
			if len(args) == 1 {
				target, err = config.ExpandPath(strings.TrimSpace(args[0]))
			} else {
				target, err = config.DefaultConfigPath()
			}
			if err != nil {
				return fmt.Errorf("resolve config path: %w", err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")

	configCmd.AddCommand(initCmd)
	return configCmd
}

func newGUICommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open the desktop front-end",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return gui.Run(cmd.Context(), gui.Options{
				Settings:   cfg,
				ConfigPath: ctx.cfgPath,
				Log:        ctx.logger("gui"),
			})
		},
	}
}

func formatParams(params map[string]float64) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+strconv.FormatFloat(params[k], 'f', -1, 64))
	}
	return strings.Join(parts, " ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
