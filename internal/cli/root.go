package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/forPelevin/ytpgen/internal/config"
	"github.com/forPelevin/ytpgen/internal/logging"
)

const skipConfigLoad = "skipConfigLoad"

// commandContext carries flags and lazily loaded configuration shared by
// every subcommand.
type commandContext struct {
	configFlag string
	verbose    bool

	cfg     *config.Config
	cfgPath string
	exists  bool
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, path, exists, err := config.Load(c.configFlag)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	c.cfg, c.cfgPath, c.exists = cfg, path, exists
	return cfg, nil
}

func (c *commandContext) logger(component string) zerolog.Logger {
	return logging.WithComponent(component)
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	root := &cobra.Command{
		Use:           "ytpgen",
		Short:         "Turn a video into a randomised YTP-style remix",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.Init(logging.Options{Verbose: ctx.verbose, Out: cmd.ErrOrStderr()})
			if cmd.Annotations[skipConfigLoad] == "true" {
				return nil
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logging.Init(logging.Options{
				Level:   cfg.Logging.Level,
				Format:  cfg.Logging.Format,
				Verbose: ctx.verbose,
				Out:     cmd.ErrOrStderr(),
			})
			if ctx.exists {
				log.Debug().Str("path", ctx.cfgPath).Msg("config loaded")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path (.toml or .json)")
	root.PersistentFlags().BoolVarP(&ctx.verbose, "verbose", "v", false, "Debug logging")

	root.AddCommand(newRunCommand(ctx))
	root.AddCommand(newEffectsCommand(ctx))
	root.AddCommand(newAssetsCommand(ctx))
	root.AddCommand(newHistoryCommand(ctx))
	root.AddCommand(newCheckCommand(ctx))
	root.AddCommand(newConfigCommand())
	root.AddCommand(newGUICommand(ctx))
	return root
}
