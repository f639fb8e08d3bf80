package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/soyeahso/azent/internal/config"
	"github.com/soyeahso/azent/internal/logging"
)

var (
	cfgFile  string
	logLevel string
	noColor  bool

	// loaded at init time
	paths     config.Paths
	cfg       config.Config
	cfgErr    error
	log       *logging.Logger
	logCloser io.Closer
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "azent",
		Short: "azent: browse and manage an AI agent marketplace",
		Long: "azent is a command-line client for an AI agent marketplace. It lists, filters and\n" +
			"searches agent listings, likes and bookmarks them, submits new ones, and covers\n" +
			"the marketplace's admin, blog, newsletter and news features.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			paths, err = config.ResolvePaths()
			if err != nil {
				return err
			}
			if cfgFile != "" {
				paths.Config = cfgFile
			}

			cfg, cfgErr = config.Load(paths.Config)
			if cfgErr != nil {
				cfg = config.Defaults()
			}

			level := cfg.Logging.Level
			if logLevel != "" {
				level = logLevel
			}
			log, logCloser, err = logging.Open(logging.Options{
				Level: level,
				Style: cfg.Logging.ConsoleStyle,
				File:  cfg.Logging.File,
			})
			if err != nil {
				return err
			}
			if cfgErr != nil {
				log.Warn().Err(cfgErr).Str("path", paths.Config).Msg("config not loaded, using defaults")
			}
			setColor(noColor)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if logCloser != nil {
				return logCloser.Close()
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.azent/config.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error, fatal, silent)")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newAgentsCmd())
	cmd.AddCommand(newUserCmd())
	cmd.AddCommand(newAdminCmd())
	cmd.AddCommand(newNewsletterCmd())
	cmd.AddCommand(newBlogCmd())
	cmd.AddCommand(newNewsCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
