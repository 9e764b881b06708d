package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jonathan/jobtrack/internal/config"
	"github.com/jonathan/jobtrack/internal/logging"
)

const app = "jobtrack"

// cli carries state shared by the subcommands of one invocation.
type cli struct {
	v       *viper.Viper
	cfgFile string
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:           app,
		Short:         "Job search tracking backend",
		Long:          "jobtrack serves the job dashboard API: resume tailoring and match scoring through LLM providers with fallback, keyword matching, and application tracking.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&c.cfgFile, "config", "", "a config file (default is jobtrack.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	_ = c.v.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = c.v.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	rootCmd.AddCommand(
		newServeCmd(c),
		newTailorCmd(c),
		newScoreCmd(c),
		newTokenCmd(c),
	)
	return rootCmd
}

// load reads the config file and environment, then builds the logger.
// Commands printing results to stdout log to stderr.
func (c *cli) load(logToStderr bool) (*config.Config, *zap.Logger, error) {
	config.SetDefaults(c.v)
	if err := config.BindEnv(c.v); err != nil {
		return nil, nil, err
	}
	if err := config.ReadFile(c.v, c.cfgFile); err != nil {
		return nil, nil, err
	}

	newLogger := logging.New
	if logToStderr {
		newLogger = logging.NewStderr
	}
	logger, err := newLogger(c.v.GetBool("json"), c.v.GetBool("debug"))
	if err != nil {
		return nil, nil, fmt.Errorf("creating a logger: %w", err)
	}

	cfg, err := config.Load(c.v)
	if err != nil {
		return nil, nil, err
	}
	if used := c.v.ConfigFileUsed(); used != "" {
		logger.Debug("config file loaded", zap.String("path", used))
	}
	return cfg, logger, nil
}
