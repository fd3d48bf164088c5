// Command maison runs the talent matching service and exposes the matching
// engine as one-shot subcommands over JSON files.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/maison/internal/config"
	"github.com/okian/maison/pkg/logger"
)

const app = "maison"

// Actual version can be specified in build command.
var version = "dev"

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// cli holds state shared by every subcommand.
type cli struct {
	cfgFile   string
	logFormat string
	logLevel  string
	cfg       *config.Config
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           app,
		Short:         "maison matches luxury-retail talent with opportunities and recommends learning modules",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = logger.Sync()
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "a YAML config file (default: $"+config.EnvConfigPath+")")
	root.PersistentFlags().StringVar(&c.logFormat, "log-format", "", "log encoder: console or json (overrides config)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	root.AddCommand(
		newServeCmd(c),
		newScoreCmd(c),
		newRankCmd(c),
		newAlignCmd(c),
		newRecommendCmd(c),
		newCatalogCmd(c),
	)
	return root
}

// init loads configuration and sets up logging on stderr so stdout carries
// only command output.
func (c *cli) init(cmd *cobra.Command) error {
	path := c.cfgFile
	if path == "" {
		path = os.Getenv(config.EnvConfigPath)
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	if c.logFormat != "" {
		cfg.LogFormat = c.logFormat
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	c.cfg = cfg

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithOutput(cmd.ErrOrStderr())); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(cmd.Context(), "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return nil
}
