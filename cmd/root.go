package cmd

import (
	"fmt"
	"os"

	"projgen/pkg/config"
	"projgen/pkg/logging"
	"projgen/pkg/platform"
	"projgen/pkg/version"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile string
	debug   bool

	logger = zap.NewNop()
	appFs  = afero.NewOsFs()
)

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "projgen",
	Short: "projgen generates IDE projects with unity builds",
	Long: `projgen scans the source directories described by a workspace config,
classifies every file and writes Visual Studio or Xcode projects for each
target, optionally batching translation units into unity aggregates.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadDotEnv(); err != nil {
			return err
		}
		if debug {
			l, err := logging.Setup(true, version.AppName, version.Version)
			if err != nil {
				return fmt.Errorf("failed to initialize debug logger: %w", err)
			}
			logger = l
		}
		return nil
	},
}

// Execute runs the root command with logger.
func Execute(l *zap.Logger) error {
	if l != nil {
		logger = l
	}
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "workspace config (default $"+config.EnvConfig+" or "+config.DefaultFile+")")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

// loadDotEnv loads .env from the working directory when there is one.
// Variables already set in the environment win.
func loadDotEnv() error {
	if !platform.FileExists(appFs, ".env") {
		return nil
	}
	if err := godotenv.Load(".env"); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	logger.Debug("Loaded environment file", zap.String("file", ".env"))
	return nil
}

// configPath resolves the config file: flag, then environment, then default.
// A leading "~" or "$TMPDIR" is expanded.
func configPath() (string, error) {
	switch {
	case cfgFile != "":
		return platform.ExpandPath(cfgFile)
	case os.Getenv(config.EnvConfig) != "":
		return platform.ExpandPath(os.Getenv(config.EnvConfig))
	}
	return config.DefaultFile, nil
}

func loadConfig() (*config.Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(appFs, path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Loaded config", zap.String("file", path), zap.Int("targets", len(cfg.Targets)))
	return cfg, nil
}
