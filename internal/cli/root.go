package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/thruflo/openspec-loop/internal/beads"
	"github.com/thruflo/openspec-loop/internal/config"
	"github.com/thruflo/openspec-loop/internal/logging"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	rootDir      string
	rootLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "openspec-loop",
	Short: "Drive OpenSpec changes to completion one Beads task at a time",
	Long: `openspec-loop runs once per idle signal from an agent session. Each run
reads the loop state in .opencode/, asks Beads (bd) what work is ready, and
either hands the agent its next task or stops the loop: when every epic is
closed, when the remaining work is blocked, or when the iteration budget is
spent.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("openspec-loop version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootDir, "dir", "", "Project directory (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "", "Local log level: debug, info, warn, error")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newGateway builds the task backend for a project.
// It can be overridden in tests.
var newGateway = func(dir string, cfg *config.Config, log *logging.Logger) beads.Gateway {
	return beads.NewCLI(beads.CLIOptions{
		Dir:        dir,
		Binary:     cfg.Backend.Binary,
		StatsLines: cfg.Backend.StatsLines,
		Logger:     log,
	})
}

// projectDir resolves --dir, defaulting to the working directory.
func projectDir() (string, error) {
	if rootDir != "" {
		return filepath.Abs(rootDir)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return cwd, nil
}

// loadEnv reads the project config and builds the local logger.
// A --log-level flag wins over log.level from the config file.
func loadEnv(dir, levelFlag string) (*config.Config, *logging.Logger, error) {
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	name := cfg.Log.Level
	if levelFlag != "" {
		name = levelFlag
	}
	level, err := logging.ParseLevel(name)
	if err != nil {
		return nil, nil, err
	}

	log := logging.New()
	log.SetLevel(level)
	return cfg, log, nil
}
