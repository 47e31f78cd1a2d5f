package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"nondiv/internal/config"
	"nondiv/internal/logging"
	"nondiv/internal/problem"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose    bool
	workspace  string
	configPath string
	noColor    bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "nondiv",
	Short: "Largest subset with no pair summing to a multiple of k",
	Long: `nondiv computes the size of the largest subset of distinct integers in
which no two elements sum to a multiple of a modulus k.

Elements are grouped by remainder modulo k. At most one element is taken from
the remainder-0 class and, for even k, from the k/2 class. For every other
complementary pair of classes r and k-r the larger class is taken whole.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <workspace>/.nondiv/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable styled output")

	rootCmd.AddCommand(solveCmd, explainCmd, batchCmd, watchCmd, historyCmd, configCmd)
}

// setup loads configuration and initializes the logger.
func setup() error {
	if workspace == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve workspace: %w", err)
		}
		workspace = cwd
	}

	loaded, err := config.Load(resolvedConfigPath())
	if err != nil {
		return err
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	cfg = loaded

	logger, err = logging.New(logging.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Verbose: verbose,
	})
	if err != nil {
		return err
	}
	logging.Initialize(logger, cfg.Logging.Categories)
	logging.Get(logging.CategoryBoot).Debug("configured",
		zap.String("workspace", workspace),
		zap.String("config", resolvedConfigPath()))
	return nil
}

func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultPath(workspace)
}

// currentConfig returns the loaded config, or defaults when a command runs
// without the root pre-run (as in tests).
func currentConfig() *config.Config {
	if cfg == nil {
		return config.DefaultConfig()
	}
	return cfg
}

func useColor() bool {
	return currentConfig().UI.Color && !noColor
}

// solverOptions derives problem options from config, with --strict winning.
func solverOptions(strict bool) (problem.Options, error) {
	c := currentConfig()
	policy, err := problem.ParsePolicy(c.Solver.Duplicates)
	if err != nil {
		return problem.Options{}, err
	}
	if strict {
		policy = problem.PolicyStrict
	}
	return problem.Options{Duplicates: policy, MaxModulus: c.Solver.MaxModulus}, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
