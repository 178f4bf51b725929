package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/opsbench/setup/internal/adapters/command"
	"github.com/opsbench/setup/internal/adapters/logging"
	"github.com/opsbench/setup/internal/adapters/prompt"
	"github.com/opsbench/setup/internal/app"
	"github.com/opsbench/setup/internal/domain/config"
	"github.com/opsbench/setup/internal/domain/env"
	"github.com/opsbench/setup/internal/domain/provision"
	"github.com/opsbench/setup/internal/ports"
)

var (
	// Global flags
	cfgFile     string
	secretsFile string
	verbose     bool
	dryRun      bool
)

var rootCmd = &cobra.Command{
	Use:   "setup [phase1|phase2]",
	Short: "Bootstrap a fresh machine with the team's CLI tooling",
	Long: `Setup installs and authenticates the third-party CLIs a fresh machine
needs, in two phases:

  phase1  secret management and source control tooling (doppler, gh)
  phase2  network, container, and data tooling (tailscale, docker,
          duckdb, tinybird, s2); requires the secrets file phase 1
          made obtainable

Each step checks whether the tool is already installed and authenticated
and skips the work that is already done, so reruns are safe.`,
	Args:          validatePhaseArg,
	SilenceErrors: true, // We handle error formatting ourselves
	SilenceUsage:  true, // Don't show usage on error
	RunE: func(cmd *cobra.Command, args []string) error {
		phase := app.Phase1
		if len(args) == 1 {
			phase = args[0]
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		svc, environ, err := buildService(cmd.OutOrStdout())
		if err != nil {
			return err
		}

		return svc.Run(cmd.Context(), phase, environ, cfg, app.RunOptions{DryRun: dryRun})
	},
}

// errBadArgument marks argument errors so Execute can show usage for them.
var errBadArgument = errors.New("bad argument")

// validatePhaseArg accepts at most one positional argument naming a phase.
func validatePhaseArg(_ *cobra.Command, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("%w: expected at most one phase, got %d arguments", errBadArgument, len(args))
	}
	if len(args) == 1 && args[0] != app.Phase1 && args[0] != app.Phase2 {
		return fmt.Errorf("%w: unknown phase %q (want %s or %s)", errBadArgument, args[0], app.Phase1, app.Phase2)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
		if errors.Is(err, errBadArgument) {
			fmt.Fprint(os.Stderr, rootCmd.UsageString())
		}
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file")
	rootCmd.PersistentFlags().StringVar(&secretsFile, "secrets-file", "", "secrets file (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be installed without running installers")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if secretsFile != "" {
		cfg.SecretsFile = secretsFile
	}
	return cfg, nil
}

// buildService wires the real adapters into the application service.
func buildService(out io.Writer) (*app.SetupService, *env.Environment, error) {
	level := ports.LevelInfo
	if verbose {
		level = ports.LevelDebug
	}
	logger := logging.NewConsoleLogger(
		logging.WithOutput(os.Stderr),
		logging.WithLevel(level),
	)

	historyPath, err := app.HistoryPath()
	if err != nil {
		// History is best-effort; a machine without a resolvable home still
		// gets provisioned.
		historyPath = ""
	}

	svc := app.NewSetupService(
		command.NewRealRunner(),
		prompt.NewStdinPrompter(),
		logger,
		out,
		historyPath,
	)
	return svc, env.FromOS(), nil
}

// formatError returns a user-friendly error message.
// With verbose=false: shows the message and remediation.
// With verbose=true: also shows the underlying technical error.
func formatError(err error) string {
	var setupErr *provision.SetupError
	if errors.As(err, &setupErr) {
		msg := setupErr.Error()
		if setupErr.Remediation != "" {
			msg += fmt.Sprintf("\n\nRun: %s", setupErr.Remediation)
		}
		if verbose && setupErr.Underlying != nil {
			msg += fmt.Sprintf("\n\nTechnical details: %v", setupErr.Underlying)
		}
		return msg
	}
	return err.Error()
}

// printError prints an error message to stderr with proper formatting.
func printError(err error) {
	printErrorTo(os.Stderr, err)
}

// printErrorTo prints an error message to the given writer.
func printErrorTo(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %s\n", formatError(err))
}

// exitCode maps an error to the process exit code: a failed external command
// propagates its own exit code, everything else is 1.
func exitCode(err error) int {
	var setupErr *provision.SetupError
	if errors.As(err, &setupErr) && setupErr.Code == provision.ErrCodeExternalCommand && setupErr.ExitCode > 0 {
		return setupErr.ExitCode
	}
	return 1
}
