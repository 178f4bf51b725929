package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/opsbench/setup/internal/domain/config"
	"github.com/opsbench/setup/internal/domain/env"
	"github.com/opsbench/setup/internal/domain/provision"
	"github.com/opsbench/setup/internal/ports"
)

// SetupService runs a bootstrap phase end to end: assemble, orchestrate,
// report, and record history.
type SetupService struct {
	runner      ports.CommandRunner
	prompter    ports.Prompter
	logger      ports.Logger
	out         io.Writer
	historyPath string
}

// NewSetupService creates a SetupService. historyPath may be empty to skip
// history recording (tests, dry runs over read-only homes).
func NewSetupService(runner ports.CommandRunner, prompter ports.Prompter, logger ports.Logger, out io.Writer, historyPath string) *SetupService {
	return &SetupService{
		runner:      runner,
		prompter:    prompter,
		logger:      logger,
		out:         out,
		historyPath: historyPath,
	}
}

// RunOptions carries per-invocation knobs from the CLI.
type RunOptions struct {
	DryRun bool
}

// Run executes the named phase against the given environment and prints the
// run report. The returned error is the phase failure, if any; report and
// history are written either way.
func (s *SetupService) Run(ctx context.Context, phaseName string, environ *env.Environment, cfg *config.Config, opts RunOptions) error {
	phase, err := BuildPhase(phaseName, s.runner, s.prompter, cfg)
	if err != nil {
		return err
	}

	if cfg.Hostname != "" && !environ.Has("SETUP_HOSTNAME") {
		environ.Set("SETUP_HOSTNAME", cfg.Hostname)
	}

	rctx := provision.NewRunContext(ctx, environ).
		WithOut(s.out).
		WithLogger(s.logger).
		WithDryRun(opts.DryRun)

	started := time.Now()
	results, runErr := provision.NewOrchestrator(s.logger).Run(rctx, phase)
	total := time.Since(started)

	if len(results) > 0 {
		fmt.Fprint(s.out, RenderReport(phase.Name, results, total))
	}

	if s.historyPath != "" {
		rec := NewRunRecord(phase.Name, started, total, opts.DryRun, results)
		if err := AppendHistory(s.historyPath, rec); err != nil {
			s.logger.Warn(ctx, "could not record run history", ports.F("error", err.Error()))
		}
	}

	return runErr
}

// Status probes each step's precondition without installing anything and
// prints one line per step.
func (s *SetupService) Status(ctx context.Context, phaseName string, environ *env.Environment, cfg *config.Config) error {
	phase, err := BuildPhase(phaseName, s.runner, s.prompter, cfg)
	if err != nil {
		return err
	}

	rctx := provision.NewRunContext(ctx, environ).
		WithOut(s.out).
		WithLogger(s.logger)

	fmt.Fprintf(s.out, "%s (%s)\n", phase.Name, phase.Description)
	for _, step := range phase.Steps {
		ok, err := step.Check(rctx)
		switch {
		case err != nil:
			fmt.Fprintf(s.out, "  ? %s check failed: %v\n", step.ID(), err)
		case ok:
			fmt.Fprintf(s.out, "  ✓ %s ready\n", step.ID())
		default:
			fmt.Fprintf(s.out, "  ✗ %s needs install\n", step.ID())
		}
	}
	return nil
}
