package provision

import (
	"errors"
	"fmt"
	"time"

	"github.com/opsbench/setup/internal/ports"
)

// StepRunner executes one step's install → authenticate → verify lifecycle.
type StepRunner struct {
	logger ports.Logger
}

// NewStepRunner creates a StepRunner.
func NewStepRunner(logger ports.Logger) *StepRunner {
	return &StepRunner{logger: logger}
}

// Run executes a single step.
//
// Order of evaluation:
//  1. Required environment variables. A missing credential short-circuits
//     before install is attempted, producing MISSING_CONFIGURATION with
//     remediation text rather than a mid-install crash.
//  2. Precondition. When it holds the step is Skipped; only verify runs.
//  3. Install. A non-zero exit fails the step and, by the orchestrator's
//     fail-fast policy, the entire run. No retries.
//  4. Authenticate, when the step defines it and AuthCheck reports false.
//  5. Verify. Its output is surfaced but a verify failure does not fail the
//     step: install and authenticate already gated success.
func (r *StepRunner) Run(rctx RunContext, step Step) StepResult {
	if rctx.logger == nil {
		rctx.logger = r.logger
	}

	id := step.ID()
	ctx := rctx.Context()
	log := r.logger.With(ports.F("step", id.String()))

	if missing := rctx.Env().Missing(step.RequiredEnv()); len(missing) > 0 {
		err := NewMissingConfigurationError(
			fmt.Sprintf("environment variable %s", missing[0]),
			fmt.Sprintf("add %s to the secrets file and rerun", missing[0]),
		).WithStep(id.String())
		return NewStepResult(id, OutcomeFailed, err)
	}

	satisfied, err := step.Check(rctx)
	if err != nil {
		return NewStepResult(id, OutcomeFailed, fmt.Errorf("precondition check for %s: %w", id, err))
	}

	if satisfied {
		log.Info(ctx, "already satisfied, skipping install")
		r.verify(rctx, step, log)
		return NewStepResult(id, OutcomeSkipped, nil)
	}

	if rctx.DryRun() {
		log.Info(ctx, "dry run, would install")
		return NewStepResult(id, OutcomePlanned, nil)
	}

	start := time.Now()

	log.Info(ctx, "installing")
	if err := step.Install(rctx); err != nil {
		return NewStepResult(id, OutcomeFailed, attributeStep(err, id)).
			WithDuration(time.Since(start))
	}

	if auth := AsAuthenticator(step); auth != nil {
		if err := r.authenticate(rctx, auth, log); err != nil {
			return NewStepResult(id, OutcomeFailed, attributeStep(err, id)).
				WithDuration(time.Since(start))
		}
	}

	r.verify(rctx, step, log)

	log.Info(ctx, "installed", ports.F("duration", time.Since(start).Round(time.Millisecond)))
	return NewStepResult(id, OutcomeInstalled, nil).WithDuration(time.Since(start))
}

func (r *StepRunner) authenticate(rctx RunContext, auth Authenticator, log ports.Logger) error {
	done, err := auth.AuthCheck(rctx)
	if err != nil {
		return fmt.Errorf("authentication check: %w", err)
	}
	if done {
		log.Info(rctx.Context(), "already authenticated")
		return nil
	}

	log.Info(rctx.Context(), "authenticating")
	return auth.Authenticate(rctx)
}

// verify surfaces the step's confidence check. Failures are warnings only.
func (r *StepRunner) verify(rctx RunContext, step Step, log ports.Logger) {
	if rctx.DryRun() {
		return
	}
	if err := step.Verify(rctx); err != nil {
		log.Warn(rctx.Context(), "verify reported a problem", ports.F("error", err))
	}
}

func attributeStep(err error, id StepID) error {
	var se *SetupError
	if errors.As(err, &se) && se.Step == "" {
		return se.WithStep(id.String())
	}
	return err
}
