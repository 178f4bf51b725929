package provision

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/statekit"

	"github.com/opsbench/setup/internal/domain/env"
	"github.com/opsbench/setup/internal/ports"
)

// State represents the orchestrator's position in a phase run.
type State string

const (
	// StatePending means no phase has been started.
	StatePending State = "pending"
	// StatePreparing means phase gates (secrets file, required variables)
	// are being checked.
	StatePreparing State = "preparing"
	// StateRunning means steps are executing.
	StateRunning State = "running"
	// StateComplete means every step finished or was skipped.
	StateComplete State = "complete"
	// StateFailed means a gate or step failed; the run stopped there.
	StateFailed State = "failed"
)

// Events for the phase state machine.
const (
	eventPrepare  = "PREPARE"
	eventPrepared = "PREPARED"
	eventComplete = "COMPLETE"
	eventFail     = "FAIL"
	eventReset    = "RESET"
)

// phaseRun is the statekit context type; the machine tracks position only.
type phaseRun struct {
	Phase string
}

// Orchestrator walks a phase's steps strictly in order, fail-fast, with no
// rollback. A rerun relies on step preconditions to skip completed work, so
// the overall run is idempotent by reentry rather than transactional.
type Orchestrator struct {
	steps  *StepRunner
	logger ports.Logger
	interp *statekit.Interpreter[phaseRun]
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(logger ports.Logger) *Orchestrator {
	return &Orchestrator{
		steps:  NewStepRunner(logger),
		logger: logger,
	}
}

// State returns the orchestrator's current state.
func (o *Orchestrator) State() State {
	if o.interp == nil {
		return StatePending
	}
	return State(o.interp.State().Value)
}

// Run executes one phase: merge the secrets file, check required variables,
// then run every step in order. The first failed step aborts the run and its
// error is returned alongside the results gathered so far.
func (o *Orchestrator) Run(rctx RunContext, phase Phase) ([]StepResult, error) {
	interp, err := buildPhaseMachine(phase.Name)
	if err != nil {
		return nil, fmt.Errorf("build phase state machine: %w", err)
	}
	o.interp = interp
	o.interp.Start()

	log := o.logger.With(ports.F("phase", phase.Name))

	o.interp.Send(statekit.Event{Type: eventPrepare})
	if err := o.prepare(rctx, phase); err != nil {
		o.interp.Send(statekit.Event{Type: eventFail})
		return nil, err
	}
	o.interp.Send(statekit.Event{Type: eventPrepared})

	log.Info(rctx.Context(), "phase starting", ports.F("steps", len(phase.Steps)))

	results := make([]StepResult, 0, len(phase.Steps))
	for _, step := range phase.Steps {
		if err := rctx.Context().Err(); err != nil {
			o.interp.Send(statekit.Event{Type: eventFail})
			return results, err
		}

		result := o.steps.Run(rctx.WithLogger(log), step)
		results = append(results, result)

		if result.Failed() {
			log.Error(rctx.Context(), "phase failed", ports.F("step", result.ID().String()))
			o.interp.Send(statekit.Event{Type: eventFail})
			return results, result.Err()
		}
	}

	o.interp.Send(statekit.Event{Type: eventComplete})
	log.Info(rctx.Context(), "phase complete")
	return results, nil
}

// prepare enforces the phase gates before any installation begins.
func (o *Orchestrator) prepare(rctx RunContext, phase Phase) error {
	if phase.SecretsFile != "" {
		err := env.LoadSecretsFile(rctx.Env(), phase.SecretsFile)
		switch {
		case err == nil:
		case errors.Is(err, env.ErrSecretsFileNotFound):
			if phase.SecretsFileMandatory {
				return NewMissingConfigurationError(
					fmt.Sprintf("secrets file %s", phase.SecretsFile),
					phase.SecretsRemediation,
				)
			}
		default:
			return err
		}
	}

	if missing := rctx.Env().Missing(phase.RequiredEnv); len(missing) > 0 {
		remediation := phase.SecretsRemediation
		if remediation == "" {
			remediation = fmt.Sprintf("export %s before rerunning", missing[0])
		}
		return NewMissingConfigurationError(
			fmt.Sprintf("environment variable %s", missing[0]),
			remediation,
		)
	}

	return nil
}

func buildPhaseMachine(name string) (*statekit.Interpreter[phaseRun], error) {
	machine, err := statekit.NewMachine[phaseRun]("setup-" + name).
		WithInitial(statekit.StateID(StatePending)).
		WithContext(phaseRun{Phase: name}).
		State(statekit.StateID(StatePending)).
		On(eventPrepare).Target(statekit.StateID(StatePreparing)).Done().
		State(statekit.StateID(StatePreparing)).
		On(eventPrepared).Target(statekit.StateID(StateRunning)).
		On(eventFail).Target(statekit.StateID(StateFailed)).Done().
		State(statekit.StateID(StateRunning)).
		On(eventComplete).Target(statekit.StateID(StateComplete)).
		On(eventFail).Target(statekit.StateID(StateFailed)).Done().
		State(statekit.StateID(StateComplete)).
		On(eventReset).Target(statekit.StateID(StatePending)).Done().
		State(statekit.StateID(StateFailed)).
		On(eventReset).Target(statekit.StateID(StatePending)).Done().
		Build()
	if err != nil {
		return nil, err
	}

	return statekit.NewInterpreter(machine), nil
}
