package provision

import "time"

// Outcome classifies what happened to one step.
type Outcome string

const (
	// OutcomeSkipped means the precondition already held; install and
	// authenticate were never invoked.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeInstalled means install (and authenticate, where defined) ran
	// to completion.
	OutcomeInstalled Outcome = "installed"
	// OutcomePlanned means a dry run determined the step would install.
	OutcomePlanned Outcome = "planned"
	// OutcomeFailed means the step aborted the run.
	OutcomeFailed Outcome = "failed"
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	return string(o)
}

// StepResult records the outcome of running one step.
type StepResult struct {
	id       StepID
	outcome  Outcome
	err      error
	duration time.Duration
}

// NewStepResult creates a StepResult.
func NewStepResult(id StepID, outcome Outcome, err error) StepResult {
	return StepResult{id: id, outcome: outcome, err: err}
}

// WithDuration returns a copy with the duration set.
func (r StepResult) WithDuration(d time.Duration) StepResult {
	r.duration = d
	return r
}

// ID returns the step this result belongs to.
func (r StepResult) ID() StepID {
	return r.id
}

// Outcome returns the step outcome.
func (r StepResult) Outcome() Outcome {
	return r.outcome
}

// Err returns the failure, or nil.
func (r StepResult) Err() error {
	return r.err
}

// Duration returns how long the step took.
func (r StepResult) Duration() time.Duration {
	return r.duration
}

// Failed reports whether the step aborted the run.
func (r StepResult) Failed() bool {
	return r.outcome == OutcomeFailed
}
