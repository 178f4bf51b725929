// Package provision defines the step model and the orchestrator that walks
// ordered provisioning phases: install, authenticate, and verify one external
// tool at a time, skipping work whose precondition already holds and halting
// the whole run on the first unrecoverable failure.
package provision

// Step is the unit of provisioning work for one external tool.
//
// Check is the precondition probe: it reports true when the tool is already
// installed, in which case Install (and authentication) are skipped entirely.
// A missing executable or a non-zero probe exit is a normal false, never an
// error; only environment failures (cannot fork, permissions) are errors.
//
// Verify is a confidence check run after every step, including skipped ones.
// Its output is surfaced to the operator but a failure does not abort the
// run; Install and Authenticate already gated success.
type Step interface {
	// ID returns the unique identifier for this step.
	ID() StepID

	// RequiredEnv returns the environment variable names this step needs
	// before Install may be attempted.
	RequiredEnv() []string

	// Check reports whether the step's desired state already holds.
	Check(ctx RunContext) (bool, error)

	// Install performs the tool installation.
	Install(ctx RunContext) error

	// Verify surfaces a confidence signal (typically version/status output).
	Verify(ctx RunContext) error
}

// Authenticator is implemented by steps whose tool needs credentials after
// installation. AuthCheck reports whether the tool is already authenticated,
// in which case Authenticate is skipped.
type Authenticator interface {
	Step

	// AuthCheck reports whether the tool is already authenticated.
	AuthCheck(ctx RunContext) (bool, error)

	// Authenticate performs the tool's login flow.
	Authenticate(ctx RunContext) error
}

// AsAuthenticator attempts to cast a step to Authenticator.
// Returns nil if the step has no authentication lifecycle.
func AsAuthenticator(step Step) Authenticator {
	if a, ok := step.(Authenticator); ok {
		return a
	}
	return nil
}
