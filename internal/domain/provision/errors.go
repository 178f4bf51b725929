package provision

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for provisioning failures.
const (
	// ErrCodeMissingConfiguration reports a required file or variable that is
	// absent. The error always carries the exact remediation command.
	ErrCodeMissingConfiguration = "MISSING_CONFIGURATION"
	// ErrCodeExternalCommand reports an install/authenticate subprocess that
	// returned non-zero. It is propagated, never retried.
	ErrCodeExternalCommand = "EXTERNAL_COMMAND"
	// ErrCodeInvalidInput reports an unusable interactive answer.
	ErrCodeInvalidInput = "INVALID_INPUT"
)

// SetupError is a user-facing provisioning error with an actionable
// remediation. All three codes are fatal to the current phase: there is no
// partial-failure continuation and no rollback of completed steps.
type SetupError struct {
	Code        string // Error code for categorization
	Message     string // User-friendly error message
	Step        string // Step ID if the failure belongs to a step
	Remediation string // Exact command or action that fixes the condition
	ExitCode    int    // Subprocess exit code for EXTERNAL_COMMAND, else 0
	Underlying  error  // Wrapped error for error chain
}

// Error returns the formatted error message.
func (e *SetupError) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("step %q: %s", e.Step, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain support.
func (e *SetupError) Unwrap() error {
	return e.Underlying
}

// Is supports errors.Is() comparison by error code.
func (e *SetupError) Is(target error) bool {
	if t, ok := target.(*SetupError); ok {
		return e.Code == t.Code
	}
	return false
}

// Format returns a fully formatted error with all details.
func (e *SetupError) Format() string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)

	if e.Step != "" {
		fmt.Fprintf(&b, "\n  Step: %s", e.Step)
	}
	if e.Remediation != "" {
		fmt.Fprintf(&b, "\n  Run: %s", e.Remediation)
	}
	if e.Underlying != nil {
		fmt.Fprintf(&b, "\n  Cause: %s", e.Underlying.Error())
	}

	return b.String()
}

// WithStep returns a copy of the error attributed to a step.
func (e *SetupError) WithStep(stepID string) *SetupError {
	clone := *e
	clone.Step = stepID
	return &clone
}

// NewMissingConfigurationError creates an error for an absent required file
// or variable. remediation is the exact follow-up command the operator must
// run before retrying.
func NewMissingConfigurationError(what, remediation string) *SetupError {
	return &SetupError{
		Code:        ErrCodeMissingConfiguration,
		Message:     fmt.Sprintf("%s is required but missing", what),
		Remediation: remediation,
	}
}

// NewExternalCommandError creates an error for a failed subprocess.
func NewExternalCommandError(action string, exitCode int, stderr string) *SetupError {
	msg := fmt.Sprintf("%s failed with exit code %d", action, exitCode)
	if s := strings.TrimSpace(stderr); s != "" {
		msg = fmt.Sprintf("%s: %s", msg, s)
	}
	return &SetupError{
		Code:     ErrCodeExternalCommand,
		Message:  msg,
		ExitCode: exitCode,
	}
}

// NewInvalidInputError creates an error for an unusable prompt answer.
func NewInvalidInputError(message string) *SetupError {
	return &SetupError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}

// IsMissingConfiguration reports whether err is a MISSING_CONFIGURATION error.
func IsMissingConfiguration(err error) bool {
	return isCode(err, ErrCodeMissingConfiguration)
}

// IsInvalidInput reports whether err is an INVALID_INPUT error.
func IsInvalidInput(err error) bool {
	return isCode(err, ErrCodeInvalidInput)
}

func isCode(err error, code string) bool {
	var se *SetupError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}
