package provision

// Phase is an ordered group of provisioning steps gated by shared
// preconditions: environment keys that must be present and, optionally, a
// secrets file that must have been produced before the phase may run.
//
// Phases never auto-chain. The operator runs external collaborator commands
// between them (the secrets manager writes the secrets file after phase 1),
// so each invocation selects exactly one phase.
type Phase struct {
	// Name identifies the phase on the CLI ("phase1", "phase2").
	Name string

	// Description is a one-line summary shown in usage and reports.
	Description string

	// SecretsFile is a KEY=VALUE file merged into the environment before the
	// phase runs. Empty means no secrets file is consulted.
	SecretsFile string

	// SecretsFileMandatory makes an absent SecretsFile fatal.
	SecretsFileMandatory bool

	// SecretsRemediation is the exact command that produces SecretsFile,
	// shown when the mandatory file is missing.
	SecretsRemediation string

	// RequiredEnv lists variables that must be present (after the secrets
	// file is merged) before any step may run.
	RequiredEnv []string

	// Steps run strictly in order; the first failure aborts the phase.
	Steps []Step
}
