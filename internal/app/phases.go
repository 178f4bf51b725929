// Package app assembles phases, runs them, and reports the outcome.
package app

import (
	"fmt"

	"github.com/opsbench/setup/internal/domain/config"
	"github.com/opsbench/setup/internal/domain/provision"
	"github.com/opsbench/setup/internal/ports"
	"github.com/opsbench/setup/internal/provider/docker"
	"github.com/opsbench/setup/internal/provider/doppler"
	"github.com/opsbench/setup/internal/provider/duckdb"
	"github.com/opsbench/setup/internal/provider/ghcli"
	"github.com/opsbench/setup/internal/provider/s2"
	"github.com/opsbench/setup/internal/provider/tailscale"
	"github.com/opsbench/setup/internal/provider/tinybird"
)

// Phase names accepted on the command line.
const (
	Phase1 = "phase1"
	Phase2 = "phase2"
)

const secretsRemediation = "doppler secrets download --no-file --format env > .env.secrets"

// BuildPhase assembles the named phase from the tool providers, honoring the
// config's disabled list. Unknown names are an error.
func BuildPhase(name string, runner ports.CommandRunner, prompter ports.Prompter, cfg *config.Config) (provision.Phase, error) {
	switch name {
	case Phase1:
		return buildPhase1(runner, cfg), nil
	case Phase2:
		return buildPhase2(runner, prompter, cfg), nil
	default:
		return provision.Phase{}, fmt.Errorf("unknown phase %q (want %s or %s)", name, Phase1, Phase2)
	}
}

// buildPhase1 installs the tools needed to fetch secrets: Doppler first, so
// the GitHub token can come out of Doppler on a rerun.
func buildPhase1(runner ports.CommandRunner, cfg *config.Config) provision.Phase {
	var steps []provision.Step
	if cfg.ToolEnabled("doppler") {
		steps = append(steps, doppler.NewInstallStep(runner))
	}
	if cfg.ToolEnabled("gh") {
		steps = append(steps, ghcli.NewInstallStep(runner))
	}
	return provision.Phase{
		Name:        Phase1,
		Description: "secret management and source control tooling",
		SecretsFile: cfg.SecretsFile,
		Steps:       steps,
	}
}

// buildPhase2 installs the workload tools. It requires the secrets file that
// phase 1 made obtainable.
func buildPhase2(runner ports.CommandRunner, prompter ports.Prompter, cfg *config.Config) provision.Phase {
	var steps []provision.Step
	if cfg.ToolEnabled("tailscale") {
		opts := []tailscale.Option{
			tailscale.WithSettleTimeout(cfg.SettleTimeout(tailscale.DefaultSettleTimeout)),
		}
		steps = append(steps, tailscale.NewInstallStep(runner, prompter, opts...))
	}
	if cfg.ToolEnabled("docker") {
		steps = append(steps, docker.NewInstallStep(runner))
	}
	if cfg.ToolEnabled("duckdb") {
		steps = append(steps, duckdb.NewInstallStep(runner))
	}
	if cfg.ToolEnabled("tinybird") {
		steps = append(steps, tinybird.NewInstallStep(runner))
	}
	if cfg.ToolEnabled("s2") {
		steps = append(steps, s2.NewInstallStep(runner))
	}
	return provision.Phase{
		Name:                 Phase2,
		Description:          "network, container, and data tooling",
		SecretsFile:          cfg.SecretsFile,
		SecretsFileMandatory: true,
		SecretsRemediation:   secretsRemediation,
		RequiredEnv:          requiredEnvFor(steps),
		Steps:                steps,
	}
}

// requiredEnvFor collects every step's required variables so the phase can
// fail before any step runs rather than midway through.
func requiredEnvFor(steps []provision.Step) []string {
	seen := make(map[string]bool)
	var vars []string
	for _, step := range steps {
		for _, v := range step.RequiredEnv() {
			if !seen[v] {
				seen[v] = true
				vars = append(vars, v)
			}
		}
	}
	return vars
}

// PhaseNames returns the phases in run order.
func PhaseNames() []string {
	return []string{Phase1, Phase2}
}
