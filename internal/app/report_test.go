package app_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/opsbench/setup/internal/app"
	"github.com/opsbench/setup/internal/domain/provision"
)

func TestRenderReport(t *testing.T) {
	t.Parallel()

	results := []provision.StepResult{
		provision.NewStepResult(provision.MustNewStepID("doppler:install"), provision.OutcomeSkipped, nil).
			WithDuration(12 * time.Millisecond),
		provision.NewStepResult(provision.MustNewStepID("gh:install"), provision.OutcomeInstalled, nil).
			WithDuration(3 * time.Second),
	}

	out := app.RenderReport("phase1", results, 3*time.Second)

	assert.Contains(t, out, "phase1 results")
	assert.Contains(t, out, "doppler:install")
	assert.Contains(t, out, "skipped")
	assert.Contains(t, out, "installed")
	assert.Contains(t, out, "total 3s")
}

func TestRenderReport_FailureShowsError(t *testing.T) {
	t.Parallel()

	results := []provision.StepResult{
		provision.NewStepResult(provision.MustNewStepID("docker:install"), provision.OutcomeFailed,
			errors.New("docker install failed with exit code 100")),
	}

	out := app.RenderReport("phase2", results, time.Second)

	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "exit code 100")
}
