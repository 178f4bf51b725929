package provision

import (
	"context"
	"io"

	"github.com/opsbench/setup/internal/domain/env"
	"github.com/opsbench/setup/internal/ports"
)

// RunContext carries the execution context, the configuration environment,
// and output plumbing to each step.
type RunContext struct {
	ctx     context.Context
	environ *env.Environment
	out     io.Writer
	logger  ports.Logger
	dryRun  bool
}

// NewRunContext creates a RunContext.
func NewRunContext(ctx context.Context, environ *env.Environment) RunContext {
	return RunContext{
		ctx:     ctx,
		environ: environ,
		out:     io.Discard,
	}
}

// Context returns the underlying context.Context.
func (r RunContext) Context() context.Context {
	return r.ctx
}

// Env returns the configuration environment for this run.
func (r RunContext) Env() *env.Environment {
	return r.environ
}

// Out returns the writer step output is surfaced on.
func (r RunContext) Out() io.Writer {
	return r.out
}

// Logger returns the run logger. The step runner guarantees it is set
// before any step sees the context.
func (r RunContext) Logger() ports.Logger {
	return r.logger
}

// DryRun returns whether this is a dry-run execution.
func (r RunContext) DryRun() bool {
	return r.dryRun
}

// WithOut returns a RunContext with the output writer set.
func (r RunContext) WithOut(out io.Writer) RunContext {
	r.out = out
	return r
}

// WithLogger returns a RunContext with the logger set.
func (r RunContext) WithLogger(logger ports.Logger) RunContext {
	r.logger = logger
	return r
}

// WithDryRun returns a RunContext with the dry-run flag set.
func (r RunContext) WithDryRun(dryRun bool) RunContext {
	r.dryRun = dryRun
	return r
}
