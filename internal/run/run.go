// Package run sequences one full evaluation: context construction, block
// registration, optional variable fixing, compilation, solving, residual
// summarization, and dataset export. The sequence is synchronous and
// single-pass; any fatal condition from a sub-step propagates unmodified.
package run

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/equisolve/internal/builder"
	"github.com/vk/equisolve/internal/ctxlog"
	"github.com/vk/equisolve/internal/engine"
	"github.com/vk/equisolve/internal/export"
	"github.com/vk/equisolve/internal/modelspec"
	"github.com/vk/equisolve/internal/solver"
)

// Options tunes one run. The zero value compiles with the default backend,
// no objective skipping, and a generated dataset ID.
type Options struct {
	// Optimizer, when non-nil, replaces the model's backend configuration
	// before solving.
	Optimizer *solver.Config

	// DatasetID identifies the exported dataset; empty generates a UUID.
	DatasetID string

	// Description is carried into the exported dataset.
	Description string

	// Tol is the residual tolerance for the summary and the export's
	// binding flag.
	Tol float64

	// CompileAST disables compilation when false; the run then solves (and
	// summarizes) whatever constraints the context already carries.
	CompileAST bool

	// Params overrides every equation record's own parameter source.
	Params engine.ParamSource

	// CompileObjective controls whether a stashed objective is installed.
	CompileObjective bool

	// MCPFix pins named variables before solving. A name that resolves to
	// no registered variable is fatal.
	MCPFix map[string]float64
}

// DefaultOptions returns the options a plain run uses.
func DefaultOptions() Options {
	return Options{Tol: 1e-6, CompileAST: true, CompileObjective: true}
}

// Result bundles everything one run produces.
type Result struct {
	Context *engine.Context
	Summary engine.Summary
	Dataset *export.Dataset
}

// Run evaluates one spec end to end and returns the context, the residual
// summary, and the exported dataset.
func Run(ctx context.Context, spec *modelspec.Spec, opts Options) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	model := solver.NewModel()
	cctx := engine.NewContext(model)

	b := builder.New(spec)
	if err := b.RegisterVariables(ctx, cctx); err != nil {
		return nil, err
	}
	for _, block := range spec.Blocks {
		if err := b.Build(ctx, block, cctx); err != nil {
			return nil, fmt.Errorf("block %q: %w", block.Name, err)
		}
	}

	if len(opts.MCPFix) > 0 {
		if err := fixVariables(cctx, opts.MCPFix); err != nil {
			return nil, err
		}
		logger.Debug("Variables fixed for MCP run.", "count", len(opts.MCPFix))
	}

	if opts.CompileAST {
		if err := engine.CompileEquations(ctx, cctx, opts.Params, opts.CompileObjective); err != nil {
			return nil, err
		}
	}

	if err := cctx.Solve(ctx, opts.Optimizer); err != nil {
		return nil, err
	}

	summary := engine.Summarize(cctx, opts.Tol)
	dataset := export.Build(cctx, opts.DatasetID, opts.Description, opts.Tol)

	logger.Info("Run complete.",
		"dataset", dataset.ID,
		"residuals", summary.Count,
		"max_abs_residual", summary.MaxAbs,
		"above_tol", summary.AboveTol)

	return &Result{Context: cctx, Summary: summary, Dataset: dataset}, nil
}

// fixVariables pins each named variable, in name order for deterministic
// failure reporting.
func fixVariables(cctx *engine.Context, fixes map[string]float64) error {
	names := make([]string, 0, len(fixes))
	for name := range fixes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v, ok := cctx.Variable(name)
		if !ok {
			return fmt.Errorf("%w: cannot fix %q", engine.ErrMissingVariable, name)
		}
		v.Fix(fixes[name])
	}
	return nil
}
