// Package builder is the block-assembly layer: it expands a modelspec's
// declarations into concrete registrations on an engine context. Variables
// expand over the cartesian product of their index sets; each block's
// equations expand into one record per index tuple, in declaration order.
package builder

import (
	"context"
	"fmt"

	"github.com/vk/equisolve/internal/ctxlog"
	"github.com/vk/equisolve/internal/engine"
	"github.com/vk/equisolve/internal/modelspec"
)

// Builder populates an engine context from one spec.
type Builder struct {
	spec   *modelspec.Spec
	params *modelspec.ParamTable
}

// New returns a builder over the given spec.
func New(spec *modelspec.Spec) *Builder {
	return &Builder{spec: spec, params: modelspec.NewParamTable(spec)}
}

// RegisterVariables creates and registers a solver variable for every
// member combination of each declared variable family. Runs once, before
// the per-block Build calls.
func (b *Builder) RegisterVariables(ctx context.Context, cctx *engine.Context) error {
	logger := ctxlog.FromContext(ctx)
	model := cctx.Model()
	if model == nil {
		return engine.ErrNoModel
	}

	registered := 0
	for _, decl := range b.spec.Variables {
		tuples, err := b.expand(decl.Index)
		if err != nil {
			return fmt.Errorf("variable %q: %w", decl.Name, err)
		}
		for _, tuple := range tuples {
			name := engine.QualifiedName(decl.Name, tuple)
			v := model.NewVariable(name)
			if decl.Start != nil {
				v.SetStart(*decl.Start)
			}
			if decl.Lower != nil {
				v.SetLower(*decl.Lower)
			}
			if decl.Upper != nil {
				v.SetUpper(*decl.Upper)
			}
			if decl.Fixed != nil {
				v.Fix(*decl.Fixed)
			}
			cctx.RegisterVariable(name, v)
			registered++
		}
	}

	logger.Debug("Variables registered.", "count", registered)
	return nil
}

// Build registers one block's equation instances. Called once per block, in
// the spec's block order, before compilation.
func (b *Builder) Build(ctx context.Context, block *modelspec.Block, cctx *engine.Context) error {
	logger := ctxlog.FromContext(ctx)

	instances := 0
	for _, eq := range block.Equations {
		if eq.Objective != nil {
			cctx.RegisterEquation(eq.Tag, block.Name, engine.Payload{
				ObjectiveExpr: eq.Objective,
				Sense:         eq.Sense,
				Params:        b.params,
			})
			instances++
			continue
		}

		tuples, err := b.expand(eq.Index)
		if err != nil {
			return fmt.Errorf("equation %q: %w", eq.Tag, err)
		}

		var mcp *engine.MCPRef
		switch {
		case eq.MCP != nil:
			mcp = &engine.MCPRef{Expr: eq.MCP}
		case eq.MCPName != "":
			mcp = &engine.MCPRef{Name: eq.MCPName}
		}

		for _, tuple := range tuples {
			cctx.RegisterEquation(eq.Tag, block.Name, engine.Payload{
				Expr:       eq.Expr,
				IndexNames: eq.Index,
				Indices:    tuple,
				Params:     b.params,
				MCP:        mcp,
			})
			instances++
		}
	}

	logger.Debug("Block registered.", "block", block.Name, "instances", instances)
	return nil
}

// expand builds the cartesian product of the named sets, rightmost index
// varying fastest. No index names yields a single empty tuple.
func (b *Builder) expand(indexNames []string) ([][]string, error) {
	if len(indexNames) == 0 {
		return [][]string{nil}, nil
	}

	tuples := [][]string{{}}
	for _, name := range indexNames {
		members, ok := b.spec.Sets[name]
		if !ok {
			return nil, fmt.Errorf("index %q does not name a declared set", name)
		}
		if len(members) == 0 {
			return nil, fmt.Errorf("set %q has no members", name)
		}
		next := make([][]string, 0, len(tuples)*len(members))
		for _, prefix := range tuples {
			for _, member := range members {
				tuple := make([]string, len(prefix), len(prefix)+1)
				copy(tuple, prefix)
				next = append(next, append(tuple, member))
			}
		}
		tuples = next
	}
	return tuples, nil
}
