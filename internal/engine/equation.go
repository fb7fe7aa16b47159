package engine

import (
	"context"
	"fmt"

	"github.com/vk/equisolve/internal/ast"
	"github.com/vk/equisolve/internal/ctxlog"
	"github.com/vk/equisolve/internal/solver"
)

// CompileEquation lowers one equality-shaped equation AST into a solver
// constraint. With an MCP reference the residual lhs - rhs is declared
// complementary to the referenced bounded variable; otherwise a plain
// equality is emitted. indices is the equation instance's own index tuple,
// inherited by unindexed references inside the equation.
func CompileEquation(eq ast.Node, cctx *Context, params ParamSource, indices []string, env *IndexEnv, mcp *MCPRef) (*solver.Constraint, error) {
	node, ok := eq.(*ast.Eq)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedEquation, eq)
	}
	if cctx.Model() == nil {
		return nil, ErrNoModel
	}

	lhs, err := CompileExpr(node.LHS, cctx, params, indices, env)
	if err != nil {
		return nil, err
	}
	rhs, err := CompileExpr(node.RHS, cctx, params, indices, env)
	if err != nil {
		return nil, err
	}

	if mcp == nil {
		return cctx.Model().AddEquality(lhs, rhs), nil
	}

	v, err := resolveMCPVariable(mcp, cctx, indices, env)
	if err != nil {
		return nil, err
	}
	return cctx.Model().AddComplementarity(lhs, rhs, v), nil
}

// resolveMCPVariable turns an MCP reference into a variable handle. A
// variable-reference AST resolves with the instance's indices like any other
// reference; a bare name is looked up verbatim.
func resolveMCPVariable(mcp *MCPRef, cctx *Context, indices []string, env *IndexEnv) (*solver.Variable, error) {
	name := mcp.Name
	if mcp.Expr != nil {
		resolved, err := resolveIndexTerms(mcp.Expr.Indices, indices, env)
		if err != nil {
			return nil, err
		}
		name = QualifiedName(mcp.Expr.Name, resolved)
	}
	v, ok := cctx.Variable(name)
	if !ok {
		return nil, fmt.Errorf("%w: mcp variable %q", ErrMissingVariable, name)
	}
	return v, nil
}

// CompileObjective compiles a record's objective expression under the same
// index-environment rules as any equation and installs it as the model's
// single objective. An unrecognized sense name is fatal.
func CompileObjective(rec *Record, cctx *Context, params ParamSource) error {
	if cctx.Model() == nil {
		return ErrNoModel
	}
	sense, err := solver.ParseSense(rec.Payload.Sense)
	if err != nil {
		return fmt.Errorf("objective %q/%q: %w", rec.Block, rec.Tag, err)
	}

	env := newInstanceEnv(rec.Payload)
	expr, err := CompileExpr(rec.Payload.ObjectiveExpr, cctx, params, rec.Payload.Indices, env)
	if err != nil {
		return fmt.Errorf("objective %q/%q: %w", rec.Block, rec.Tag, err)
	}
	if err := cctx.Model().SetObjective(expr, sense); err != nil {
		return fmt.Errorf("objective %q/%q: %w", rec.Block, rec.Tag, err)
	}
	return nil
}

// newInstanceEnv seeds an index environment with the record's own index
// tuple. Positional pairs beyond the shorter of the two lists are ignored.
func newInstanceEnv(p Payload) *IndexEnv {
	env := NewIndexEnv()
	for i, name := range p.IndexNames {
		if i >= len(p.Indices) {
			break
		}
		env.Bind(name, p.Indices[i])
	}
	return env
}

// CompileEquations makes one pass over the registry in registration order,
// compiling every equation record that does not already carry a constraint
// handle. Records whose equation AST is raw are skipped. A second
// objective-bearing record is fatal. A non-nil params overrides each
// record's own parameter source. The stashed objective, if any, is compiled
// after the pass when compileObjective is true.
func CompileEquations(ctx context.Context, cctx *Context, params ParamSource, compileObjective bool) error {
	logger := ctxlog.FromContext(ctx)

	var objective *Record
	compiled := 0

	for _, rec := range cctx.Equations() {
		p := rec.Payload

		if p.ObjectiveExpr != nil {
			if objective != nil {
				return fmt.Errorf("%w: %q/%q and %q/%q",
					ErrMultipleObjectives,
					objective.Block, objective.Tag, rec.Block, rec.Tag)
			}
			objective = rec
		}

		if p.Expr == nil || rec.Constraint() != nil {
			continue
		}
		if _, isRaw := p.Expr.(*ast.Raw); isRaw {
			continue
		}

		effParams := params
		if effParams == nil {
			effParams = p.Params
		}

		env := newInstanceEnv(p)
		con, err := CompileEquation(p.Expr, cctx, effParams, p.Indices, env, p.MCP)
		if err != nil {
			return fmt.Errorf("equation %q/%q%v: %w", rec.Block, rec.Tag, p.Indices, err)
		}
		rec.Compiled(con)
		compiled++
	}

	logger.Debug("Equation pass complete.",
		"compiled", compiled,
		"registered", len(cctx.Equations()),
		"has_objective", objective != nil)

	if objective != nil && compileObjective {
		effParams := params
		if effParams == nil {
			effParams = objective.Payload.Params
		}
		if err := CompileObjective(objective, cctx, effParams); err != nil {
			return err
		}
		logger.Debug("Objective compiled.", "block", objective.Block, "tag", objective.Tag)
	}
	return nil
}
