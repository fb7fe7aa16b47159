package engine

import (
	"context"
	"fmt"

	"github.com/vk/equisolve/internal/ast"
	"github.com/vk/equisolve/internal/ctxlog"
	"github.com/vk/equisolve/internal/solver"
)

// MCPRef names the bounded variable an equation is complementary to. Either
// Expr is a variable-reference AST resolved with the equation instance's own
// indices, or Name is a fully-qualified variable name used verbatim.
type MCPRef struct {
	Name string
	Expr *ast.Var
}

// Payload is the structured content of one registered equation record. All
// fields are optional; which ones are set determines how the compiler treats
// the record.
type Payload struct {
	// Expr is the equation AST. Records without one (pure objective
	// carriers) are skipped by constraint compilation.
	Expr ast.Node

	// ObjectiveExpr, when set, marks this record as the objective carrier.
	// At most one record per context may set it.
	ObjectiveExpr ast.Node

	// Sense names the objective direction; empty defaults to maximize.
	Sense string

	// IndexNames and Indices are the equation instance's index tuple:
	// positionally matched names and concrete set members.
	IndexNames []string
	Indices    []string

	// Params is the record's own parameter source. A call-site source
	// passed to CompileEquations takes precedence over it.
	Params ParamSource

	// MCP pairs the equation with a bounded variable, switching compilation
	// from plain equality to a complementarity constraint.
	MCP *MCPRef
}

// Record is one registered equation instance. Tag names the economic
// condition, Block the owning model component. The constraint handle is
// written exactly once by compilation; the residual is populated by the
// solve step.
type Record struct {
	Tag     string
	Block   string
	Payload Payload

	constraint *solver.Constraint
	residual   *float64
}

// Compiled writes the constraint handle back into the record. It is the
// single mutation compilation performs on a record.
func (r *Record) Compiled(c *solver.Constraint) {
	r.constraint = c
}

// Constraint returns the compiled constraint handle, or nil before
// compilation.
func (r *Record) Constraint() *solver.Constraint { return r.constraint }

// Residual returns the record's residual, if the solve step populated one.
func (r *Record) Residual() (float64, bool) {
	if r.residual == nil {
		return 0, false
	}
	return *r.residual, true
}

// Context owns the variable table, the ordered equation registry, and the
// handle to the solver model. All name resolution during compilation goes
// through it.
type Context struct {
	vars      map[string]*solver.Variable
	equations []*Record
	model     *solver.Model
}

// NewContext returns a context over the given solver model. The model may be
// nil for registration-only use; Solve requires one.
func NewContext(model *solver.Model) *Context {
	return &Context{
		vars:  make(map[string]*solver.Variable),
		model: model,
	}
}

// Model returns the attached solver model, or nil.
func (c *Context) Model() *solver.Model { return c.model }

// RegisterVariable installs a variable handle under a fully-qualified name.
// Re-registering a name silently replaces the previous handle; the last
// registration wins.
func (c *Context) RegisterVariable(name string, v *solver.Variable) {
	c.vars[name] = v
}

// Variable looks a handle up by fully-qualified name.
func (c *Context) Variable(name string) (*solver.Variable, bool) {
	v, ok := c.vars[name]
	return v, ok
}

// VariableNames returns the registered names in unspecified order.
func (c *Context) VariableNames() []string {
	names := make([]string, 0, len(c.vars))
	for name := range c.vars {
		names = append(names, name)
	}
	return names
}

// RegisterEquation appends an equation record. Registration is append-only
// and performs no deduplication; avoiding duplicate tag/block/index
// combinations is the caller's job.
func (c *Context) RegisterEquation(tag, block string, payload Payload) *Record {
	rec := &Record{Tag: tag, Block: block, Payload: payload}
	c.equations = append(c.equations, rec)
	return rec
}

// Equations returns the equation records in registration order. The slice is
// shared; callers must treat it as read-only.
func (c *Context) Equations() []*Record {
	return c.equations
}

// Solve delegates to the solver backend and copies every compiled
// constraint's residual back into its record. A nil cfg keeps whatever
// optimizer configuration the model already carries.
func (c *Context) Solve(ctx context.Context, cfg *solver.Config) error {
	if c.model == nil {
		return ErrNoModel
	}
	if cfg != nil {
		c.model.SetOptimizer(*cfg)
	}

	logger := ctxlog.FromContext(ctx)
	logger.Info("Solving equation system.",
		"equations", len(c.equations),
		"variables", len(c.vars))

	if err := c.model.Solve(ctx); err != nil {
		return fmt.Errorf("solve failed: %w", err)
	}

	for _, rec := range c.equations {
		if rec.constraint == nil {
			continue
		}
		if val, ok := rec.constraint.Residual(); ok {
			v := val
			rec.residual = &v
		}
	}
	return nil
}
