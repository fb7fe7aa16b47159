package solver

import (
	"context"
	"fmt"
	"math"

	"github.com/vk/equisolve/internal/ctxlog"
)

// Sense is the optimization direction of the model's objective.
type Sense int

const (
	Maximize Sense = iota
	Minimize
)

// senseNames is the explicit name table for Sense values. Lookups go through
// this table rather than any reflective enumeration.
var senseNames = map[string]Sense{
	"maximize": Maximize,
	"minimize": Minimize,
}

// ParseSense maps a symbolic sense name to its constant. The empty string
// defaults to Maximize.
func ParseSense(name string) (Sense, error) {
	if name == "" {
		return Maximize, nil
	}
	s, ok := senseNames[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrBadSense, name)
	}
	return s, nil
}

func (s Sense) String() string {
	if s == Minimize {
		return "minimize"
	}
	return "maximize"
}

// Constraint is a compiled equation. Its residual expression is lhs - rhs;
// comp is the complementary variable for MCP constraints and nil for plain
// equalities. The residual value is populated by Solve.
type Constraint struct {
	residual Expr
	comp     *Variable
	value    float64
	solved   bool
}

// Residual returns the residual value recorded by the last solve.
func (c *Constraint) Residual() (float64, bool) {
	if !c.solved {
		return 0, false
	}
	return c.value, true
}

// ComplementaryTo returns the paired variable of an MCP constraint, or nil.
func (c *Constraint) ComplementaryTo() *Variable { return c.comp }

// objective is the model's single optional objective.
type objective struct {
	expr  Expr
	sense Sense
}

// Model owns the numeric side of one run: variables, constraints, at most
// one objective, and the backend configuration. It is not safe for
// concurrent use; one run sequence owns it exclusively.
type Model struct {
	vars []*Variable
	cons []*Constraint
	obj  *objective
	cfg  Config
}

// NewModel returns an empty model with the default backend configuration.
func NewModel() *Model {
	return &Model{cfg: DefaultConfig()}
}

// NewVariable creates a variable handle owned by this model. The value
// starts unassigned (NaN) until a start value or fix is applied.
func (m *Model) NewVariable(name string) *Variable {
	v := &Variable{name: name, value: math.NaN()}
	m.vars = append(m.vars, v)
	return v
}

// AddEquality records the constraint lhs == rhs and returns its handle.
func (m *Model) AddEquality(lhs, rhs Expr) *Constraint {
	c := &Constraint{residual: Sub(lhs, rhs)}
	m.cons = append(m.cons, c)
	return c
}

// AddComplementarity records an MCP pairing: at a solution either v is at a
// bound or the residual lhs - rhs is zero.
func (m *Model) AddComplementarity(lhs, rhs Expr, v *Variable) *Constraint {
	c := &Constraint{residual: Sub(lhs, rhs), comp: v}
	m.cons = append(m.cons, c)
	return c
}

// SetObjective installs the model's objective. Installing a second one is an
// error; the compiler relies on this to enforce objective uniqueness.
func (m *Model) SetObjective(expr Expr, sense Sense) error {
	if m.obj != nil {
		return ErrObjectiveSet
	}
	m.obj = &objective{expr: expr, sense: sense}
	return nil
}

// HasObjective reports whether an objective has been installed.
func (m *Model) HasObjective() bool { return m.obj != nil }

// ObjectiveValue evaluates the installed objective at the current values.
func (m *Model) ObjectiveValue() (float64, bool) {
	if m.obj == nil {
		return 0, false
	}
	return m.obj.expr.Eval(), true
}

// SetOptimizer installs a backend configuration, replacing the default.
func (m *Model) SetOptimizer(cfg Config) { m.cfg = cfg }

// Variables returns the model's variables in creation order.
func (m *Model) Variables() []*Variable { return m.vars }

// Solve runs the configured backend and records every constraint's residual
// at the final values. The call is synchronous; cancellation is checked
// between backend iterations only.
func (m *Model) Solve(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	backend, ok := backends[m.cfg.Backend]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBackend, m.cfg.Backend)
	}

	logger.Debug("Solving model.",
		"backend", m.cfg.Backend,
		"variables", len(m.vars),
		"constraints", len(m.cons))

	if err := backend(ctx, m); err != nil {
		return err
	}

	for _, v := range m.vars {
		v.clamp()
	}
	for _, c := range m.cons {
		c.value = c.residual.Eval()
		c.solved = true
	}

	logger.Debug("Solve finished.", "constraints", len(m.cons))
	return nil
}
