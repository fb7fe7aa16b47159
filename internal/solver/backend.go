package solver

import (
	"context"
	"math"

	"github.com/vk/equisolve/internal/ctxlog"
)

// Config selects and tunes the solving backend installed on a model.
type Config struct {
	// Backend names an entry of the backend table: "newton" or "evaluate".
	Backend string
	// MaxIterations caps Newton iterations.
	MaxIterations int
	// Tolerance is the convergence threshold on the max absolute residual.
	Tolerance float64
	// Damping scales each Newton step; 1 is a full step.
	Damping float64
}

// DefaultConfig returns the damped-Newton configuration used when a caller
// supplies no optimizer config of its own.
func DefaultConfig() Config {
	return Config{
		Backend:       "newton",
		MaxIterations: 50,
		Tolerance:     1e-9,
		Damping:       1.0,
	}
}

// backendFn runs one backend over the model's free variables. Residual
// recording happens in Model.Solve after the backend returns.
type backendFn func(ctx context.Context, m *Model) error

// backends is the explicit name table for solver backends.
var backends = map[string]backendFn{
	"newton":   newtonSolve,
	"evaluate": evaluateSolve,
}

// KnownBackend reports whether name is a registered backend.
func KnownBackend(name string) bool {
	_, ok := backends[name]
	return ok
}

// evaluateSolve performs no iteration: unassigned variables take their start
// value and residuals are read off at the resulting point. It is the
// degenerate backend for fully-fixed systems and for pre-solve inspection.
func evaluateSolve(_ context.Context, m *Model) error {
	for _, v := range m.vars {
		if !v.fixed && math.IsNaN(v.value) {
			v.value = v.start
		}
	}
	return nil
}

// newtonSolve runs damped Newton iteration on the free variables. The
// Jacobian is approximated by forward differences and each step solves the
// normal equations, so non-square systems degrade to least squares instead
// of failing outright. Values are projected into bounds after every step.
func newtonSolve(ctx context.Context, m *Model) error {
	logger := ctxlog.FromContext(ctx)

	var free []*Variable
	for _, v := range m.vars {
		if v.fixed {
			continue
		}
		if math.IsNaN(v.value) {
			v.value = v.start
		}
		free = append(free, v)
	}
	if len(free) == 0 || len(m.cons) == 0 {
		return nil
	}

	cfg := m.cfg
	residuals := func() []float64 {
		out := make([]float64, len(m.cons))
		for i, c := range m.cons {
			out[i] = c.residual.Eval()
		}
		return out
	}

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		f := residuals()
		worst := maxAbs(f)
		logger.Debug("Newton iteration.", "iteration", iter, "max_abs_residual", worst)
		if worst <= cfg.Tolerance {
			return nil
		}

		jac := jacobian(m.cons, free, f)
		step, err := solveNormalEquations(jac, f)
		if err != nil {
			return err
		}

		for j, v := range free {
			v.value -= cfg.Damping * step[j]
			v.clamp()
		}
	}

	logger.Warn("Newton did not converge within iteration budget.",
		"iterations", cfg.MaxIterations,
		"max_abs_residual", maxAbs(residuals()))
	return nil
}

func maxAbs(xs []float64) float64 {
	worst := 0.0
	for _, x := range xs {
		if a := math.Abs(x); a > worst {
			worst = a
		}
	}
	return worst
}

// jacobian approximates dF/dx by forward differences around the current
// point. f0 is F at the current point, reused to halve the evaluations.
func jacobian(cons []*Constraint, free []*Variable, f0 []float64) [][]float64 {
	const eps = 1e-7
	jac := make([][]float64, len(cons))
	for i := range jac {
		jac[i] = make([]float64, len(free))
	}
	for j, v := range free {
		h := eps * math.Max(1, math.Abs(v.value))
		saved := v.value
		v.value = saved + h
		for i, c := range cons {
			jac[i][j] = (c.residual.Eval() - f0[i]) / h
		}
		v.value = saved
	}
	return jac
}

// solveNormalEquations solves (JᵀJ) x = JᵀF by Gaussian elimination with
// partial pivoting and returns x.
func solveNormalEquations(jac [][]float64, f []float64) ([]float64, error) {
	n := len(jac[0])
	a := make([][]float64, n)
	b := make([]float64, n)
	for i := 0; i < n; i++ {
		a[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			s := 0.0
			for k := range jac {
				s += jac[k][i] * jac[k][j]
			}
			a[i][j] = s
		}
		s := 0.0
		for k := range jac {
			s += jac[k][i] * f[k]
		}
		b[i] = s
	}

	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-14 {
			return nil, ErrSingular
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for r := col + 1; r < n; r++ {
			factor := a[r][col] / a[col][col]
			for c := col; c < n; c++ {
				a[r][c] -= factor * a[col][c]
			}
			b[r] -= factor * b[col]
		}
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		s := b[i]
		for j := i + 1; j < n; j++ {
			s -= a[i][j] * x[j]
		}
		x[i] = s / a[i][i]
	}
	return x, nil
}
