package solver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/equisolve/internal/solver"
)

func TestParseSense(t *testing.T) {
	s, err := solver.ParseSense("")
	require.NoError(t, err)
	require.Equal(t, solver.Maximize, s)

	s, err = solver.ParseSense("minimize")
	require.NoError(t, err)
	require.Equal(t, solver.Minimize, s)

	_, err = solver.ParseSense("sideways")
	require.ErrorIs(t, err, solver.ErrBadSense)
}

func TestSetObjectiveRejectsSecond(t *testing.T) {
	m := solver.NewModel()
	require.NoError(t, m.SetObjective(solver.Constant(1), solver.Maximize))
	require.ErrorIs(t, m.SetObjective(solver.Constant(2), solver.Minimize), solver.ErrObjectiveSet)
}

func TestObjectiveValue(t *testing.T) {
	m := solver.NewModel()
	_, ok := m.ObjectiveValue()
	require.False(t, ok)

	x := m.NewVariable("x")
	x.Fix(3)
	require.NoError(t, m.SetObjective(x, solver.Maximize))

	val, ok := m.ObjectiveValue()
	require.True(t, ok)
	require.Equal(t, 3.0, val)
}

func TestSolveUnknownBackend(t *testing.T) {
	m := solver.NewModel()
	m.SetOptimizer(solver.Config{Backend: "simplex"})
	err := m.Solve(context.Background())
	require.ErrorIs(t, err, solver.ErrUnknownBackend)
	require.Contains(t, err.Error(), `"simplex"`)
}

func TestKnownBackend(t *testing.T) {
	require.True(t, solver.KnownBackend("newton"))
	require.True(t, solver.KnownBackend("evaluate"))
	require.False(t, solver.KnownBackend("simplex"))
}

func TestEvaluateBackendRecordsResiduals(t *testing.T) {
	m := solver.NewModel()
	m.SetOptimizer(solver.Config{Backend: "evaluate"})

	x := m.NewVariable("x")
	x.SetStart(4)
	c := m.AddEquality(x, solver.Constant(10))

	_, ok := c.Residual()
	require.False(t, ok)

	require.NoError(t, m.Solve(context.Background()))
	val, ok := c.Residual()
	require.True(t, ok)
	require.Equal(t, -6.0, val)
}

func TestNewtonSolvesLinearSystem(t *testing.T) {
	// x + y = 10, x - y = 2  =>  x = 6, y = 4
	m := solver.NewModel()
	x := m.NewVariable("x")
	y := m.NewVariable("y")
	x.SetStart(1)
	y.SetStart(1)

	m.AddEquality(solver.Add(x, y), solver.Constant(10))
	m.AddEquality(solver.Sub(x, y), solver.Constant(2))

	require.NoError(t, m.Solve(context.Background()))

	xv, err := x.Value()
	require.NoError(t, err)
	yv, err := y.Value()
	require.NoError(t, err)
	require.InDelta(t, 6.0, xv, 1e-6)
	require.InDelta(t, 4.0, yv, 1e-6)
}

func TestNewtonSolvesNonlinearEquation(t *testing.T) {
	// x^2 = 4, starting from x = 1, stays on the positive root.
	m := solver.NewModel()
	x := m.NewVariable("x")
	x.SetStart(1)
	m.AddEquality(solver.Pow(x, solver.Constant(2)), solver.Constant(4))

	require.NoError(t, m.Solve(context.Background()))
	xv, err := x.Value()
	require.NoError(t, err)
	require.InDelta(t, 2.0, xv, 1e-6)
}

func TestNewtonRespectsFixedVariables(t *testing.T) {
	// y is pinned, so x + y = 10 must be solved for x alone.
	m := solver.NewModel()
	x := m.NewVariable("x")
	y := m.NewVariable("y")
	x.SetStart(0)
	y.Fix(3)

	m.AddEquality(solver.Add(x, y), solver.Constant(10))

	require.NoError(t, m.Solve(context.Background()))
	xv, err := x.Value()
	require.NoError(t, err)
	require.InDelta(t, 7.0, xv, 1e-6)
	require.Equal(t, 3.0, y.Eval())
}

func TestNewtonHonorsCancellation(t *testing.T) {
	m := solver.NewModel()
	x := m.NewVariable("x")
	x.SetStart(1)
	m.AddEquality(x, solver.Constant(2))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, m.Solve(ctx), context.Canceled)
}

func TestSolveClampsIntoBounds(t *testing.T) {
	m := solver.NewModel()
	m.SetOptimizer(solver.Config{Backend: "evaluate"})

	x := m.NewVariable("x")
	x.SetLower(0)
	x.SetStart(-5)

	require.NoError(t, m.Solve(context.Background()))
	xv, err := x.Value()
	require.NoError(t, err)
	require.Equal(t, 0.0, xv)
}

func TestComplementarityKeepsPairing(t *testing.T) {
	m := solver.NewModel()
	x := m.NewVariable("x")
	v := m.NewVariable("v")
	x.Fix(1)
	v.Fix(0)

	c := m.AddComplementarity(x, solver.Constant(1), v)
	require.Same(t, v, c.ComplementaryTo())

	eq := m.AddEquality(x, solver.Constant(1))
	require.Nil(t, eq.ComplementaryTo())
}
