package solver_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/equisolve/internal/solver"
)

func TestExprConstructors(t *testing.T) {
	two := solver.Constant(2)
	three := solver.Constant(3)

	require.Equal(t, 5.0, solver.Add(two, three).Eval())
	require.Equal(t, 0.0, solver.Add().Eval())
	require.Equal(t, 6.0, solver.Mul(two, three).Eval())
	require.Equal(t, 8.0, solver.Pow(two, three).Eval())
	require.Equal(t, 1.5, solver.Div(three, two).Eval())
	require.Equal(t, -2.0, solver.Neg(two).Eval())
	require.Equal(t, -1.0, solver.Sub(two, three).Eval())
}

func TestExprSingleTermShortCircuit(t *testing.T) {
	x := solver.Constant(7)
	require.Same(t, x, solver.Add(x))
	require.Same(t, x, solver.Mul(x))
}

func TestExprDivisionByZeroFollowsIEEE(t *testing.T) {
	got := solver.Div(solver.Constant(1), solver.Constant(0)).Eval()
	require.True(t, math.IsInf(got, 1))
}

func TestVariableIsAnExpr(t *testing.T) {
	m := solver.NewModel()
	x := m.NewVariable("x")
	x.SetStart(4)

	doubled := solver.Mul(solver.Constant(2), x)
	require.Equal(t, 8.0, doubled.Eval())
}
