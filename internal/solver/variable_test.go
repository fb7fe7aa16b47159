package solver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/equisolve/internal/solver"
)

func TestVariableValueUnavailableUntilAssigned(t *testing.T) {
	m := solver.NewModel()
	x := m.NewVariable("x")

	_, err := x.Value()
	require.ErrorIs(t, err, solver.ErrValueUnavailable)

	x.SetStart(3)
	val, err := x.Value()
	require.NoError(t, err)
	require.Equal(t, 3.0, val)
}

func TestVariableStartDoesNotOverrideAssignedValue(t *testing.T) {
	m := solver.NewModel()
	x := m.NewVariable("x")
	x.Fix(5)
	x.SetStart(1)

	val, err := x.Value()
	require.NoError(t, err)
	require.Equal(t, 5.0, val)
	require.Equal(t, 1.0, x.Start())
}

func TestVariableBounds(t *testing.T) {
	m := solver.NewModel()
	x := m.NewVariable("x")
	require.False(t, x.HasLowerBound())
	require.False(t, x.HasUpperBound())

	x.SetLower(0)
	x.SetUpper(10)

	lo, ok := x.LowerBound()
	require.True(t, ok)
	require.Equal(t, 0.0, lo)

	hi, ok := x.UpperBound()
	require.True(t, ok)
	require.Equal(t, 10.0, hi)
}

func TestVariableFix(t *testing.T) {
	m := solver.NewModel()
	x := m.NewVariable("x")
	require.False(t, x.IsFixed())

	x.Fix(2)
	require.True(t, x.IsFixed())
	require.Equal(t, 2.0, x.Eval())
}
