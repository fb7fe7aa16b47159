package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/equisolve/internal/engine"
	"github.com/vk/equisolve/internal/solver"
)

func TestValues_OmitsUnassignedVariables(t *testing.T) {
	model := solver.NewModel()
	cctx := engine.NewContext(model)

	assigned := model.NewVariable("assigned")
	assigned.SetStart(2.5)
	cctx.RegisterVariable("assigned", assigned)

	unassigned := model.NewVariable("unassigned")
	cctx.RegisterVariable("unassigned", unassigned)

	values := engine.Values(cctx)
	require.Equal(t, map[string]float64{"assigned": 2.5}, values)
}

func TestSnapshot_CapturesStartsBoundsAndFixes(t *testing.T) {
	model := solver.NewModel()
	cctx := engine.NewContext(model)

	price := model.NewVariable("price")
	price.SetStart(1.0)
	price.SetLower(0)
	cctx.RegisterVariable("price", price)

	supply := model.NewVariable("supply")
	supply.SetUpper(100)
	supply.Fix(40)
	cctx.RegisterVariable("supply", supply)

	ws := engine.Snapshot(cctx)
	require.Equal(t, map[string]float64{"price": 1.0, "supply": 0}, ws.Start)
	require.Equal(t, map[string]float64{"price": 0}, ws.Lower)
	require.Equal(t, map[string]float64{"supply": 100}, ws.Upper)
	require.Equal(t, map[string]float64{"supply": 40}, ws.Fixed)
}
