package run_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/equisolve/internal/engine"
	"github.com/vk/equisolve/internal/run"
	"github.com/vk/equisolve/internal/solver"
	"github.com/vk/equisolve/internal/testutil"
)

const exchangeModel = `
set "i" {
  members = ["food", "cloth"]
}

param "endowment" {
  index  = ["i"]
  values = { food = 10, cloth = 5 }
}

variable "demand" {
  index = ["i"]
  start = 1
  lower = 0
}

variable "price" {
  index = ["i"]
  start = 1
  lower = 0
}

block "market" {
  equation "clearing" {
    index   = ["i"]
    expr    = demand[i] == endowment[i]
    mcp_var = price[i]
  }
  equation "numeraire" {
    expr = price["food"] == 1
  }
  equation "parity" {
    expr = price["cloth"] == price["food"] * 2
  }
}
`

func TestRun_SolvesExchangeModel(t *testing.T) {
	spec := testutil.LoadModel(t, exchangeModel)

	opts := run.DefaultOptions()
	opts.DatasetID = "exchange-1"
	opts.Description = "two-good exchange"
	result, err := run.Run(context.Background(), spec, opts)
	require.NoError(t, err)

	require.Equal(t, 4, result.Summary.Count)
	require.Equal(t, 0, result.Summary.AboveTol)
	require.InDelta(t, 0, result.Summary.MaxAbs, 1e-6)

	values := engine.Values(result.Context)
	require.InDelta(t, 10, values["demand_food"], 1e-6)
	require.InDelta(t, 5, values["demand_cloth"], 1e-6)
	require.InDelta(t, 1, values["price_food"], 1e-6)
	require.InDelta(t, 2, values["price_cloth"], 1e-6)

	require.Equal(t, "exchange-1", result.Dataset.ID)
	require.Len(t, result.Dataset.Constraints, 4)
	require.Len(t, result.Dataset.Solutions, 4)
	require.Equal(t, "market.clearing[food]", result.Dataset.Constraints[0].ID)
	require.True(t, result.Dataset.Solutions[0].Binding)
}

func TestRun_EvaluateBackendReportsImbalance(t *testing.T) {
	spec := testutil.LoadModel(t, exchangeModel)

	opts := run.DefaultOptions()
	opts.Optimizer = &solver.Config{Backend: "evaluate"}
	result, err := run.Run(context.Background(), spec, opts)
	require.NoError(t, err)

	// At the start point demand[i] = 1 and price[i] = 1, so both clearing
	// equations and the parity equation are off.
	require.Equal(t, 3, result.Summary.AboveTol)
	require.Equal(t, 9.0, result.Summary.MaxAbs)
	require.Equal(t, "clearing", result.Summary.Worst.Tag)
	require.Equal(t, []string{"food"}, result.Summary.Worst.Indices)
}

func TestRun_MCPFixPinsVariables(t *testing.T) {
	spec := testutil.LoadModel(t, exchangeModel)

	opts := run.DefaultOptions()
	opts.Optimizer = &solver.Config{Backend: "evaluate"}
	opts.MCPFix = map[string]float64{
		"demand_food":  10,
		"demand_cloth": 5,
		"price_cloth":  2,
	}
	result, err := run.Run(context.Background(), spec, opts)
	require.NoError(t, err)

	require.Equal(t, 0, result.Summary.AboveTol)
	values := engine.Values(result.Context)
	require.Equal(t, 10.0, values["demand_food"])
	require.Equal(t, 2.0, values["price_cloth"])
}

func TestRun_MCPFixUnknownVariable(t *testing.T) {
	spec := testutil.LoadModel(t, exchangeModel)

	opts := run.DefaultOptions()
	opts.MCPFix = map[string]float64{"ghost": 1}
	_, err := run.Run(context.Background(), spec, opts)
	require.ErrorIs(t, err, engine.ErrMissingVariable)
	require.Contains(t, err.Error(), `"ghost"`)
}

func TestRun_SkipCompilationLeavesRegistryUncompiled(t *testing.T) {
	spec := testutil.LoadModel(t, exchangeModel)

	opts := run.DefaultOptions()
	opts.CompileAST = false
	opts.Optimizer = &solver.Config{Backend: "evaluate"}
	result, err := run.Run(context.Background(), spec, opts)
	require.NoError(t, err)

	require.Equal(t, 0, result.Summary.Count)
	require.Empty(t, result.Dataset.Solutions)
	require.Len(t, result.Dataset.Constraints, 4)
}

func TestRun_ObjectiveModel(t *testing.T) {
	src := `
variable "x" {
  start = 1
}

block "social" {
  equation "pin" {
    expr = x == 4
  }
  objective "welfare_max" {
    expr  = x * 2
    sense = "maximize"
  }
}
`
	result := testutil.RunModel(t, src, run.DefaultOptions())
	require.True(t, result.Context.Model().HasObjective())

	val, ok := result.Context.Model().ObjectiveValue()
	require.True(t, ok)
	require.InDelta(t, 8.0, val, 1e-6)
}
