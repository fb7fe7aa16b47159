package validate_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/equisolve/internal/ast"
	"github.com/vk/equisolve/internal/engine"
	"github.com/vk/equisolve/internal/solver"
	"github.com/vk/equisolve/internal/validate"
)

// fixedContext builds a context whose variables are pinned at the given
// values.
func fixedContext(t *testing.T, values map[string]float64) *engine.Context {
	t.Helper()
	model := solver.NewModel()
	cctx := engine.NewContext(model)
	for name, val := range values {
		v := model.NewVariable(name)
		v.Fix(val)
		cctx.RegisterVariable(name, v)
	}
	return cctx
}

// compileAndEvaluate compiles the registry and reads residuals off at the
// current values.
func compileAndEvaluate(t *testing.T, cctx *engine.Context) {
	t.Helper()
	require.NoError(t, engine.CompileEquations(context.Background(), cctx, nil, true))
	require.NoError(t, cctx.Solve(context.Background(), &solver.Config{Backend: "evaluate"}))
}

func eqNode(lhs, rhs ast.Node) *ast.Eq {
	return &ast.Eq{LHS: lhs, RHS: rhs}
}

func TestParseLevel(t *testing.T) {
	l, err := validate.ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, validate.Basic, l)

	l, err = validate.ParseLevel("extended")
	require.NoError(t, err)
	require.Equal(t, validate.Extended, l)

	_, err = validate.ParseLevel("paranoid")
	require.Error(t, err)
	require.Contains(t, err.Error(), `"paranoid"`)
}

func TestValidate_EmptyContextWarnsStructurally(t *testing.T) {
	cctx := engine.NewContext(nil)
	report := validate.Validate(cctx, validate.Basic, 1e-6)

	structural := report.Category(validate.CategoryStructural)
	require.Len(t, structural.Warnings, 2)
	require.Contains(t, structural.Warnings[0], "no equations")
	require.Contains(t, structural.Warnings[1], "no variables")

	// Warnings never fail the summary.
	summary := report.Finalize()
	require.True(t, summary.OK)
	require.Equal(t, 0, summary.Errors)
}

func TestValidate_UnsolvedModelWarnsOnMissingResiduals(t *testing.T) {
	cctx := fixedContext(t, map[string]float64{"x": 1})
	cctx.RegisterEquation("eq", "block", engine.Payload{
		Expr: eqNode(&ast.Var{Name: "x"}, &ast.Const{Value: 1}),
	})

	report := validate.Validate(cctx, validate.Basic, 1e-6)
	residuals := report.Category(validate.CategoryResiduals)
	require.Len(t, residuals.Warnings, 1)
	require.Contains(t, residuals.Warnings[0], "not compiled or solved")
}

func TestValidate_ResidualsAboveToleranceWarn(t *testing.T) {
	cctx := fixedContext(t, map[string]float64{"x": 5})
	cctx.RegisterEquation("clearing", "market", engine.Payload{
		Expr: eqNode(&ast.Var{Name: "x"}, &ast.Const{Value: 2}),
	})
	compileAndEvaluate(t, cctx)

	report := validate.Validate(cctx, validate.Basic, 1e-6)
	residuals := report.Category(validate.CategoryResiduals)
	require.Len(t, residuals.Warnings, 1)
	require.Contains(t, residuals.Warnings[0], "exceed tolerance")
	require.Len(t, residuals.Notes, 1)
	require.Contains(t, residuals.Notes[0], "market/clearing")
}

func TestValidate_ExtendedRanksTopResiduals(t *testing.T) {
	cctx := fixedContext(t, map[string]float64{"x": 0})
	for i := 1; i <= 7; i++ {
		cctx.RegisterEquation(fmt.Sprintf("eq%d", i), "block", engine.Payload{
			Expr: eqNode(&ast.Var{Name: "x"}, &ast.Const{Value: float64(i)}),
		})
	}
	compileAndEvaluate(t, cctx)

	report := validate.Validate(cctx, validate.Extended, 1e-6)
	notes := report.Category(validate.CategoryResiduals).Notes

	// Summary note plus exactly five ranked entries, largest first.
	require.Len(t, notes, 6)
	require.Contains(t, notes[1], "top residual #1: block/eq7")
	require.Contains(t, notes[5], "top residual #5: block/eq3")
}

func TestValidate_NoMCPIsANote(t *testing.T) {
	cctx := fixedContext(t, map[string]float64{"x": 1})
	cctx.RegisterEquation("eq", "block", engine.Payload{
		Expr: eqNode(&ast.Var{Name: "x"}, &ast.Const{Value: 1}),
	})

	report := validate.Validate(cctx, validate.Basic, 1e-6)
	mcp := report.Category(validate.CategoryMCP)
	require.Empty(t, mcp.Warnings)
	require.Len(t, mcp.Notes, 1)
	require.Contains(t, mcp.Notes[0], "no MCP equations")
}

func TestValidate_MixedMCPFlagsUnpairedEquations(t *testing.T) {
	cctx := fixedContext(t, map[string]float64{"x": 1, "p": 1})
	eq := eqNode(&ast.Var{Name: "x"}, &ast.Const{Value: 1})

	cctx.RegisterEquation("zero_profit", "firm", engine.Payload{
		Expr: eq,
		MCP:  &engine.MCPRef{Name: "p"},
	})
	cctx.RegisterEquation("clearing", "market", engine.Payload{Expr: eq})
	cctx.RegisterEquation("numeraire", "market", engine.Payload{Expr: eq})

	report := validate.Validate(cctx, validate.Basic, 1e-6)
	mcp := report.Category(validate.CategoryMCP)
	require.Len(t, mcp.Warnings, 1)
	require.Contains(t, mcp.Warnings[0], "market/clearing")
	require.Contains(t, mcp.Warnings[0], "no mcp_var")
}

func TestValidate_ScalingRunsOnlyAtExtended(t *testing.T) {
	cctx := fixedContext(t, map[string]float64{
		"huge": 2e7,
		"tiny": 5e-9,
		"zero": 0,
		"ok":   1.5,
	})

	basic := validate.Validate(cctx, validate.Basic, 1e-6)
	require.Empty(t, basic.Category(validate.CategoryScaling).Warnings)

	extended := validate.Validate(cctx, validate.Extended, 1e-6)
	warnings := extended.Category(validate.CategoryScaling).Warnings
	require.Len(t, warnings, 2)
	require.Contains(t, warnings[0], `"huge"`)
	require.Contains(t, warnings[0], "large magnitude")
	require.Contains(t, warnings[1], `"tiny"`)
	require.Contains(t, warnings[1], "very small magnitude")
}

func TestReport_FinalizeCountsErrors(t *testing.T) {
	report := validate.NewReport()
	report.Errorf(validate.CategoryStructural, "broken")
	report.Warnf(validate.CategoryScaling, "suspicious")

	summary := report.Finalize()
	require.False(t, summary.OK)
	require.Equal(t, 1, summary.Errors)
	require.Equal(t, 1, summary.Warnings)
}

func TestCategoriesOrder(t *testing.T) {
	require.Equal(t, []validate.Category{
		validate.CategoryStructural,
		validate.CategoryResiduals,
		validate.CategoryMCP,
		validate.CategoryScaling,
	}, validate.Categories())
}
