package validate

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/vk/equisolve/internal/ast"
	"github.com/vk/equisolve/internal/engine"
)

// Level selects how deep validation digs.
type Level int

const (
	// Basic runs the structural, residual, and MCP checks.
	Basic Level = iota
	// Extended additionally ranks residuals and runs the scaling heuristics.
	Extended
)

// levelNames is the explicit name table for validation levels.
var levelNames = map[string]Level{
	"basic":    Basic,
	"extended": Extended,
}

// ParseLevel maps a symbolic level name to its constant. The empty string
// defaults to Basic.
func ParseLevel(name string) (Level, error) {
	if name == "" {
		return Basic, nil
	}
	l, ok := levelNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown validation level %q", name)
	}
	return l, nil
}

// Scaling heuristics: magnitudes outside this window flag likely numerical
// ill-conditioning.
const (
	largeMagnitude = 1e6
	smallMagnitude = 1e-8
)

// mcpExempt are the equation roles that legitimately carry no
// complementarity pairing.
var mcpExempt = map[string]struct{}{
	"objective": {},
	"numeraire": {},
	"start":     {},
	"lower":     {},
	"upper":     {},
	"fixed":     {},
}

// Validate runs the structural, residual, MCP, and (at Extended level)
// scaling checks over the context and returns the assembled report. Problems
// found in the model are warnings or notes, never errors; callers decide how
// strict to be via Report.Finalize.
func Validate(cctx *engine.Context, level Level, tol float64) *Report {
	report := NewReport()
	checkStructural(cctx, report)
	checkResiduals(cctx, report, level, tol)
	checkMCP(cctx, report)
	if level >= Extended {
		checkScaling(cctx, report)
	}
	return report
}

func checkStructural(cctx *engine.Context, report *Report) {
	if len(cctx.Equations()) == 0 {
		report.Warnf(CategoryStructural, "no equations registered")
	}
	if len(cctx.VariableNames()) == 0 {
		report.Warnf(CategoryStructural, "no variables registered")
	}
}

func checkResiduals(cctx *engine.Context, report *Report, level Level, tol float64) {
	residuals := engine.Residuals(cctx)
	if len(residuals) == 0 {
		report.Warnf(CategoryResiduals, "no residuals available; model not compiled or solved yet")
		return
	}

	s := engine.Summarize(cctx, tol)
	report.Notef(CategoryResiduals,
		"%d residuals, max |residual| %.3e at %s, %d above tolerance %.1e",
		s.Count, s.MaxAbs, residualID(s.Worst), s.AboveTol, tol)

	if s.AboveTol > 0 {
		report.Warnf(CategoryResiduals,
			"%d residual(s) exceed tolerance %.1e", s.AboveTol, tol)
	}

	if level >= Extended {
		ranked := make([]engine.Residual, len(residuals))
		copy(ranked, residuals)
		// Stable sort keeps registration order for equal magnitudes.
		sort.SliceStable(ranked, func(i, j int) bool {
			return math.Abs(ranked[i].Value) > math.Abs(ranked[j].Value)
		})
		top := ranked
		if len(top) > 5 {
			top = top[:5]
		}
		for rank, r := range top {
			report.Notef(CategoryResiduals,
				"top residual #%d: %s = %.3e", rank+1, residualID(&r), r.Value)
		}
	}
}

func checkMCP(cctx *engine.Context, report *Report) {
	anyMCP := false
	for _, rec := range cctx.Equations() {
		if rec.Payload.MCP != nil {
			anyMCP = true
			break
		}
	}
	if !anyMCP {
		report.Notef(CategoryMCP, "no MCP equations detected")
		return
	}

	for _, rec := range cctx.Equations() {
		if _, exempt := mcpExempt[rec.Tag]; exempt {
			continue
		}
		if rec.Payload.MCP != nil {
			continue
		}
		if !compilableEquation(rec.Payload.Expr) {
			continue
		}
		report.Warnf(CategoryMCP,
			"equation %s/%s%v has no mcp_var assignment",
			rec.Block, rec.Tag, rec.Payload.Indices)
	}
}

// compilableEquation mirrors the compiler's acceptance test: an equality
// AST that is not raw.
func compilableEquation(node ast.Node) bool {
	if node == nil {
		return false
	}
	_, isEq := node.(*ast.Eq)
	return isEq
}

func checkScaling(cctx *engine.Context, report *Report) {
	values := engine.Values(cctx)
	for _, name := range sortedNames(values) {
		abs := math.Abs(values[name])
		if abs > largeMagnitude {
			report.Warnf(CategoryScaling,
				"variable %q has large magnitude %.3e", name, abs)
		}
		if abs != 0 && abs < smallMagnitude {
			report.Warnf(CategoryScaling,
				"variable %q has very small magnitude %.3e", name, abs)
		}
	}
}

func sortedNames(values map[string]float64) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func residualID(r *engine.Residual) string {
	id := r.Block + "/" + r.Tag
	if len(r.Indices) > 0 {
		id += "[" + strings.Join(r.Indices, ",") + "]"
	}
	return id
}
