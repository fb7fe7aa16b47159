package engine

import "math"

// Residual is one equation instance's left-minus-right value at the current
// solution.
type Residual struct {
	Tag     string
	Block   string
	Indices []string
	Value   float64
}

// Residuals scans the registry in registration order and returns a tuple for
// every record whose residual the solve step populated.
func Residuals(cctx *Context) []Residual {
	var out []Residual
	for _, rec := range cctx.Equations() {
		val, ok := rec.Residual()
		if !ok {
			continue
		}
		out = append(out, Residual{
			Tag:     rec.Tag,
			Block:   rec.Block,
			Indices: rec.Payload.Indices,
			Value:   val,
		})
	}
	return out
}

// Summary aggregates residual quality for one solve.
type Summary struct {
	Count    int
	MaxAbs   float64
	Worst    *Residual
	AboveTol int
	Tol      float64
}

// Summarize computes residual statistics against tol. With no residuals it
// returns the zero summary. The worst entry is the stable argmax of the
// absolute residual: ties keep the first record in registration order.
func Summarize(cctx *Context, tol float64) Summary {
	residuals := Residuals(cctx)
	s := Summary{Tol: tol, Count: len(residuals)}

	for i := range residuals {
		r := &residuals[i]
		abs := math.Abs(r.Value)
		if s.Worst == nil || abs > s.MaxAbs {
			s.MaxAbs = abs
			s.Worst = r
		}
		if abs > tol {
			s.AboveTol++
		}
	}
	return s
}
