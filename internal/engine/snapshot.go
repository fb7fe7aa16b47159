package engine

import "math"

// Values returns the current finite value of every registered variable.
// Variables without a finite value are omitted rather than reported as NaN.
func Values(cctx *Context) map[string]float64 {
	out := make(map[string]float64)
	for _, name := range cctx.VariableNames() {
		v, _ := cctx.Variable(name)
		val, err := v.Value()
		if err != nil {
			continue
		}
		out[name] = val
	}
	return out
}

// WarmStart captures everything a caller needs to re-seed a follow-up solve:
// start values, active bounds, and fixed values, all restricted to finite
// entries.
type WarmStart struct {
	Start map[string]float64
	Lower map[string]float64
	Upper map[string]float64
	Fixed map[string]float64
}

// Snapshot builds a WarmStart from the context's variable table.
func Snapshot(cctx *Context) WarmStart {
	ws := WarmStart{
		Start: make(map[string]float64),
		Lower: make(map[string]float64),
		Upper: make(map[string]float64),
		Fixed: make(map[string]float64),
	}
	for _, name := range cctx.VariableNames() {
		v, _ := cctx.Variable(name)
		if start := v.Start(); isFinite(start) {
			ws.Start[name] = start
		}
		if lo, ok := v.LowerBound(); ok && isFinite(lo) {
			ws.Lower[name] = lo
		}
		if hi, ok := v.UpperBound(); ok && isFinite(hi) {
			ws.Upper[name] = hi
		}
		if v.IsFixed() {
			if val, err := v.Value(); err == nil {
				ws.Fixed[name] = val
			}
		}
	}
	return ws
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
