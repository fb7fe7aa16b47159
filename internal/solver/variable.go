package solver

import "math"

// Variable is a handle to one scalar unknown of the model. Its current value
// starts as NaN and becomes meaningful once a start value is set, the
// variable is fixed, or a solve assigns it.
type Variable struct {
	name  string
	value float64
	start float64
	lower *float64
	upper *float64
	fixed bool
}

// Name returns the fully-qualified name the variable was created under.
func (v *Variable) Name() string { return v.name }

// Eval makes a variable usable directly as an Expr.
func (v *Variable) Eval() float64 { return v.value }

// Value returns the variable's current value, or ErrValueUnavailable when no
// finite value has been assigned yet.
func (v *Variable) Value() (float64, error) {
	if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
		return 0, ErrValueUnavailable
	}
	return v.value, nil
}

// SetStart installs a starting value. It also seeds the current value when
// none has been assigned, so warm starts take effect immediately.
func (v *Variable) SetStart(val float64) {
	v.start = val
	if math.IsNaN(v.value) {
		v.value = val
	}
}

// Start returns the starting value (0 when never set).
func (v *Variable) Start() float64 { return v.start }

// SetLower installs a lower bound.
func (v *Variable) SetLower(val float64) { v.lower = &val }

// SetUpper installs an upper bound.
func (v *Variable) SetUpper(val float64) { v.upper = &val }

// HasLowerBound reports whether a lower bound is active.
func (v *Variable) HasLowerBound() bool { return v.lower != nil }

// HasUpperBound reports whether an upper bound is active.
func (v *Variable) HasUpperBound() bool { return v.upper != nil }

// LowerBound returns the active lower bound, if any.
func (v *Variable) LowerBound() (float64, bool) {
	if v.lower == nil {
		return 0, false
	}
	return *v.lower, true
}

// UpperBound returns the active upper bound, if any.
func (v *Variable) UpperBound() (float64, bool) {
	if v.upper == nil {
		return 0, false
	}
	return *v.upper, true
}

// Fix pins the variable to val. Fixed variables are excluded from the solve
// and keep their value across backends.
func (v *Variable) Fix(val float64) {
	v.value = val
	v.fixed = true
}

// IsFixed reports whether the variable is pinned.
func (v *Variable) IsFixed() bool { return v.fixed }

// clamp projects the current value into the variable's bounds.
func (v *Variable) clamp() {
	if v.lower != nil && v.value < *v.lower {
		v.value = *v.lower
	}
	if v.upper != nil && v.value > *v.upper {
		v.value = *v.upper
	}
}
