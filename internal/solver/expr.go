package solver

import "math"

// Expr is a numeric expression over variable handles. Evaluation reads the
// variables' current values; division by zero and other float edge cases
// follow IEEE semantics and surface as Inf/NaN rather than errors.
type Expr interface {
	Eval() float64
}

type constExpr float64

func (c constExpr) Eval() float64 { return float64(c) }

// Constant returns an expression with a fixed value.
func Constant(v float64) Expr { return constExpr(v) }

type addExpr struct{ terms []Expr }

func (e *addExpr) Eval() float64 {
	acc := 0.0
	for _, t := range e.terms {
		acc += t.Eval()
	}
	return acc
}

// Add folds terms with addition. No terms yields the additive identity.
func Add(terms ...Expr) Expr {
	if len(terms) == 1 {
		return terms[0]
	}
	return &addExpr{terms: terms}
}

type mulExpr struct{ terms []Expr }

func (e *mulExpr) Eval() float64 {
	acc := 1.0
	for _, t := range e.terms {
		acc *= t.Eval()
	}
	return acc
}

// Mul folds terms with multiplication. Callers must supply at least one
// term; the compiler enforces that before reaching here.
func Mul(terms ...Expr) Expr {
	if len(terms) == 1 {
		return terms[0]
	}
	return &mulExpr{terms: terms}
}

type powExpr struct{ base, exp Expr }

func (e *powExpr) Eval() float64 { return math.Pow(e.base.Eval(), e.exp.Eval()) }

// Pow raises base to exp.
func Pow(base, exp Expr) Expr { return &powExpr{base: base, exp: exp} }

type divExpr struct{ num, den Expr }

func (e *divExpr) Eval() float64 { return e.num.Eval() / e.den.Eval() }

// Div divides num by den.
func Div(num, den Expr) Expr { return &divExpr{num: num, den: den} }

type negExpr struct{ x Expr }

func (e *negExpr) Eval() float64 { return -e.x.Eval() }

// Neg negates x.
func Neg(x Expr) Expr { return &negExpr{x: x} }

type subExpr struct{ lhs, rhs Expr }

func (e *subExpr) Eval() float64 { return e.lhs.Eval() - e.rhs.Eval() }

// Sub returns lhs - rhs. Constraint residuals are built this way.
func Sub(lhs, rhs Expr) Expr { return &subExpr{lhs: lhs, rhs: rhs} }
