// Package ast defines the symbolic expression tree for declarative equation
// systems. Nodes are a closed set of variants: references, literals,
// arithmetic operators, and indexed aggregations over finite domains. The
// tree is produced by the model frontend and consumed by the engine's
// expression compiler; it carries no numeric state of its own.
package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is the interface implemented by every expression variant. The set of
// implementations is closed; the compiler dispatches on the concrete type.
type Node interface {
	fmt.Stringer
	node()
}

// IndexTerm is one element of a reference's index list. A non-literal term
// names a free index that must be resolved through the index environment; a
// literal term is a set member used verbatim.
type IndexTerm struct {
	Name    string
	Literal bool
}

func (t IndexTerm) String() string {
	if t.Literal {
		return strconv.Quote(t.Name)
	}
	return t.Name
}

// Var references a model variable, optionally indexed. An empty index list
// means the reference inherits the enclosing equation instance's indices.
type Var struct {
	Name    string
	Indices []IndexTerm
}

// Param references an entry of the external parameter source, optionally
// indexed. Index inheritance works the same way as for Var.
type Param struct {
	Name    string
	Indices []IndexTerm
}

// Const is a numeric literal.
type Const struct {
	Value float64
}

// Raw holds source text that was deliberately left symbolic. Compiling a Raw
// node is always a fatal error; the variant exists so a frontend can retain
// expressions excluded from numeric lowering without losing them.
type Raw struct {
	Text string
}

// Index references a free index by name. It resolves through the index
// environment at compile time.
type Index struct {
	Name string
}

// Sum is an n-ary addition over explicit terms.
type Sum struct {
	Terms []Node
}

// Prod is an n-ary multiplication over explicit terms. At least one term is
// required; there is no multiplicative identity fallback.
type Prod struct {
	Terms []Node
}

// Pow raises Base to Exp.
type Pow struct {
	Base Node
	Exp  Node
}

// Div divides Num by Den. Division by zero is not checked symbolically; it
// surfaces at evaluation time in the solver backend.
type Div struct {
	Num Node
	Den Node
}

// Neg negates its operand.
type Neg struct {
	X Node
}

// SumOver sums Body over every member of Domain in order, binding the loop
// index for the duration of each term. The domain must be non-empty.
type SumOver struct {
	Index  string
	Domain []string
	Body   Node
}

// ProdOver multiplies Body over every member of Domain in order, with the
// same binding rules as SumOver. The domain must be non-empty; a singleton
// domain compiles to exactly its one term.
type ProdOver struct {
	Index  string
	Domain []string
	Body   Node
}

// Eq is the equation shape: LHS == RHS. It is the only variant accepted at
// the top of an equation; it never appears nested inside an expression.
type Eq struct {
	LHS Node
	RHS Node
}

func (*Var) node()      {}
func (*Param) node()    {}
func (*Const) node()    {}
func (*Raw) node()      {}
func (*Index) node()    {}
func (*Sum) node()      {}
func (*Prod) node()     {}
func (*Pow) node()      {}
func (*Div) node()      {}
func (*Neg) node()      {}
func (*SumOver) node()  {}
func (*ProdOver) node() {}
func (*Eq) node()       {}

func indexList(terms []IndexTerm) string {
	if len(terms) == 0 {
		return ""
	}
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = t.String()
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func joinTerms(terms []Node, sep string) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, sep)
}

func (n *Var) String() string   { return n.Name + indexList(n.Indices) }
func (n *Param) String() string { return n.Name + indexList(n.Indices) }
func (n *Const) String() string { return strconv.FormatFloat(n.Value, 'g', -1, 64) }
func (n *Raw) String() string   { return "raw(" + n.Text + ")" }
func (n *Index) String() string { return n.Name }
func (n *Sum) String() string   { return "(" + joinTerms(n.Terms, " + ") + ")" }
func (n *Prod) String() string  { return "(" + joinTerms(n.Terms, " * ") + ")" }
func (n *Pow) String() string   { return "(" + n.Base.String() + " ^ " + n.Exp.String() + ")" }
func (n *Div) String() string   { return "(" + n.Num.String() + " / " + n.Den.String() + ")" }
func (n *Neg) String() string   { return "-" + n.X.String() }

func (n *SumOver) String() string {
	return "sum(" + n.Index + " in {" + strings.Join(n.Domain, ",") + "}, " + n.Body.String() + ")"
}

func (n *ProdOver) String() string {
	return "prod(" + n.Index + " in {" + strings.Join(n.Domain, ",") + "}, " + n.Body.String() + ")"
}

func (n *Eq) String() string { return n.LHS.String() + " == " + n.RHS.String() }
