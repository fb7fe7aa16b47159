// Package schema holds the HCL-tagged structures that model files decode
// into. These are the raw, format-specific shapes; the hcl loader translates
// them into the agnostic modelspec model.
package schema

import "github.com/hashicorp/hcl/v2"

// ModelFile is the top-level structure of one .hcl model file.
type ModelFile struct {
	Sets      []*Set      `hcl:"set,block"`
	Params    []*Param    `hcl:"param,block"`
	Variables []*Variable `hcl:"variable,block"`
	Blocks    []*Block    `hcl:"block,block"`
}

// Set declares an ordered index set. The set's name doubles as the index
// name equations and aggregations range over.
type Set struct {
	Name    string   `hcl:"name,label"`
	Members []string `hcl:"members"`
}

// Param declares a calibrated parameter: either a scalar `value` or a
// `values` table keyed by index tuple (multi-index keys joined with "_").
type Param struct {
	Name   string         `hcl:"name,label"`
	Index  []string       `hcl:"index,optional"`
	Value  *float64       `hcl:"value,optional"`
	Values hcl.Expression `hcl:"values,optional"`
}

// Variable declares a variable family, expanded over its index sets.
type Variable struct {
	Name  string   `hcl:"name,label"`
	Index []string `hcl:"index,optional"`
	Start *float64 `hcl:"start,optional"`
	Lower *float64 `hcl:"lower,optional"`
	Upper *float64 `hcl:"upper,optional"`
	Fixed *float64 `hcl:"fixed,optional"`
}

// Block is one model component grouping equations and objectives.
type Block struct {
	Name       string       `hcl:"name,label"`
	Equations  []*Equation  `hcl:"equation,block"`
	Objectives []*Objective `hcl:"objective,block"`
}

// Equation is one symbolic equation. The expression is kept as an
// hcl.Expression: it is never evaluated, only translated from its syntax
// tree into the engine's AST.
type Equation struct {
	Tag    string         `hcl:"tag,label"`
	Index  []string       `hcl:"index,optional"`
	Expr   hcl.Expression `hcl:"expr"`
	MCPVar hcl.Expression `hcl:"mcp_var,optional"`
}

// Objective declares the model's objective expression with an optional
// sense ("maximize" when omitted).
type Objective struct {
	Tag   string         `hcl:"tag,label"`
	Expr  hcl.Expression `hcl:"expr"`
	Sense string         `hcl:"sense,optional"`
}
