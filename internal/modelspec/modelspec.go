// Package modelspec is the format-agnostic representation of a declarative
// equation system: index sets, calibrated parameter tables, variable
// declarations, and blocks of symbolic equations. The HCL loader produces
// this model; the block builder consumes it. Nothing here depends on the
// concrete file format.
package modelspec

import (
	"fmt"
	"strings"

	"github.com/vk/equisolve/internal/ast"
)

// Spec is one complete model definition.
type Spec struct {
	// Sets maps a set name to its ordered members. Set names double as
	// index names: an equation indexed over "i" expands across Sets["i"].
	Sets map[string][]string

	// Params are the calibrated parameter tables, in declaration order.
	Params []*Param

	// Variables are the variable declarations, in declaration order.
	Variables []*Variable

	// Blocks are the model components, in declaration order. Block order is
	// the registration order of every equation they carry.
	Blocks []*Block
}

// Param is one parameter table. Scalar parameters carry Scalar and no
// Values; indexed parameters key Values by the index tuple joined with "_",
// matching the fully-qualified-name contract used for variables.
type Param struct {
	Name   string
	Index  []string
	Scalar *float64
	Values map[string]float64
}

// Variable declares one (possibly indexed) variable family with optional
// start value, bounds, and fixed value.
type Variable struct {
	Name  string
	Index []string
	Start *float64
	Lower *float64
	Upper *float64
	Fixed *float64
}

// Block is one model component: a named group of equations and at most one
// objective.
type Block struct {
	Name      string
	Equations []*Equation
}

// Equation is one symbolic equation (or objective carrier) of a block.
// Exactly one of Expr and Objective is set. Expr is an *ast.Eq for
// compilable equations or an *ast.Raw for expressions deliberately kept
// symbolic.
type Equation struct {
	Tag       string
	Index     []string
	Expr      ast.Node
	MCP       *ast.Var
	MCPName   string
	Objective ast.Node
	Sense     string
}

// Lookup returns the named set's members.
func (s *Spec) Set(name string) ([]string, bool) {
	members, ok := s.Sets[name]
	return members, ok
}

// ParamTable adapts a spec's parameter declarations to the engine's
// parameter-source contract.
type ParamTable struct {
	params map[string]*Param
}

// NewParamTable indexes the spec's parameters by name.
func NewParamTable(s *Spec) *ParamTable {
	t := &ParamTable{params: make(map[string]*Param, len(s.Params))}
	for _, p := range s.Params {
		t.params[p.Name] = p
	}
	return t
}

// GetParam resolves one parameter value under a concrete index tuple.
func (t *ParamTable) GetParam(name string, indices ...string) (float64, error) {
	p, ok := t.params[name]
	if !ok {
		return 0, fmt.Errorf("unknown parameter %q", name)
	}
	if len(indices) == 0 {
		if p.Scalar == nil {
			return 0, fmt.Errorf("parameter %q is indexed; no index tuple given", name)
		}
		return *p.Scalar, nil
	}
	key := strings.Join(indices, "_")
	val, ok := p.Values[key]
	if !ok {
		return 0, fmt.Errorf("parameter %q has no value for index %q", name, key)
	}
	return val, nil
}
