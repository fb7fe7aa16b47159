// Package hcl is the HCL frontend: it discovers and parses .hcl model
// files, decodes them into the raw schema shapes, and translates them,
// symbolic equation expressions included, into the format-agnostic
// modelspec model. Equation expressions are never evaluated; their syntax
// trees are walked and rebuilt as engine ASTs.
package hcl
