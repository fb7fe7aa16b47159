package hcl

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/equisolve/internal/ctxlog"
	"github.com/vk/equisolve/internal/modelspec"
	"github.com/vk/equisolve/internal/schema"
)

// translate converts the merged raw schema into the agnostic model,
// rebuilding every equation expression as an engine AST along the way.
func (l *Loader) translate(ctx context.Context, raw *schema.ModelFile) (*modelspec.Spec, error) {
	logger := ctxlog.FromContext(ctx)

	spec := &modelspec.Spec{Sets: make(map[string][]string, len(raw.Sets))}
	for _, s := range raw.Sets {
		if _, dup := spec.Sets[s.Name]; dup {
			return nil, fmt.Errorf("set %q declared twice", s.Name)
		}
		spec.Sets[s.Name] = s.Members
	}

	for _, p := range raw.Params {
		param, err := translateParam(p)
		if err != nil {
			return nil, err
		}
		spec.Params = append(spec.Params, param)
	}

	for _, v := range raw.Variables {
		spec.Variables = append(spec.Variables, &modelspec.Variable{
			Name:  v.Name,
			Index: v.Index,
			Start: v.Start,
			Lower: v.Lower,
			Upper: v.Upper,
			Fixed: v.Fixed,
		})
	}

	tr := newTranslator(l, spec)
	for _, b := range raw.Blocks {
		block := &modelspec.Block{Name: b.Name}
		for _, eq := range b.Equations {
			translated, err := tr.equation(eq)
			if err != nil {
				return nil, fmt.Errorf("block %q equation %q: %w", b.Name, eq.Tag, err)
			}
			block.Equations = append(block.Equations, translated)
		}
		for _, obj := range b.Objectives {
			translated, err := tr.objective(obj)
			if err != nil {
				return nil, fmt.Errorf("block %q objective %q: %w", b.Name, obj.Tag, err)
			}
			block.Equations = append(block.Equations, translated)
		}
		spec.Blocks = append(spec.Blocks, block)
	}

	logger.Debug("Model translation complete.", "blocks", len(spec.Blocks))
	return spec, nil
}

// translateParam decodes a param's scalar value or values table. Table keys
// are index tuples joined with "_", the same contract variable names use.
func translateParam(p *schema.Param) (*modelspec.Param, error) {
	param := &modelspec.Param{Name: p.Name, Index: p.Index, Scalar: p.Value}

	if p.Values == nil {
		if p.Value == nil {
			return nil, fmt.Errorf("param %q declares neither value nor values", p.Name)
		}
		return param, nil
	}

	val, diags := p.Values.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("param %q values: %s", p.Name, diags.Error())
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("param %q values must be an object of numbers", p.Name)
	}

	param.Values = make(map[string]float64)
	for key, entry := range val.AsValueMap() {
		if entry.Type() != cty.Number {
			return nil, fmt.Errorf("param %q value %q is not a number", p.Name, key)
		}
		f, _ := entry.AsBigFloat().Float64()
		param.Values[key] = f
	}
	return param, nil
}

func (t *translator) equation(eq *schema.Equation) (*modelspec.Equation, error) {
	scope := make(map[string]bool, len(eq.Index))
	for _, name := range eq.Index {
		if _, ok := t.spec.Sets[name]; !ok {
			return nil, fmt.Errorf("index %q does not name a declared set", name)
		}
		scope[name] = true
	}

	expr, err := t.topLevel(eq.Expr, scope)
	if err != nil {
		return nil, err
	}

	out := &modelspec.Equation{Tag: eq.Tag, Index: eq.Index, Expr: expr}
	if eq.MCPVar != nil {
		mcpVar, mcpName, err := t.mcpTarget(eq.MCPVar, scope)
		if err != nil {
			return nil, err
		}
		out.MCP = mcpVar
		out.MCPName = mcpName
	}
	return out, nil
}

func (t *translator) objective(obj *schema.Objective) (*modelspec.Equation, error) {
	syn := asSyntax(obj.Expr)
	if syn == nil {
		return nil, fmt.Errorf("objective expression is not native HCL syntax")
	}
	expr, err := t.expr(syn, map[string]bool{})
	if err != nil {
		return nil, err
	}
	return &modelspec.Equation{
		Tag:       obj.Tag,
		Objective: expr,
		Sense:     obj.Sense,
	}, nil
}
