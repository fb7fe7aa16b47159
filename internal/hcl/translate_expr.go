package hcl

import (
	"fmt"
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/equisolve/internal/ast"
	"github.com/vk/equisolve/internal/modelspec"
)

// translator rebuilds hclsyntax expression trees as engine ASTs. It
// classifies bare names against the spec's declarations: variables and
// parameters by their declaration, free indices by the scope the expression
// sits in.
type translator struct {
	loader *Loader
	spec   *modelspec.Spec
	vars   map[string]bool
	params map[string]bool
}

func newTranslator(l *Loader, spec *modelspec.Spec) *translator {
	t := &translator{
		loader: l,
		spec:   spec,
		vars:   make(map[string]bool, len(spec.Variables)),
		params: make(map[string]bool, len(spec.Params)),
	}
	for _, v := range spec.Variables {
		t.vars[v.Name] = true
	}
	for _, p := range spec.Params {
		t.params[p.Name] = true
	}
	return t
}

// asSyntax narrows an hcl.Expression to its native syntax form. Non-native
// expressions (JSON bodies) are not supported by the translator.
func asSyntax(expr hcl.Expression) hclsyntax.Expression {
	syn, _ := expr.(hclsyntax.Expression)
	return syn
}

// topLevel translates an equation's whole expression. An equality becomes an
// ast.Eq; anything else is retained verbatim as a raw node so the record can
// be registered without being numerically compilable.
func (t *translator) topLevel(expr hcl.Expression, scope map[string]bool) (ast.Node, error) {
	syn := asSyntax(expr)
	if syn == nil {
		return nil, fmt.Errorf("expression is not native HCL syntax")
	}
	syn = unwrapParens(syn)

	if bin, ok := syn.(*hclsyntax.BinaryOpExpr); ok && bin.Op == hclsyntax.OpEqual {
		lhs, err := t.expr(bin.LHS, scope)
		if err != nil {
			return nil, err
		}
		rhs, err := t.expr(bin.RHS, scope)
		if err != nil {
			return nil, err
		}
		return &ast.Eq{LHS: lhs, RHS: rhs}, nil
	}

	return &ast.Raw{Text: t.loader.sourceRange(syn.Range())}, nil
}

// expr translates one expression node. scope holds the index names visible
// at this point: the equation's own indices plus any enclosing aggregation
// loop indices.
func (t *translator) expr(e hclsyntax.Expression, scope map[string]bool) (ast.Node, error) {
	switch n := unwrapParens(e).(type) {
	case *hclsyntax.LiteralValueExpr:
		if n.Val.Type() == cty.Number {
			f, _ := n.Val.AsBigFloat().Float64()
			return &ast.Const{Value: f}, nil
		}
		return &ast.Raw{Text: t.loader.sourceRange(n.Range())}, nil

	case *hclsyntax.ScopeTraversalExpr:
		if len(n.Traversal) != 1 {
			return nil, fmt.Errorf("unsupported reference %q", t.loader.sourceRange(n.Range()))
		}
		name := n.Traversal.RootName()
		switch {
		case scope[name]:
			return &ast.Index{Name: name}, nil
		case t.vars[name]:
			return &ast.Var{Name: name}, nil
		case t.params[name]:
			return &ast.Param{Name: name}, nil
		default:
			return nil, fmt.Errorf("unknown symbol %q", name)
		}

	case *hclsyntax.IndexExpr:
		return t.indexed(n, scope)

	case *hclsyntax.UnaryOpExpr:
		if n.Op != hclsyntax.OpNegate {
			return nil, fmt.Errorf("unsupported unary operator in %q", t.loader.sourceRange(n.Range()))
		}
		x, err := t.expr(n.Val, scope)
		if err != nil {
			return nil, err
		}
		return &ast.Neg{X: x}, nil

	case *hclsyntax.BinaryOpExpr:
		return t.binary(n, scope)

	case *hclsyntax.FunctionCallExpr:
		return t.call(n, scope)

	case *hclsyntax.TemplateExpr:
		// Quoted strings have no numeric meaning in an equation body.
		return &ast.Raw{Text: t.loader.sourceRange(n.Range())}, nil

	default:
		return &ast.Raw{Text: t.loader.sourceRange(e.Range())}, nil
	}
}

func (t *translator) binary(n *hclsyntax.BinaryOpExpr, scope map[string]bool) (ast.Node, error) {
	if n.Op == hclsyntax.OpEqual {
		return nil, fmt.Errorf("nested equality in %q; equations allow one top-level ==", t.loader.sourceRange(n.Range()))
	}

	lhs, err := t.expr(n.LHS, scope)
	if err != nil {
		return nil, err
	}
	rhs, err := t.expr(n.RHS, scope)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case hclsyntax.OpAdd:
		return &ast.Sum{Terms: []ast.Node{lhs, rhs}}, nil
	case hclsyntax.OpSubtract:
		return &ast.Sum{Terms: []ast.Node{lhs, &ast.Neg{X: rhs}}}, nil
	case hclsyntax.OpMultiply:
		return &ast.Prod{Terms: []ast.Node{lhs, rhs}}, nil
	case hclsyntax.OpDivide:
		return &ast.Div{Num: lhs, Den: rhs}, nil
	default:
		return nil, fmt.Errorf("unsupported operator in %q", t.loader.sourceRange(n.Range()))
	}
}

// call translates the three recognized function forms: sum(i, body),
// prod(i, body), and pow(base, exp). Anything else is kept raw.
func (t *translator) call(n *hclsyntax.FunctionCallExpr, scope map[string]bool) (ast.Node, error) {
	switch n.Name {
	case "sum", "prod":
		if len(n.Args) != 2 {
			return nil, fmt.Errorf("%s() wants (index, body), got %d arguments", n.Name, len(n.Args))
		}
		loop, ok := unwrapParens(n.Args[0]).(*hclsyntax.ScopeTraversalExpr)
		if !ok || len(loop.Traversal) != 1 {
			return nil, fmt.Errorf("%s() first argument must name an index set", n.Name)
		}
		index := loop.Traversal.RootName()
		domain, ok := t.spec.Sets[index]
		if !ok {
			return nil, fmt.Errorf("%s() ranges over unknown set %q", n.Name, index)
		}

		inner := make(map[string]bool, len(scope)+1)
		for k := range scope {
			inner[k] = true
		}
		inner[index] = true

		body, err := t.expr(n.Args[1], inner)
		if err != nil {
			return nil, err
		}
		if n.Name == "sum" {
			return &ast.SumOver{Index: index, Domain: domain, Body: body}, nil
		}
		return &ast.ProdOver{Index: index, Domain: domain, Body: body}, nil

	case "pow":
		if len(n.Args) != 2 {
			return nil, fmt.Errorf("pow() wants (base, exp), got %d arguments", len(n.Args))
		}
		base, err := t.expr(n.Args[0], scope)
		if err != nil {
			return nil, err
		}
		exp, err := t.expr(n.Args[1], scope)
		if err != nil {
			return nil, err
		}
		return &ast.Pow{Base: base, Exp: exp}, nil

	default:
		return &ast.Raw{Text: t.loader.sourceRange(n.Range())}, nil
	}
}

// indexed translates reference chains like x[i] or a["k1"][j] into an
// indexed variable or parameter reference.
func (t *translator) indexed(n *hclsyntax.IndexExpr, scope map[string]bool) (ast.Node, error) {
	var terms []ast.IndexTerm
	current := hclsyntax.Expression(n)

	for {
		idx, ok := unwrapParens(current).(*hclsyntax.IndexExpr)
		if !ok {
			break
		}
		term, err := t.indexTerm(idx.Key, scope)
		if err != nil {
			return nil, err
		}
		terms = append([]ast.IndexTerm{term}, terms...)
		current = idx.Collection
	}

	base, ok := unwrapParens(current).(*hclsyntax.ScopeTraversalExpr)
	if !ok || len(base.Traversal) != 1 {
		return nil, fmt.Errorf("unsupported indexed reference %q", t.loader.sourceRange(n.Range()))
	}
	name := base.Traversal.RootName()

	switch {
	case t.vars[name]:
		return &ast.Var{Name: name, Indices: terms}, nil
	case t.params[name]:
		return &ast.Param{Name: name, Indices: terms}, nil
	default:
		return nil, fmt.Errorf("unknown indexed symbol %q", name)
	}
}

// indexTerm translates one index key: an in-scope name is a free index, a
// quoted string or number is a literal set member.
func (t *translator) indexTerm(key hclsyntax.Expression, scope map[string]bool) (ast.IndexTerm, error) {
	switch k := unwrapParens(key).(type) {
	case *hclsyntax.ScopeTraversalExpr:
		if len(k.Traversal) == 1 {
			name := k.Traversal.RootName()
			if scope[name] {
				return ast.IndexTerm{Name: name}, nil
			}
			return ast.IndexTerm{}, fmt.Errorf("index %q is not in scope; quote it for a literal member", name)
		}

	case *hclsyntax.TemplateExpr:
		if k.IsStringLiteral() {
			val, _ := k.Value(nil)
			return ast.IndexTerm{Name: val.AsString(), Literal: true}, nil
		}

	case *hclsyntax.LiteralValueExpr:
		if k.Val.Type() == cty.String {
			return ast.IndexTerm{Name: k.Val.AsString(), Literal: true}, nil
		}
		if k.Val.Type() == cty.Number {
			f, _ := k.Val.AsBigFloat().Float64()
			return ast.IndexTerm{Name: strconv.FormatFloat(f, 'g', -1, 64), Literal: true}, nil
		}
	}
	return ast.IndexTerm{}, fmt.Errorf("unsupported index key %q", t.loader.sourceRange(key.Range()))
}

// mcpTarget resolves the mcp_var attribute: a declared variable reference
// becomes an AST resolved at compile time; a bare undeclared name is passed
// through verbatim as a fully-qualified name.
func (t *translator) mcpTarget(expr hcl.Expression, scope map[string]bool) (*ast.Var, string, error) {
	syn := asSyntax(expr)
	if syn == nil {
		return nil, "", fmt.Errorf("mcp_var is not native HCL syntax")
	}

	if trav, ok := unwrapParens(syn).(*hclsyntax.ScopeTraversalExpr); ok && len(trav.Traversal) == 1 {
		name := trav.Traversal.RootName()
		if !t.vars[name] {
			return nil, name, nil
		}
	}

	node, err := t.expr(syn, scope)
	if err != nil {
		return nil, "", fmt.Errorf("mcp_var: %w", err)
	}
	v, ok := node.(*ast.Var)
	if !ok {
		return nil, "", fmt.Errorf("mcp_var must reference a variable, got %s", node)
	}
	return v, "", nil
}

func unwrapParens(e hclsyntax.Expression) hclsyntax.Expression {
	for {
		p, ok := e.(*hclsyntax.ParenthesesExpr)
		if !ok {
			return e
		}
		e = p.Expression
	}
}
