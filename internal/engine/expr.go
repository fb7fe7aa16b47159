package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vk/equisolve/internal/ast"
	"github.com/vk/equisolve/internal/solver"
)

// indexSep joins a base name with its index tuple. The block layer on the
// other side of the registry builds fully-qualified names the same way, so
// this is a stable contract, not an implementation detail.
const indexSep = "_"

// QualifiedName builds the fully-qualified name a reference resolves under:
// the base name alone, or base and indices joined by the separator.
func QualifiedName(base string, indices []string) string {
	if len(indices) == 0 {
		return base
	}
	return base + indexSep + strings.Join(indices, indexSep)
}

// resolveIndexTerms turns a reference's index list into concrete set
// members. An empty list inherits the enclosing equation instance's own
// index tuple. Free-index terms resolve through the environment; literal
// terms are used verbatim.
func resolveIndexTerms(terms []ast.IndexTerm, defaults []string, env *IndexEnv) ([]string, error) {
	if len(terms) == 0 {
		return defaults, nil
	}
	out := make([]string, len(terms))
	for i, t := range terms {
		if t.Literal {
			out[i] = t.Name
			continue
		}
		v, err := env.Resolve(t.Name)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// CompileExpr recursively lowers one AST node into a solver expression.
// defaultIndices is the enclosing equation instance's index tuple, inherited
// by references that carry no explicit index list. env supplies free-index
// bindings; indexed sums and products extend it transiently for their body.
func CompileExpr(node ast.Node, cctx *Context, params ParamSource, defaultIndices []string, env *IndexEnv) (solver.Expr, error) {
	switch n := node.(type) {
	case *ast.Var:
		indices, err := resolveIndexTerms(n.Indices, defaultIndices, env)
		if err != nil {
			return nil, err
		}
		name := QualifiedName(n.Name, indices)
		v, ok := cctx.Variable(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingVariable, name)
		}
		return v, nil

	case *ast.Param:
		indices, err := resolveIndexTerms(n.Indices, defaultIndices, env)
		if err != nil {
			return nil, err
		}
		if params == nil {
			return nil, fmt.Errorf("%w: parameter %q", ErrMissingParamSource, n.Name)
		}
		val, err := params.GetParam(n.Name, indices...)
		if err != nil {
			return nil, fmt.Errorf("parameter %q%v: %w", n.Name, indices, err)
		}
		return solver.Constant(val), nil

	case *ast.Const:
		return solver.Constant(n.Value), nil

	case *ast.Raw:
		return nil, fmt.Errorf("%w: %s", ErrRawExpression, n.Text)

	case *ast.Index:
		val, err := env.Resolve(n.Name)
		if err != nil {
			return nil, err
		}
		num, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, fmt.Errorf("index %q is bound to non-numeric member %q", n.Name, val)
		}
		return solver.Constant(num), nil

	case *ast.Sum:
		terms, err := compileTerms(n.Terms, cctx, params, defaultIndices, env)
		if err != nil {
			return nil, err
		}
		return solver.Add(terms...), nil

	case *ast.Prod:
		if len(n.Terms) == 0 {
			return nil, ErrEmptyProduct
		}
		terms, err := compileTerms(n.Terms, cctx, params, defaultIndices, env)
		if err != nil {
			return nil, err
		}
		return solver.Mul(terms...), nil

	case *ast.Pow:
		base, err := CompileExpr(n.Base, cctx, params, defaultIndices, env)
		if err != nil {
			return nil, err
		}
		exp, err := CompileExpr(n.Exp, cctx, params, defaultIndices, env)
		if err != nil {
			return nil, err
		}
		return solver.Pow(base, exp), nil

	case *ast.Div:
		num, err := CompileExpr(n.Num, cctx, params, defaultIndices, env)
		if err != nil {
			return nil, err
		}
		den, err := CompileExpr(n.Den, cctx, params, defaultIndices, env)
		if err != nil {
			return nil, err
		}
		return solver.Div(num, den), nil

	case *ast.Neg:
		x, err := CompileExpr(n.X, cctx, params, defaultIndices, env)
		if err != nil {
			return nil, err
		}
		return solver.Neg(x), nil

	case *ast.SumOver:
		terms, err := compileOverDomain(n.Index, n.Domain, n.Body, cctx, params, defaultIndices, env)
		if err != nil {
			return nil, err
		}
		return solver.Add(terms...), nil

	case *ast.ProdOver:
		terms, err := compileOverDomain(n.Index, n.Domain, n.Body, cctx, params, defaultIndices, env)
		if err != nil {
			return nil, err
		}
		return solver.Mul(terms...), nil

	case *ast.Eq:
		return nil, fmt.Errorf("%w: equality nested inside an expression", ErrUnsupportedExpression)

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedExpression, node)
	}
}

func compileTerms(nodes []ast.Node, cctx *Context, params ParamSource, defaultIndices []string, env *IndexEnv) ([]solver.Expr, error) {
	terms := make([]solver.Expr, len(nodes))
	for i, n := range nodes {
		t, err := CompileExpr(n, cctx, params, defaultIndices, env)
		if err != nil {
			return nil, err
		}
		terms[i] = t
	}
	return terms, nil
}

// compileOverDomain compiles body once per domain member, in order, with the
// loop index bound to that member. The binding is removed again whether
// compilation succeeds or fails, so sibling terms reusing the same
// environment never see a stale loop index. Domain order is preserved: it
// fixes the float summation order and with it the reproducibility of
// residuals.
func compileOverDomain(index string, domain []string, body ast.Node, cctx *Context, params ParamSource, defaultIndices []string, env *IndexEnv) ([]solver.Expr, error) {
	if len(domain) == 0 {
		return nil, fmt.Errorf("%w: index %q", ErrEmptyDomain, index)
	}
	defer env.Unbind(index)

	terms := make([]solver.Expr, 0, len(domain))
	for _, member := range domain {
		env.Bind(index, member)
		t, err := CompileExpr(body, cctx, params, defaultIndices, env)
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return terms, nil
}
