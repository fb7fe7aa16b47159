package engine

import "errors"

var (
	// ErrUnboundIndex means a free index was referenced with no binding in
	// the current environment.
	ErrUnboundIndex = errors.New("unbound index")

	// ErrMissingVariable means a fully-qualified variable name resolved to
	// nothing in the context's variable table.
	ErrMissingVariable = errors.New("missing variable")

	// ErrMissingParamSource means a parameter reference was compiled with no
	// parameter source supplied.
	ErrMissingParamSource = errors.New("no parameter source supplied")

	// ErrRawExpression means a raw/opaque node reached the compiler. Raw
	// nodes are excluded from numeric lowering on purpose.
	ErrRawExpression = errors.New("raw expression is not compilable")

	// ErrEmptyDomain means an indexed sum or product has no domain members.
	ErrEmptyDomain = errors.New("empty iteration domain")

	// ErrEmptyProduct means an explicit product node carried no terms; a
	// product has no identity fallback.
	ErrEmptyProduct = errors.New("product requires at least one term")

	// ErrUnsupportedEquation means a top-level equation AST was not an
	// equality.
	ErrUnsupportedEquation = errors.New("unsupported equation form")

	// ErrUnsupportedExpression means the compiler met an AST variant it has
	// no lowering for.
	ErrUnsupportedExpression = errors.New("unsupported expression node")

	// ErrMultipleObjectives means more than one registered equation record
	// carried an objective expression.
	ErrMultipleObjectives = errors.New("multiple objectives registered")

	// ErrNoModel means an operation that needs the solver model ran on a
	// context without one attached.
	ErrNoModel = errors.New("context has no solver model")
)
