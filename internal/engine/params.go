package engine

// ParamSource supplies calibrated parameter values to the expression
// compiler. The compiler never inspects the source's structure; it only asks
// for a named value under a concrete index tuple.
type ParamSource interface {
	GetParam(name string, indices ...string) (float64, error)
}
