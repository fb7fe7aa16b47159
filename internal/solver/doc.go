// Package solver provides the numeric model that compiled equations target:
// variable handles with bounds and fixed states, equality and
// complementarity constraints over expression trees, a single optional
// objective, and pluggable root-finding backends. The engine compiles
// symbolic ASTs into this package's Expr form; everything here is plain
// float64 arithmetic with no symbolic knowledge.
package solver
