// Package engine is the equation-compilation core. It owns the Context (the
// variable table, the ordered equation registry, and the solver model
// handle), the scoped index environment, and the compilers that lower
// symbolic ASTs into the solver's numeric constraint and objective form. It
// also reads compiled residuals back out of the registry and summarizes
// them.
//
// Nothing here is safe for concurrent use: one run sequence constructs,
// compiles, and solves a Context exclusively.
package engine
