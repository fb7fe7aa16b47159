// Package validate inspects a compiled (and possibly solved) equation
// context and assembles a categorized quality report. Findings are recorded,
// never raised: a report full of warnings still returns normally, and only
// explicit errors fail the final summary.
package validate

import "fmt"

// Category names one section of the report.
type Category string

const (
	CategoryStructural Category = "structural"
	CategoryResiduals  Category = "residuals"
	CategoryMCP        Category = "mcp"
	CategoryScaling    Category = "scaling"
)

// categoryOrder fixes the rendering order of report sections.
var categoryOrder = []Category{
	CategoryStructural,
	CategoryResiduals,
	CategoryMCP,
	CategoryScaling,
}

// Findings is one category's accumulated messages.
type Findings struct {
	Errors   []string
	Warnings []string
	Notes    []string
}

// Report maps categories to findings.
type Report struct {
	categories map[Category]*Findings
}

// NewReport returns a report with all four categories present and empty.
func NewReport() *Report {
	r := &Report{categories: make(map[Category]*Findings)}
	for _, c := range categoryOrder {
		r.categories[c] = &Findings{}
	}
	return r
}

// Category returns the findings recorded under c.
func (r *Report) Category(c Category) *Findings {
	return r.categories[c]
}

// Errorf records an error under c.
func (r *Report) Errorf(c Category, format string, args ...any) {
	f := r.categories[c]
	f.Errors = append(f.Errors, fmt.Sprintf(format, args...))
}

// Warnf records a warning under c.
func (r *Report) Warnf(c Category, format string, args ...any) {
	f := r.categories[c]
	f.Warnings = append(f.Warnings, fmt.Sprintf(format, args...))
}

// Notef records an informational note under c.
func (r *Report) Notef(c Category, format string, args ...any) {
	f := r.categories[c]
	f.Notes = append(f.Notes, fmt.Sprintf(format, args...))
}

// Summary are the totals across all categories. OK is true iff no errors
// were recorded; warnings never fail validation.
type Summary struct {
	Errors   int
	Warnings int
	OK       bool
}

// Finalize computes the report's summary.
func (r *Report) Finalize() Summary {
	var s Summary
	for _, f := range r.categories {
		s.Errors += len(f.Errors)
		s.Warnings += len(f.Warnings)
	}
	s.OK = s.Errors == 0
	return s
}

// Categories returns the categories in rendering order.
func Categories() []Category {
	return categoryOrder
}
