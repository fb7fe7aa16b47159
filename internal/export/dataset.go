// Package export translates a solved equation context into the result
// dataset schema: per-block component records, per-equation-instance
// constraint records, and per-constraint solution records. Datasets can be
// held in memory or persisted through the SQLite-backed Store.
package export

import (
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/vk/equisolve/internal/engine"
)

// Component is one model block that contributed equations.
type Component struct {
	Name string
}

// Constraint is one equation instance. ID is built from block, tag, and the
// comma-joined index tuple.
type Constraint struct {
	ID      string
	Block   string
	Tag     string
	Indices []string
}

// Solution is the solve outcome for one constraint. Duals are not produced
// by the backend and default to zero; slack is the absolute residual and
// the constraint is binding when slack is within tolerance.
type Solution struct {
	ConstraintID string
	Dual         float64
	Slack        float64
	Binding      bool
}

// Dataset is the full export payload for one run.
type Dataset struct {
	ID          string
	Description string
	Components  []Component
	Constraints []Constraint
	Solutions   []Solution
}

// ConstraintID builds the stable identifier of one equation instance.
func ConstraintID(block, tag string, indices []string) string {
	id := block + "." + tag
	if len(indices) > 0 {
		id += "[" + strings.Join(indices, ",") + "]"
	}
	return id
}

// Build assembles a dataset from the context. An empty datasetID gets a
// fresh UUID. Solution records exist only for constraints whose residual the
// solve step populated.
func Build(cctx *engine.Context, datasetID, description string, tol float64) *Dataset {
	if datasetID == "" {
		datasetID = uuid.NewString()
	}
	ds := &Dataset{ID: datasetID, Description: description}

	seen := make(map[string]struct{})
	for _, rec := range cctx.Equations() {
		if _, ok := seen[rec.Block]; !ok {
			seen[rec.Block] = struct{}{}
			ds.Components = append(ds.Components, Component{Name: rec.Block})
		}

		cid := ConstraintID(rec.Block, rec.Tag, rec.Payload.Indices)
		ds.Constraints = append(ds.Constraints, Constraint{
			ID:      cid,
			Block:   rec.Block,
			Tag:     rec.Tag,
			Indices: rec.Payload.Indices,
		})

		if residual, ok := rec.Residual(); ok {
			slack := math.Abs(residual)
			ds.Solutions = append(ds.Solutions, Solution{
				ConstraintID: cid,
				Dual:         0.0,
				Slack:        slack,
				Binding:      slack <= tol,
			})
		}
	}
	return ds
}
