// Package testutil provides small helpers shared by the package tests:
// loading an in-memory HCL model source and running it end to end.
package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/equisolve/internal/hcl"
	"github.com/vk/equisolve/internal/modelspec"
	"github.com/vk/equisolve/internal/run"
)

// LoadModel parses one in-memory HCL model definition.
func LoadModel(t *testing.T, src string) *modelspec.Spec {
	t.Helper()
	loader := hcl.NewLoader()
	spec, err := loader.LoadBytes(context.Background(), "test.hcl", []byte(src))
	require.NoError(t, err)
	return spec
}

// RunModel loads and evaluates one in-memory HCL model definition.
func RunModel(t *testing.T, src string, opts run.Options) *run.Result {
	t.Helper()
	spec := LoadModel(t, src)
	result, err := run.Run(context.Background(), spec, opts)
	require.NoError(t, err)
	return result
}
