package app_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/equisolve/internal/app"
	"github.com/vk/equisolve/internal/export"
	"github.com/vk/equisolve/internal/hcl"
)

const appModel = `
set "i" {
  members = ["food", "cloth"]
}

param "endowment" {
  index  = ["i"]
  values = { food = 10, cloth = 5 }
}

variable "demand" {
  index = ["i"]
  start = 1
}

block "market" {
  equation "clearing" {
    index = ["i"]
    expr  = demand[i] == endowment[i]
  }
}
`

func writeModel(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "model.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func newTestConfig(t *testing.T, modelPath string) *app.Config {
	t.Helper()
	cfg, err := app.NewConfig(app.Config{
		ModelPath: modelPath,
		LogFormat: "text",
		LogLevel:  "error",
	})
	require.NoError(t, err)
	return cfg
}

func TestApp_RunEndToEnd(t *testing.T) {
	cfg := newTestConfig(t, writeModel(t, appModel))
	cfg.DatasetID = "app-run-1"

	var out bytes.Buffer
	a := app.NewApp(&out, cfg, hcl.NewLoader())
	require.NoError(t, a.Run(context.Background()))

	printed := out.String()
	require.Contains(t, printed, "dataset app-run-1: 2 residuals")
	require.Contains(t, printed, "0 above tolerance")
	require.Contains(t, printed, "[mcp] note: no MCP equations detected")
}

func TestApp_RunPersistsDataset(t *testing.T) {
	cfg := newTestConfig(t, writeModel(t, appModel))
	cfg.DatasetID = "app-run-2"
	cfg.OutPath = filepath.Join(t.TempDir(), "results.db")

	var out bytes.Buffer
	a := app.NewApp(&out, cfg, hcl.NewLoader())
	require.NoError(t, a.Run(context.Background()))

	store, err := export.Open(cfg.OutPath)
	require.NoError(t, err)
	defer store.Close()

	var count int
	row := store.DB().QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM constraints WHERE dataset_id = ?`, "app-run-2")
	require.NoError(t, row.Scan(&count))
	require.Equal(t, 2, count)
}

func TestApp_SpecAccessor(t *testing.T) {
	cfg := newTestConfig(t, writeModel(t, appModel))

	var out bytes.Buffer
	a := app.NewApp(&out, cfg, hcl.NewLoader())
	spec := a.Spec()
	require.Len(t, spec.Blocks, 1)
	require.Equal(t, "market", spec.Blocks[0].Name)
}

func TestApp_NewAppPanicsOnBrokenModel(t *testing.T) {
	cfg := newTestConfig(t, writeModel(t, `set "i" { members = ["a"] }
set "i" { members = ["b"] }`))

	var out bytes.Buffer
	require.Panics(t, func() {
		app.NewApp(&out, cfg, hcl.NewLoader())
	})
}

func TestNewConfig_Validation(t *testing.T) {
	_, err := app.NewConfig(app.Config{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "ModelPath")

	_, err = app.NewConfig(app.Config{ModelPath: "m.hcl", Backend: "simplex"})
	require.Error(t, err)

	_, err = app.NewConfig(app.Config{ModelPath: "m.hcl", Level: "paranoid"})
	require.Error(t, err)

	cfg, err := app.NewConfig(app.Config{ModelPath: "m.hcl", Tol: -1})
	require.NoError(t, err)
	require.Equal(t, 1e-6, cfg.Tol)
}
