package app

import (
	"context"
	"fmt"

	"github.com/vk/equisolve/internal/ctxlog"
	"github.com/vk/equisolve/internal/export"
	"github.com/vk/equisolve/internal/run"
	"github.com/vk/equisolve/internal/solver"
	"github.com/vk/equisolve/internal/validate"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	opts := run.DefaultOptions()
	opts.Tol = a.config.Tol
	opts.DatasetID = a.config.DatasetID
	opts.Description = a.config.Description
	opts.CompileObjective = !a.config.SkipObjective
	if a.config.Backend != "" {
		optimizer := solver.DefaultConfig()
		optimizer.Backend = a.config.Backend
		opts.Optimizer = &optimizer
	}

	result, err := run.Run(ctx, a.spec, opts)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	level, err := validate.ParseLevel(a.config.Level)
	if err != nil {
		return err
	}
	report := validate.Validate(result.Context, level, a.config.Tol)
	a.printReport(report, result)

	if a.config.OutPath != "" {
		store, err := export.Open(a.config.OutPath)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.SaveDataset(ctx, result.Dataset); err != nil {
			return err
		}
		a.logger.Info("Dataset persisted.", "path", a.config.OutPath, "dataset", result.Dataset.ID)
	}

	summary := report.Finalize()
	if !summary.OK {
		return fmt.Errorf("validation reported %d error(s)", summary.Errors)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// printReport renders the residual summary and the validation report to the
// application's output writer.
func (a *App) printReport(report *validate.Report, result *run.Result) {
	s := result.Summary
	fmt.Fprintf(a.outW, "dataset %s: %d residuals, max |residual| %.3e, %d above tolerance %.1e\n",
		result.Dataset.ID, s.Count, s.MaxAbs, s.AboveTol, s.Tol)
	if s.Worst != nil {
		fmt.Fprintf(a.outW, "worst: %s/%s%v = %.3e\n",
			s.Worst.Block, s.Worst.Tag, s.Worst.Indices, s.Worst.Value)
	}

	for _, category := range validate.Categories() {
		findings := report.Category(category)
		for _, msg := range findings.Errors {
			fmt.Fprintf(a.outW, "[%s] error: %s\n", category, msg)
		}
		for _, msg := range findings.Warnings {
			fmt.Fprintf(a.outW, "[%s] warning: %s\n", category, msg)
		}
		for _, msg := range findings.Notes {
			fmt.Fprintf(a.outW, "[%s] note: %s\n", category, msg)
		}
	}
}
