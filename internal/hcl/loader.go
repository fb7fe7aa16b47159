package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/equisolve/internal/ctxlog"
	"github.com/vk/equisolve/internal/fsutil"
	"github.com/vk/equisolve/internal/modelspec"
	"github.com/vk/equisolve/internal/schema"
)

// Loader reads .hcl model files and produces the agnostic modelspec.Spec.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader returns a fresh loader with its own HCL parser.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load parses every model file reachable from the given paths (files or
// directories, merged in order) and translates the result.
func (l *Loader) Load(ctx context.Context, paths ...string) (*modelspec.Spec, error) {
	logger := ctxlog.FromContext(ctx)

	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("model path %q: %w", path, err)
		}
		if info.IsDir() {
			found, err := fsutil.FindFilesByExtension(path, ".hcl")
			if err != nil {
				return nil, fmt.Errorf("walk model path %q: %w", path, err)
			}
			files = append(files, found...)
		} else {
			files = append(files, path)
		}
	}
	if len(files) == 0 {
		logger.Warn("No .hcl model files found.", "paths", paths)
	}

	merged := &schema.ModelFile{}
	for _, filePath := range files {
		logger.Debug("Decoding model file.", "path", filePath)
		parsed, err := l.decodeFile(filePath)
		if err != nil {
			return nil, err
		}
		merged.Sets = append(merged.Sets, parsed.Sets...)
		merged.Params = append(merged.Params, parsed.Params...)
		merged.Variables = append(merged.Variables, parsed.Variables...)
		merged.Blocks = append(merged.Blocks, parsed.Blocks...)
	}

	spec, err := l.translate(ctx, merged)
	if err != nil {
		return nil, err
	}

	logger.Info("Model loaded.",
		"files", len(files),
		"sets", len(spec.Sets),
		"params", len(spec.Params),
		"variables", len(spec.Variables),
		"blocks", len(spec.Blocks))
	return spec, nil
}

func (l *Loader) decodeFile(filePath string) (*schema.ModelFile, error) {
	file, diags := l.parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse model file %s: %s", filePath, diags.Error())
	}

	var parsed schema.ModelFile
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode model file %s: %s", filePath, diags.Error())
	}
	return &parsed, nil
}

// LoadBytes parses a single in-memory model definition. Used by tests and
// embedding callers that do not go through the filesystem.
func (l *Loader) LoadBytes(ctx context.Context, filename string, src []byte) (*modelspec.Spec, error) {
	file, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse model source %s: %s", filename, diags.Error())
	}

	var parsed schema.ModelFile
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode model source %s: %s", filename, diags.Error())
	}
	return l.translate(ctx, &parsed)
}

// sourceRange extracts the original source text under a range, for keeping
// untranslatable expressions around as raw nodes.
func (l *Loader) sourceRange(r hcl.Range) string {
	src, ok := l.parser.Sources()[r.Filename]
	if !ok || r.Start.Byte >= len(src) || r.End.Byte > len(src) {
		return ""
	}
	return string(src[r.Start.Byte:r.End.Byte])
}
