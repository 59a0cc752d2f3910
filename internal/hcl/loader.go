package hcl

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/hpogrid/internal/config"
	"github.com/vk/hpogrid/internal/ctxlog"
	"github.com/vk/hpogrid/internal/schema"
)

// Loader parses HCL and JSON study documents.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a new HCL study loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load reads one study document and translates it into the format-agnostic
// model. Files ending in .json parse through HCL's JSON syntax, everything
// else as native HCL.
func (l *Loader) Load(ctx context.Context, path string) (*config.Study, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading study document.", "path", path)

	var file *hcl.File
	var diags hcl.Diagnostics
	if strings.EqualFold(filepath.Ext(path), ".json") {
		file, diags = l.parser.ParseJSONFile(path)
	} else {
		file, diags = l.parser.ParseHCLFile(path)
	}
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse study file %s: %w", path, diags)
	}

	var parsed schema.StudyFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode study file %s: %w", path, diags)
	}
	if parsed.Ablation == nil {
		return nil, fmt.Errorf("study file %s has no ablation block", path)
	}

	study, err := translate(&parsed)
	if err != nil {
		return nil, fmt.Errorf("invalid study file %s: %w", path, err)
	}

	logger.Debug("Study document loaded.", "path", path,
		"models", len(study.Ablation.Models), "datasets", len(study.Ablation.Datasets))
	return study, nil
}
