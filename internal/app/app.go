package app

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/vk/hpogrid/internal/config"
	"github.com/vk/hpogrid/internal/expand"
	"github.com/vk/hpogrid/internal/hcl"
	"github.com/vk/hpogrid/internal/registry"
	"github.com/vk/hpogrid/internal/yaml"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config

	registry   *registry.Registry
	expander   *expand.Expander
	hclLoader  *hcl.Loader
	yamlLoader *yaml.Loader
}

// NewApp is the constructor for the main application. Plan output goes to
// outW; logs go to logW so that a plan piped to stdout stays machine
// readable.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	return &App{
		outW:       outW,
		logger:     logger,
		config:     cfg,
		registry:   reg,
		expander:   expand.New(reg),
		hclLoader:  hcl.NewLoader(),
		yamlLoader: yaml.NewLoader(),
	}
}

// Registry returns the application's component registry. This is primarily
// for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// loaderFor selects the loader implementation by file extension.
func (a *App) loaderFor(path string) config.Loader {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return a.yamlLoader
	default:
		return a.hclLoader
	}
}
