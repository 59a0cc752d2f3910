package registry

import (
	"sort"
	"strings"
	"unicode"
)

// Axis identifies one catalog of component identifiers.
type Axis string

const (
	AxisDataset         Axis = "dataset"
	AxisModel           Axis = "model"
	AxisTrainingLoop    Axis = "training_loop"
	AxisOptimizer       Axis = "optimizer"
	AxisLossFunction    Axis = "loss_function"
	AxisRegularizer     Axis = "regularizer"
	AxisNegativeSampler Axis = "negative_sampler"
	AxisEvaluator       Axis = "evaluator"
	AxisStopper         Axis = "stopper"
	AxisSampler         Axis = "sampler"
	AxisPruner          Axis = "pruner"
)

// axisSuffixes are the kind markers stripped during normalization, per axis,
// mirroring how the referenced training frameworks name their classes
// ("LpRegularizer", "BCEAfterSigmoidLoss").
var axisSuffixes = map[Axis][]string{
	AxisDataset:         {"dataset"},
	AxisTrainingLoop:    {"trainingloop"},
	AxisOptimizer:       {"optimizer"},
	AxisLossFunction:    {"loss"},
	AxisRegularizer:     {"regularizer"},
	AxisNegativeSampler: {"negativesampler", "sampler"},
	AxisEvaluator:       {"evaluator"},
	AxisStopper:         {"stopper"},
	AxisSampler:         {"sampler"},
	AxisPruner:          {"pruner"},
}

// Registry maps normalized component names to their canonical identifiers,
// one catalog per axis.
type Registry struct {
	known map[Axis]map[string]string
}

// New returns a registry seeded with the built-in catalogs.
func New() *Registry {
	r := &Registry{known: make(map[Axis]map[string]string)}
	for axis, names := range builtinCatalog {
		r.Register(axis, names...)
	}
	for axis, aliases := range builtinAliases {
		for alias, canonical := range aliases {
			r.register(axis, alias, canonical)
		}
	}
	return r
}

// Register adds canonical names to an axis catalog. Already-registered names
// are overwritten, which lets callers shadow a built-in entry.
func (r *Registry) Register(axis Axis, names ...string) {
	for _, name := range names {
		r.register(axis, name, name)
	}
}

func (r *Registry) register(axis Axis, name, canonical string) {
	catalog, ok := r.known[axis]
	if !ok {
		catalog = make(map[string]string)
		r.known[axis] = catalog
	}
	catalog[Normalize(axis, name)] = canonical
}

// Canonical resolves a user-provided name against an axis catalog. The
// second return value reports whether the name is recognized.
func (r *Registry) Canonical(axis Axis, name string) (string, bool) {
	canonical, ok := r.known[axis][Normalize(axis, name)]
	return canonical, ok
}

// Known reports whether a name resolves on the given axis.
func (r *Registry) Known(axis Axis, name string) bool {
	_, ok := r.Canonical(axis, name)
	return ok
}

// List returns the sorted canonical names of one axis catalog.
func (r *Registry) List(axis Axis) []string {
	seen := make(map[string]struct{})
	for _, canonical := range r.known[axis] {
		seen[canonical] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Normalize reduces a component name to its comparable form: lowercase
// alphanumerics with the axis kind suffix stripped. Dataset names keep their
// digits ("fb15k237"); class-style names lose their kind marker
// ("LpRegularizer" -> "lp").
func Normalize(axis Axis, name string) string {
	var b strings.Builder
	for _, c := range name {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			b.WriteRune(unicode.ToLower(c))
		}
	}
	normalized := b.String()
	for _, suffix := range axisSuffixes[axis] {
		if trimmed, ok := strings.CutSuffix(normalized, suffix); ok && trimmed != "" {
			normalized = trimmed
			break
		}
	}
	return normalized
}
