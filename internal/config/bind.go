package config

import (
	"fmt"
	"sort"
)

// This file binds raw nested maps, as produced by any concrete loader, into
// the typed model. Both the HCL and the YAML loaders funnel their decoded
// documents through these functions, so the keying rules for kwargs tables
// are defined in exactly one place.

// BindKwargs converts a raw value into a Kwargs map. Nil input yields nil.
func BindKwargs(v any) (Kwargs, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a map of parameter values, got %T", v)
	}
	kw := make(Kwargs, len(m))
	for name, val := range m {
		kw[name] = val
	}
	return kw, nil
}

// BindRanges converts a raw value into a Ranges map. Nil input yields nil.
func BindRanges(v any) (Ranges, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a map of range definitions, got %T", v)
	}
	ranges := make(Ranges, len(m))
	for name, raw := range m {
		r, err := BindRange(name, raw)
		if err != nil {
			return nil, err
		}
		ranges[name] = r
	}
	return ranges, nil
}

// BindRange converts one raw range definition into a ParameterRange. Only the
// structural shape is checked here; semantic constraints (bounds ordering,
// scale compatibility) belong to validation so they can be collected.
func BindRange(param string, v any) (*ParameterRange, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &RangeDefinitionError{
			Param:  param,
			Reason: fmt.Sprintf("expected a range definition map, got %T", v),
		}
	}
	r := &ParameterRange{}
	for key, val := range m {
		switch key {
		case "type":
			s, ok := val.(string)
			if !ok {
				return nil, &RangeDefinitionError{Param: param, Reason: "type must be a string"}
			}
			r.Type = RangeType(s)
		case "low":
			f, ok := toFloat(val)
			if !ok {
				return nil, &RangeDefinitionError{Param: param, Reason: "low must be a number"}
			}
			r.Low = f
		case "high":
			f, ok := toFloat(val)
			if !ok {
				return nil, &RangeDefinitionError{Param: param, Reason: "high must be a number"}
			}
			r.High = f
		case "q":
			f, ok := toFloat(val)
			if !ok {
				return nil, &RangeDefinitionError{Param: param, Reason: "q must be a number"}
			}
			r.Q = f
		case "scale":
			s, ok := val.(string)
			if !ok {
				return nil, &RangeDefinitionError{Param: param, Reason: "scale must be a string"}
			}
			r.Scale = ScaleType(s)
		case "choices":
			list, ok := val.([]any)
			if !ok {
				return nil, &RangeDefinitionError{Param: param, Reason: "choices must be a list"}
			}
			r.Choices = list
		default:
			return nil, &RangeDefinitionError{
				Param:  param,
				Reason: fmt.Sprintf("unknown range field %q", key),
			}
		}
	}
	return r, nil
}

// BindModelKwargs converts a raw value into a per-model fixed-kwargs table.
func BindModelKwargs(v any) (map[string]Kwargs, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a map keyed by model, got %T", v)
	}
	out := make(map[string]Kwargs, len(m))
	for model, raw := range m {
		kw, err := BindKwargs(raw)
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", model, err)
		}
		out[model] = kw
	}
	return out, nil
}

// BindModelRanges converts a raw value into a per-model kwargs-range table.
func BindModelRanges(v any) (map[string]Ranges, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a map keyed by model, got %T", v)
	}
	out := make(map[string]Ranges, len(m))
	for model, raw := range m {
		ranges, err := BindRanges(raw)
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", model, err)
		}
		out[model] = ranges
	}
	return out, nil
}

// BindScopedKwargs converts a raw value into a ScopedKwargs table for one
// component slot. The inner map of each model entry is keyed either entirely
// by names from choices (per-choice kwargs) or entirely by parameter names (a
// model-level default); mixing the two is rejected.
func BindScopedKwargs(v any, slot string, choices []string) (ScopedKwargs, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a map keyed by model, got %T", slot, v)
	}
	out := make(ScopedKwargs, len(m))
	for model, raw := range m {
		inner, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: model %q: expected a map, got %T", slot, model, raw)
		}
		entry := &ComponentKwargs{}
		perChoice, isDefault, err := splitByChoices(inner, slot, model, choices)
		if err != nil {
			return nil, err
		}
		if isDefault {
			kw, err := BindKwargs(inner)
			if err != nil {
				return nil, fmt.Errorf("%s: model %q: %w", slot, model, err)
			}
			entry.Default = kw
		} else {
			entry.PerChoice = make(map[string]Kwargs, len(perChoice))
			for choice, rawKwargs := range perChoice {
				kw, err := BindKwargs(rawKwargs)
				if err != nil {
					return nil, fmt.Errorf("%s: model %q, choice %q: %w", slot, model, choice, err)
				}
				if kw == nil {
					kw = Kwargs{}
				}
				entry.PerChoice[choice] = kw
			}
		}
		out[model] = entry
	}
	return out, nil
}

// BindScopedRanges converts a raw value into a ScopedRanges table for one
// component slot, with the same keying rules as BindScopedKwargs.
func BindScopedRanges(v any, slot string, choices []string) (ScopedRanges, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a map keyed by model, got %T", slot, v)
	}
	out := make(ScopedRanges, len(m))
	for model, raw := range m {
		inner, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: model %q: expected a map, got %T", slot, model, raw)
		}
		entry := &ComponentRanges{}
		perChoice, isDefault, err := splitByChoices(inner, slot, model, choices)
		if err != nil {
			return nil, err
		}
		if isDefault {
			ranges, err := BindRanges(inner)
			if err != nil {
				return nil, fmt.Errorf("%s: model %q: %w", slot, model, err)
			}
			entry.Default = ranges
		} else {
			entry.PerChoice = make(map[string]Ranges, len(perChoice))
			for choice, rawRanges := range perChoice {
				ranges, err := BindRanges(rawRanges)
				if err != nil {
					return nil, fmt.Errorf("%s: model %q, choice %q: %w", slot, model, choice, err)
				}
				if ranges == nil {
					ranges = Ranges{}
				}
				entry.PerChoice[choice] = ranges
			}
		}
		out[model] = entry
	}
	return out, nil
}

// splitByChoices decides whether an inner map is keyed by component choices
// or is a model-level default. An empty map counts as per-choice with no
// entries, which resolves to empty kwargs for every choice.
func splitByChoices(inner map[string]any, slot, model string, choices []string) (map[string]any, bool, error) {
	choiceSet := make(map[string]struct{}, len(choices))
	for _, c := range choices {
		choiceSet[c] = struct{}{}
	}

	perChoice := make(map[string]any)
	var unmatched []string
	for key, val := range inner {
		if _, ok := choiceSet[key]; ok {
			perChoice[key] = val
		} else {
			unmatched = append(unmatched, key)
		}
	}

	switch {
	case len(perChoice) == 0 && len(unmatched) == 0:
		return perChoice, false, nil
	case len(unmatched) == 0:
		return perChoice, false, nil
	case len(perChoice) == 0:
		// No key matches a declared choice: the whole map is a default.
		return nil, true, nil
	default:
		sort.Strings(unmatched)
		return nil, false, fmt.Errorf(
			"%s: model %q mixes choice keys with parameter keys %v; declare either per-choice maps or a single default map",
			slot, model, unmatched)
	}
}

// toFloat widens the numeric representations the loaders produce into
// float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
