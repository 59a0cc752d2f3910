// Package config defines the format-agnostic model of an ablation study
// document. Its core purpose is to give the rest of the application one
// strongly-typed, in-memory representation of the user's study definition,
// no matter which concrete syntax (HCL, JSON, YAML) it was written in.
//
// # Core Concepts
//
// The model is built around a few key structures:
//
//   - Study: the root container for one study document. It pairs the Ablation
//     definition (what to enumerate) with the Search settings (how the
//     external driver should explore each trial's tunable parameters).
//
//   - Ablation: the declarative grid. Ordered lists of categorical choices per
//     axis (datasets, models, training loops, optimizers, losses,
//     regularizers, inverse-triples flags) plus the fixed-kwargs and
//     kwargs-range tables scoped by model and, where applicable, by the
//     chosen sub-component.
//
//   - ParameterRange: one tunable hyperparameter's search domain, made of a
//     value type, bounds or explicit choices, an optional quantization step
//     and an optional sampling scale.
//
//   - Trial: one fully resolved combination, one value per axis, carrying the
//     merged kwargs and ranges that apply to exactly that combination. Trials
//     are created by the expander, never mutated afterwards, and serialize
//     back to the same nested-map shape as the source document.
//
// Why a separate model package?
//
// Loaders translate their syntax into this model and then drop out of the
// picture: validation and expansion only ever see these types. That keeps the
// expander pure and lets structural checks run on the whole document shape
// before any per-trial work begins.
package config
