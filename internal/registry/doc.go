// Package registry holds the catalogs of component identifiers a study
// document may reference: datasets, interaction models, training loops,
// optimizers, loss functions, regularizers, negative samplers, evaluators,
// stoppers, and the search-driver's samplers and pruners.
//
// Names are matched after normalization (lowercased, punctuation stripped,
// kind suffixes like "Loss" or "Regularizer" removed), so "BCEAfterSigmoidLoss",
// "bce_after_sigmoid" and "bceaftersigmoid" all resolve to the same entry.
// A few historical aliases are carried as well, e.g. "owa" for the sLCWA
// training loop.
//
// The registry replaces free-form string comparison in validation with a
// closed set per axis, while staying extensible: callers can Register extra
// names for components implemented outside the built-in catalog.
package registry
