// Package expand turns one validated study document into the ordered
// sequence of trials that make up the full ablation grid.
//
// The Expander has exactly two operations. Validate checks referential
// integrity of the whole document and reports every violation it finds in a
// single ConfigurationError. Expand computes the Cartesian product over the
// categorical axes and resolves, for each combination, the fixed kwargs and
// kwargs ranges scoped to it. Expand never fails on validated input; its only
// caveat is the empty-axis case, which yields zero trials plus a warning.
//
// Both operations are pure: no shared state, no side effects, and the same
// document always produces the same violation list and the same trial
// sequence. Axis lists are walked in declared order, nested outer-to-inner as
// the axes are declared, so trial indices are reproducible.
package expand
