package config

import (
	"fmt"
	"strings"
)

// ConfigurationError reports every referential or structural violation found
// in a study document. Violations are collected in one validation pass so a
// user sees all problems at once instead of fixing and re-running repeatedly.
type ConfigurationError struct {
	Violations []string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("study validation failed:\n- %s", strings.Join(e.Violations, "\n- "))
}

// RangeDefinitionError reports a malformed parameter range: bad bounds, a bad
// quantization step, or an inconsistent type/scale combination.
type RangeDefinitionError struct {
	Param  string
	Reason string
}

// Error implements the error interface.
func (e *RangeDefinitionError) Error() string {
	return fmt.Sprintf("invalid range for parameter %q: %s", e.Param, e.Reason)
}

// EmptyAxisWarning flags a categorical axis whose list is empty. An empty
// axis is valid input, but it collapses the whole product to zero trials,
// which almost always signals a misconfigured document.
type EmptyAxisWarning struct {
	Axis string
}

// String implements fmt.Stringer.
func (w EmptyAxisWarning) String() string {
	return fmt.Sprintf("axis %q is empty; the study expands to zero trials", w.Axis)
}
