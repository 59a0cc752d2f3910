// Package hcl provides the concrete HCL implementation of the study loader
// interface defined in the `config` package. It parses native HCL syntax and,
// through HCL's JSON variant, original-style JSON study documents, evaluates
// the kwargs expressions, and binds everything into the format-agnostic model.
package hcl
