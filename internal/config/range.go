package config

import (
	"fmt"
	"math"
)

// RangeType identifies the value type of a tunable hyperparameter.
type RangeType string

const (
	RangeInt         RangeType = "int"
	RangeFloat       RangeType = "float"
	RangeBool        RangeType = "bool"
	RangeCategorical RangeType = "categorical"
)

// ScaleType identifies the sampling scale applied to a numeric range.
type ScaleType string

const (
	// ScaleLinear samples uniformly between Low and High. It is the default
	// when no scale is declared.
	ScaleLinear ScaleType = "linear"
	// ScaleLog samples uniformly in log space, which requires Low > 0.
	ScaleLog ScaleType = "log"
)

// ParameterRange is one tunable hyperparameter's search domain.
type ParameterRange struct {
	Type RangeType

	// Low and High bound numeric ranges, inclusive on both ends.
	Low  float64
	High float64

	// Q, when non-zero, quantizes the range to steps of this size starting
	// at Low. A step that does not evenly divide High-Low is accepted: the
	// last quantized point is clamped to High.
	Q float64

	// Scale applies to numeric ranges only. Empty means linear.
	Scale ScaleType

	// Choices enumerates the domain of a categorical range.
	Choices []any
}

// Validate reports the first structural problem with the range definition,
// as a *RangeDefinitionError. Validation of a whole study collects these
// per-parameter rather than stopping at the first.
func (r *ParameterRange) Validate(param string) error {
	if r == nil {
		return &RangeDefinitionError{Param: param, Reason: "range definition is missing"}
	}
	switch r.Type {
	case RangeInt, RangeFloat:
		if r.High < r.Low {
			return &RangeDefinitionError{
				Param:  param,
				Reason: fmt.Sprintf("low (%v) must not exceed high (%v)", r.Low, r.High),
			}
		}
		if r.Q < 0 {
			return &RangeDefinitionError{
				Param:  param,
				Reason: fmt.Sprintf("quantization step q must be positive, got %v", r.Q),
			}
		}
		if r.Type == RangeInt && r.Q != 0 && r.Q != math.Trunc(r.Q) {
			return &RangeDefinitionError{
				Param:  param,
				Reason: fmt.Sprintf("integer range requires an integer q, got %v", r.Q),
			}
		}
		switch r.Scale {
		case "", ScaleLinear:
		case ScaleLog:
			if r.Low <= 0 {
				return &RangeDefinitionError{
					Param:  param,
					Reason: fmt.Sprintf("log scale requires low > 0, got %v", r.Low),
				}
			}
		default:
			return &RangeDefinitionError{
				Param:  param,
				Reason: fmt.Sprintf("unknown scale %q", r.Scale),
			}
		}
		if len(r.Choices) > 0 {
			return &RangeDefinitionError{
				Param:  param,
				Reason: "numeric range must not declare choices",
			}
		}
	case RangeBool:
		if r.Low != 0 || r.High != 0 || r.Q != 0 || r.Scale != "" || len(r.Choices) > 0 {
			return &RangeDefinitionError{
				Param:  param,
				Reason: "bool range takes no bounds, step, scale or choices",
			}
		}
	case RangeCategorical:
		if len(r.Choices) == 0 {
			return &RangeDefinitionError{Param: param, Reason: "categorical range requires choices"}
		}
		if r.Low != 0 || r.High != 0 || r.Q != 0 || r.Scale != "" {
			return &RangeDefinitionError{
				Param:  param,
				Reason: "categorical range takes no bounds, step or scale",
			}
		}
	case "":
		return &RangeDefinitionError{Param: param, Reason: "range type is required"}
	default:
		return &RangeDefinitionError{
			Param:  param,
			Reason: fmt.Sprintf("unknown range type %q", r.Type),
		}
	}
	return nil
}

// GridPoints returns the concrete values a quantized or enumerable range
// spans, in ascending order. Ranges without a finite grid (un-quantized
// floats) return nil.
func (r *ParameterRange) GridPoints() []any {
	switch r.Type {
	case RangeBool:
		return []any{false, true}
	case RangeCategorical:
		points := make([]any, len(r.Choices))
		copy(points, r.Choices)
		return points
	case RangeInt:
		step := r.Q
		if step == 0 {
			step = 1
		}
		return numericGrid(r.Low, r.High, step, true)
	case RangeFloat:
		if r.Q == 0 {
			return nil
		}
		return numericGrid(r.Low, r.High, r.Q, false)
	}
	return nil
}

// numericGrid walks Low..High in steps of q. When q does not evenly divide
// the span, the final point is clamped to high so the upper bound is always
// reachable.
func numericGrid(low, high, q float64, asInt bool) []any {
	var points []any
	for v := low; v < high || almostEqual(v, high); v += q {
		if asInt {
			points = append(points, int(math.Round(v)))
		} else {
			points = append(points, v)
		}
	}
	if len(points) == 0 {
		return points
	}
	if asInt {
		if points[len(points)-1].(int) != int(math.Round(high)) && float64(points[len(points)-1].(int)) < high {
			points = append(points, int(math.Round(high)))
		}
	} else {
		last := points[len(points)-1].(float64)
		if !almostEqual(last, high) && last < high {
			points = append(points, high)
		}
	}
	return points
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
