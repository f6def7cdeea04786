package grid

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rxtech-lab/argo-optimizer/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ProgressionLength is the number of candidate values generated from a compact spec.
const ProgressionLength = 10

// linearPrecision is the number of decimal places linear progressions are rounded to.
const linearPrecision = 5

// Mode selects how a progression grows from its start value.
type Mode string

const (
	ModeGeometric Mode = "geometric"
	ModeLinear    Mode = "linear"
)

// ParseMode maps a mode name, including the short aliases "geo" and "lin", onto a Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "geometric", "geo":
		return ModeGeometric, nil
	case "linear", "lin":
		return ModeLinear, nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidProgressionMode,
			"wrong mode: %q, should be 'linear' (lin) or 'geometric' (geo)", name)
	}
}

// Spec describes the candidate values of one parameter: either (start, step, mode)
// or an explicit list of values, in which case step and mode are ignored.
type Spec struct {
	Start float64
	Step  float64
	Mode  Mode
	// Integral is set when start was given as an integer. Geometric progressions of
	// integral specs are truncated to integers.
	Integral bool
	// Values, when non-empty, is used verbatim.
	Values []float64
}

// Geometric returns a geometric spec.
func Geometric(start, step float64, integral bool) Spec {
	return Spec{Start: start, Step: step, Mode: ModeGeometric, Integral: integral}
}

// Linear returns a linear spec.
func Linear(start, step float64) Spec {
	return Spec{Start: start, Step: step, Mode: ModeLinear}
}

// Explicit returns a spec that yields the given values unchanged.
func Explicit(values ...float64) Spec {
	return Spec{Values: values}
}

// ParseSpec builds a Spec from a tuple of 2 or 3 elements: (start, step[, mode]).
// The mode defaults to geometric. If start is itself a sequence, it is used verbatim.
func ParseSpec(elems ...any) (Spec, error) {
	if len(elems) != 2 && len(elems) != 3 {
		return Spec{}, errors.Newf(errors.ErrCodeInvalidParameterSpec,
			"wrong parameter: %v, must be a tuple of (start, step, [mode])", elems)
	}

	if values, ok := toFloatSlice(elems[0]); ok {
		if len(values) == 0 {
			return Spec{}, errors.New(errors.ErrCodeInvalidParameterSpec, "explicit parameter values must not be empty")
		}

		return Explicit(values...), nil
	}

	modeName := string(ModeGeometric)
	if len(elems) == 3 {
		name, ok := elems[2].(string)
		if !ok {
			return Spec{}, errors.Newf(errors.ErrCodeInvalidProgressionMode,
				"wrong mode: %v, must be a string", elems[2])
		}

		modeName = name
	}

	start, integral, err := toNumber(elems[0])
	if err != nil {
		return Spec{}, errors.Wrap(errors.ErrCodeInvalidParameterSpec, "invalid start", err)
	}

	step, _, err := toNumber(elems[1])
	if err != nil {
		return Spec{}, errors.Wrap(errors.ErrCodeInvalidParameterSpec, "invalid step", err)
	}

	mode, err := ParseMode(modeName)
	if err != nil {
		return Spec{}, err
	}

	return Spec{Start: start, Step: step, Mode: mode, Integral: integral}, nil
}

// IsExplicit reports whether the spec carries an explicit list of values.
func (s Spec) IsExplicit() bool {
	return len(s.Values) > 0
}

// Progression returns the ordered candidate values of the spec.
func (s Spec) Progression() ([]float64, error) {
	if s.IsExplicit() {
		return s.Values, nil
	}

	values := make([]float64, ProgressionLength)

	switch s.Mode {
	case ModeGeometric:
		for i := range values {
			v := s.Start * math.Pow(s.Step, float64(i))
			if s.Integral {
				v = math.Trunc(v)
			}

			values[i] = v
		}
	case ModeLinear:
		for i := range values {
			values[i] = roundDecimals(s.Start+s.Step*float64(i), linearPrecision)
		}
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProgressionMode,
			"wrong mode: %q, should be 'linear' (lin) or 'geometric' (geo)", s.Mode)
	}

	return values, nil
}

// roundDecimals rounds the exact binary value of v to the given number of decimal
// places, so 0.123455 (stored just below the tie) becomes 0.12345.
func roundDecimals(v float64, places int) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}

	return rounded
}

// Validate checks the spec without generating it.
func (s Spec) Validate() error {
	_, err := s.Progression()

	return err
}

// String renders the spec in its tuple form.
func (s Spec) String() string {
	if s.IsExplicit() {
		return fmt.Sprintf("%v", s.Values)
	}

	if s.Integral {
		return fmt.Sprintf("(%d, %v, %s)", int64(s.Start), s.Step, s.Mode)
	}

	return fmt.Sprintf("(%v, %v, %s)", s.Start, s.Step, s.Mode)
}

// UnmarshalYAML decodes a spec from its tuple form, e.g. [100, 1.25, geometric],
// [0.1, 0.1, lin] or [[5, 10, 20], 0].
func (s *Spec) UnmarshalYAML(node *yaml.Node) error {
	var elems []any
	if err := node.Decode(&elems); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParameterSpec, "parameter spec must be a sequence", err)
	}

	spec, err := ParseSpec(elems...)
	if err != nil {
		return err
	}

	*s = spec

	return nil
}

// MarshalYAML encodes the spec back into its tuple form.
func (s Spec) MarshalYAML() (any, error) {
	if s.IsExplicit() {
		return []any{s.Values, 0}, nil
	}

	var start any = s.Start
	if s.Integral {
		start = int64(s.Start)
	}

	return []any{start, s.Step, string(s.Mode)}, nil
}

func toNumber(v any) (float64, bool, error) {
	switch n := v.(type) {
	case int:
		return float64(n), true, nil
	case int32:
		return float64(n), true, nil
	case int64:
		return float64(n), true, nil
	case uint:
		return float64(n), true, nil
	case uint64:
		return float64(n), true, nil
	case float32:
		return float64(n), false, nil
	case float64:
		return n, false, nil
	default:
		return 0, false, fmt.Errorf("expected a number, got %T (%v)", v, v)
	}
}

func toFloatSlice(v any) ([]float64, bool) {
	switch values := v.(type) {
	case []float64:
		return values, true
	case []int:
		out := make([]float64, len(values))
		for i, n := range values {
			out[i] = float64(n)
		}

		return out, true
	case []any:
		out := make([]float64, 0, len(values))

		for _, item := range values {
			n, _, err := toNumber(item)
			if err != nil {
				return nil, false
			}

			out = append(out, n)
		}

		return out, true
	default:
		return nil, false
	}
}
