package types

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Pair is one (p1, p2) combination of the two swept strategy parameters.
// It is comparable and used directly as a map key by the optimizer stores.
type Pair struct {
	P1 float64 `yaml:"p1" json:"p1"`
	P2 float64 `yaml:"p2" json:"p2"`
}

// NewPair creates a pair from two parameter values.
func NewPair(p1, p2 float64) Pair {
	return Pair{P1: p1, P2: p2}
}

// String renders the pair using the shortest exact representation of both values.
func (p Pair) String() string {
	return fmt.Sprintf("(%s, %s)", FormatParam(p.P1), FormatParam(p.P2))
}

// FormatParam formats a parameter value without trailing zeros, so 100 renders as "100"
// and 0.1 as "0.1".
func FormatParam(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// UnmarshalYAML accepts both the mapping form {p1: 10, p2: 0.5} and the tuple form [10, 0.5].
func (p *Pair) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var values []float64
		if err := node.Decode(&values); err != nil {
			return err
		}

		if len(values) != 2 {
			return fmt.Errorf("line %d: a pair needs exactly 2 values, got %d", node.Line, len(values))
		}

		*p = NewPair(values[0], values[1])

		return nil
	}

	type plain Pair

	var decoded plain
	if err := node.Decode(&decoded); err != nil {
		return err
	}

	*p = Pair(decoded)

	return nil
}
