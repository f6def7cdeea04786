package grid

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-optimizer/internal/types"
	"github.com/rxtech-lab/argo-optimizer/pkg/errors"
)

// CrossProduct pairs every value of p1 with every value of p2, p1-major.
func CrossProduct(p1, p2 []float64) []types.Pair {
	pairs := make([]types.Pair, 0, len(p1)*len(p2))

	for _, a := range p1 {
		for _, b := range p2 {
			pairs = append(pairs, types.NewPair(a, b))
		}
	}

	return pairs
}

// BuildPairs returns the grid to sweep. Explicit pairs are used as-is and progression
// generation is skipped for both parameters; otherwise the cross product of both
// progressions is returned.
func BuildPairs(explicit []types.Pair, sp1, sp2 optional.Option[Spec]) ([]types.Pair, error) {
	if len(explicit) > 0 {
		pairs := make([]types.Pair, len(explicit))
		copy(pairs, explicit)

		return pairs, nil
	}

	if sp1.IsNone() || sp2.IsNone() {
		return nil, errors.New(errors.ErrCodeMissingParameter, "either pairs or both parameter specs are required")
	}

	p1, err := sp1.Unwrap().Progression()
	if err != nil {
		return nil, err
	}

	p2, err := sp2.Unwrap().Progression()
	if err != nil {
		return nil, err
	}

	return CrossProduct(p1, p2), nil
}

// Unique drops repeated pairs, keeping the first occurrence.
func Unique(pairs []types.Pair) []types.Pair {
	seen := make(map[types.Pair]struct{}, len(pairs))
	out := make([]types.Pair, 0, len(pairs))

	for _, pair := range pairs {
		if _, ok := seen[pair]; ok {
			continue
		}

		seen[pair] = struct{}{}
		out = append(out, pair)
	}

	return out
}
