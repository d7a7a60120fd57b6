package dkg

import (
	"fmt"
	"sort"

	"github.com/f3rmion/tswallet/group"
)

// LagrangeCoefficient returns the coefficient of party id when
// interpolating at zero over the given set of ids:
//
//	lambda_id = prod_{j != id} j / (j - id)
func LagrangeCoefficient(g group.Group, id int, ids []int) (group.Scalar, error) {
	if id < 1 {
		return nil, fmt.Errorf("%w: party id %d", ErrInvalidInput, id)
	}
	num := g.NewScalar().SetUint64(1)
	den := g.NewScalar().SetUint64(1)
	found := false
	for _, j := range ids {
		if j < 1 {
			return nil, fmt.Errorf("%w: party id %d", ErrInvalidInput, j)
		}
		if j == id {
			if found {
				return nil, fmt.Errorf("%w: duplicate party id %d", ErrInvalidInput, id)
			}
			found = true
			continue
		}
		xj := scalarFromID(g, j)
		num = g.NewScalar().Mul(num, xj)
		den = g.NewScalar().Mul(den, g.NewScalar().Sub(xj, scalarFromID(g, id)))
	}
	if !found {
		return nil, fmt.Errorf("%w: party %d not in interpolation set", ErrInvalidInput, id)
	}
	denInv, err := g.NewScalar().Invert(den)
	if err != nil {
		return nil, fmt.Errorf("%w: duplicate party ids", ErrInvalidInput)
	}
	return g.NewScalar().Mul(num, denInv), nil
}

// Reconstruct interpolates the secret from shares keyed by party id. With
// threshold+1 or more shares of a degree-threshold sharing the result is
// the shared secret; with fewer it is an unrelated value.
func Reconstruct(g group.Group, shares map[int]group.Scalar) (group.Scalar, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("%w: no shares", ErrInvalidInput)
	}
	ids := make([]int, 0, len(shares))
	for id := range shares {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	result := g.NewScalar()
	for _, id := range ids {
		lambda, err := LagrangeCoefficient(g, id, ids)
		if err != nil {
			return nil, err
		}
		term := g.NewScalar().Mul(lambda, shares[id])
		next := g.NewScalar().Add(result, term)
		term.Zeroize()
		result.Zeroize()
		result = next
	}
	return result, nil
}
