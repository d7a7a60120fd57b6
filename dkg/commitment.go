package dkg

import (
	"fmt"

	"github.com/f3rmion/tswallet/group"
)

// SharesCommitment is a Feldman commitment to a polynomial: element k is
// the k-th coefficient times the generator.
type SharesCommitment []group.Point

// Secret returns the commitment to the constant term, the public image of
// the party's secret.
func (c SharesCommitment) Secret() group.Point {
	return c[0]
}

// Evaluate returns sum(C_k * x^k), which equals f(x)*G.
func (c SharesCommitment) Evaluate(g group.Group, x group.Scalar) group.Point {
	result := g.NewPoint()
	xPower := g.NewScalar().SetUint64(1)
	for _, commit := range c {
		term := g.NewPoint().ScalarMult(xPower, commit)
		result = g.NewPoint().Add(result, term)
		xPower = g.NewScalar().Mul(xPower, x)
	}
	return result
}

// Verify reports whether share is the evaluation of the committed
// polynomial at party id.
func (c SharesCommitment) Verify(g group.Group, id int, share group.Scalar) bool {
	lhs := group.BaseMult(g, share)
	rhs := c.Evaluate(g, scalarFromID(g, id))
	return lhs.Equal(rhs)
}

func (c SharesCommitment) encode() [][]byte {
	out := make([][]byte, len(c))
	for i, p := range c {
		out[i] = p.Bytes()
	}
	return out
}

func decodeCommitment(g group.Group, data [][]byte, want int) (SharesCommitment, error) {
	if len(data) != want {
		return nil, fmt.Errorf("%w: commitment has %d elements, want %d", ErrEncoding, len(data), want)
	}
	c := make(SharesCommitment, len(data))
	for i, b := range data {
		p, err := g.NewPoint().SetBytes(b)
		if err != nil {
			return nil, fmt.Errorf("%w: commitment element %d: %w", ErrEncoding, i, err)
		}
		c[i] = p
	}
	return c, nil
}

// sumCommitments adds commitments coefficient-wise. The result commits to
// the sum of the underlying polynomials.
func sumCommitments(g group.Group, cs []SharesCommitment) SharesCommitment {
	if len(cs) == 0 {
		return nil
	}
	sum := make(SharesCommitment, len(cs[0]))
	for k := range sum {
		acc := g.NewPoint()
		for _, c := range cs {
			acc = g.NewPoint().Add(acc, c[k])
		}
		sum[k] = acc
	}
	return sum
}

// PeerCommitment is the validated commitment of one party, kept after
// round one as the table of peer public keys.
type PeerCommitment struct {
	Index      int
	Commitment SharesCommitment
}
