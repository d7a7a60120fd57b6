package dkg

import (
	"io"

	"github.com/f3rmion/tswallet/group"
)

// polynomial is a secret sharing polynomial; coefficients[0] is the secret.
type polynomial struct {
	coefficients []group.Scalar
}

func newPolynomial(g group.Group, degree int, r io.Reader) (*polynomial, error) {
	p := &polynomial{coefficients: make([]group.Scalar, 0, degree+1)}
	for i := 0; i <= degree; i++ {
		c, err := g.RandomScalar(r)
		if err != nil {
			p.Zeroize()
			return nil, err
		}
		p.coefficients = append(p.coefficients, c)
	}
	return p, nil
}

func (p *polynomial) secret() group.Scalar {
	return p.coefficients[0]
}

// evaluate computes f(x) using Horner's method. Intermediate values are
// wiped as they are replaced.
func (p *polynomial) evaluate(g group.Group, x group.Scalar) group.Scalar {
	result := g.NewScalar().Set(p.coefficients[len(p.coefficients)-1])
	for i := len(p.coefficients) - 2; i >= 0; i-- {
		prod := g.NewScalar().Mul(result, x)
		result.Zeroize()
		result = g.NewScalar().Add(prod, p.coefficients[i])
		prod.Zeroize()
	}
	return result
}

// commit returns the Feldman commitment C_k = a_k*G.
func (p *polynomial) commit(g group.Group) SharesCommitment {
	c := make(SharesCommitment, len(p.coefficients))
	for i, a := range p.coefficients {
		c[i] = group.BaseMult(g, a)
	}
	return c
}

// Zeroize wipes every coefficient.
func (p *polynomial) Zeroize() {
	for _, c := range p.coefficients {
		c.Zeroize()
	}
}
