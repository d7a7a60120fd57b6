package dkg

import (
	"github.com/f3rmion/tswallet/group"
)

// Proof is a Schnorr proof of knowledge of the secret behind a party's
// constant-term commitment: Sigma = k + u*c for the challenge c.
type Proof struct {
	GK    group.Point
	Sigma group.Scalar
}

// Proposal is the round one broadcast of a party: its commitment and the
// proof that it knows the committed secret.
type Proposal struct {
	Index      int
	Commitment SharesCommitment
	Proof      Proof
}

// Zeroize wipes the scalar part of the proof.
func (p *Proposal) Zeroize() {
	if p != nil && p.Proof.Sigma != nil {
		p.Proof.Sigma.Zeroize()
	}
}

func (d *DKG) prove(id int, context []byte, u group.Scalar, gU group.Point, k group.Scalar, gK group.Point) (Proof, error) {
	c, err := d.hasher.Challenge(d.group, uint16(id), context, gU.Bytes(), gK.Bytes())
	if err != nil {
		return Proof{}, err
	}
	uc := d.group.NewScalar().Mul(u, c)
	defer uc.Zeroize()
	return Proof{
		GK:    gK,
		Sigma: d.group.NewScalar().Add(k, uc),
	}, nil
}

// verifyProof checks sigma*G == g_k + c*g_u against the sender's declared
// public key share.
func (d *DKG) verifyProof(p *Proposal, context []byte) bool {
	gU := p.Commitment.Secret()
	c, err := d.hasher.Challenge(d.group, uint16(p.Index), context, gU.Bytes(), p.Proof.GK.Bytes())
	if err != nil {
		return false
	}
	lhs := group.BaseMult(d.group, p.Proof.Sigma)
	rhs := d.group.NewPoint().Add(p.Proof.GK, d.group.NewPoint().ScalarMult(c, gU))
	return lhs.Equal(rhs)
}
