package dkg

import (
	"fmt"

	"github.com/f3rmion/tswallet/group"
)

// round1Message is the wire form of a Proposal. The first commitment
// element doubles as the sender's public key share.
type round1Message struct {
	Index      uint16   `cbor:"index" json:"index" msgpack:"index"`
	Commitment [][]byte `cbor:"commitment" json:"commitment" msgpack:"commitment"`
	GK         []byte   `cbor:"g_k" json:"g_k" msgpack:"g_k"`
	Sigma      []byte   `cbor:"sigma" json:"sigma" msgpack:"sigma"`
}

func newRound1Message(p *Proposal) *round1Message {
	return &round1Message{
		Index:      uint16(p.Index),
		Commitment: p.Commitment.encode(),
		GK:         p.Proof.GK.Bytes(),
		Sigma:      p.Proof.Sigma.Bytes(),
	}
}

// proposal decodes m for a polynomial of the given degree.
func (m *round1Message) proposal(g group.Group, degree int) (*Proposal, error) {
	commitment, err := decodeCommitment(g, m.Commitment, degree+1)
	if err != nil {
		return nil, err
	}
	gK, err := g.NewPoint().SetBytes(m.GK)
	if err != nil {
		return nil, fmt.Errorf("%w: proof commitment: %w", ErrEncoding, err)
	}
	sigma, err := g.NewScalar().SetBytes(m.Sigma)
	if err != nil {
		return nil, fmt.Errorf("%w: proof response: %w", ErrEncoding, err)
	}
	return &Proposal{
		Index:      int(m.Index),
		Commitment: commitment,
		Proof:      Proof{GK: gK, Sigma: sigma},
	}, nil
}
