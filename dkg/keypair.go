package dkg

import (
	"fmt"

	"github.com/f3rmion/tswallet/group"
)

// Share is one evaluation f_From(To) of a party's sharing polynomial.
type Share struct {
	From  int
	To    int
	Value group.Scalar
}

// Zeroize wipes the share value.
func (s *Share) Zeroize() {
	if s != nil && s.Value != nil {
		s.Value.Zeroize()
	}
}

// KeyPair is a party's signing material after key generation.
type KeyPair struct {
	// ID is the party index, also the evaluation point of SecretShare.
	ID int

	// SecretShare is the sum of the shares received from all parties.
	SecretShare group.Scalar

	// PublicShare is SecretShare*G.
	PublicShare group.Point

	// GroupKey is the joint public key, the sum of every party's
	// constant-term commitment.
	GroupKey group.Point

	// VerificationShares holds the public share of every party; entry
	// k-1 belongs to party k. They verify partial signatures.
	VerificationShares []group.Point
}

// VerificationShare returns the public share of party id, or nil if id is
// out of range.
func (kp *KeyPair) VerificationShare(id int) group.Point {
	if id < 1 || id > len(kp.VerificationShares) {
		return nil
	}
	return kp.VerificationShares[id-1]
}

// Check verifies that the secret share matches the public share and the
// party's verification share.
func (kp *KeyPair) Check(g group.Group) error {
	if !group.BaseMult(g, kp.SecretShare).Equal(kp.PublicShare) {
		return fmt.Errorf("%w: public share does not match secret share", ErrShareVerification)
	}
	vs := kp.VerificationShare(kp.ID)
	if vs == nil || !vs.Equal(kp.PublicShare) {
		return fmt.Errorf("%w: public share does not match verification share of party %d", ErrShareVerification, kp.ID)
	}
	return nil
}

// Zeroize wipes the secret share.
func (kp *KeyPair) Zeroize() {
	if kp != nil && kp.SecretShare != nil {
		kp.SecretShare.Zeroize()
	}
}
