package dkg

import (
	"encoding/binary"
	"fmt"

	"github.com/f3rmion/tswallet/group"
	"golang.org/x/crypto/blake2b"
)

const challengeDomain = "tswallet-dkg-challenge"

// Hasher computes the Fiat-Shamir challenge that binds a party's proof of
// knowledge to its index, the session context, its public key share and
// its proof commitment.
type Hasher interface {
	Challenge(g group.Group, id uint16, context, gU, gK []byte) (group.Scalar, error)
}

// GroupHasher hashes with the group's own HashToScalar. It is the default.
type GroupHasher struct{}

// Challenge implements Hasher.
func (GroupHasher) Challenge(g group.Group, id uint16, context, gU, gK []byte) (group.Scalar, error) {
	var idBuf [2]byte
	binary.BigEndian.PutUint16(idBuf[:], id)
	return g.HashToScalar([]byte(challengeDomain), idBuf[:], context, gU, gK)
}

// Blake2bHasher hashes with Blake2b-512 under a domain prefix and reduces
// the 64-byte digest into the scalar field.
type Blake2bHasher struct {
	// Prefix is the domain separation prefix.
	Prefix string
}

// NewBlake2bHasher returns a Blake2bHasher with the default prefix.
func NewBlake2bHasher() *Blake2bHasher {
	return &Blake2bHasher{
		Prefix: "TSWALLET-DKG-BLAKE2B512-v1",
	}
}

func (h *Blake2bHasher) hash(tag string, data ...[]byte) []byte {
	// New512 only fails for keys longer than 64 bytes.
	hasher, err := blake2b.New512(nil)
	if err != nil {
		panic(err)
	}
	hasher.Write([]byte(h.Prefix))
	hasher.Write([]byte(tag))
	var lenBuf [8]byte
	for _, d := range data {
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(d)))
		hasher.Write(lenBuf[:])
		hasher.Write(d)
	}
	return hasher.Sum(nil)
}

// Challenge implements Hasher.
func (h *Blake2bHasher) Challenge(g group.Group, id uint16, context, gU, gK []byte) (group.Scalar, error) {
	var idBuf [2]byte
	binary.BigEndian.PutUint16(idBuf[:], id)
	return reduceWide(g, h.hash("chal", idBuf[:], context, gU, gK))
}

// reduceWide maps a digest twice the scalar size onto a scalar as
// hi*2^(8*size) + lo, each half read in the group's scalar encoding.
func reduceWide(g group.Group, wide []byte) (group.Scalar, error) {
	size := len(g.NewScalar().Bytes())
	if len(wide) != 2*size {
		return nil, fmt.Errorf("%w: wide input of %d bytes for %d-byte scalars", ErrEncoding, len(wide), size)
	}
	hi, err := g.NewScalar().SetBytes(wide[:size])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	lo, err := g.NewScalar().SetBytes(wide[size:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}

	shift := g.NewScalar().SetUint64(1)
	for i := 0; i < 8*size; i++ {
		shift = g.NewScalar().Add(shift, shift)
	}
	return g.NewScalar().Add(g.NewScalar().Mul(hi, shift), lo), nil
}
