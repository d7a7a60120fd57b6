package group

import (
	"io"
)

// Scalar represents an element of the scalar field associated with a
// cryptographic group. Scalars are integers modulo the group order and
// are used as exponents in scalar multiplication.
//
// All arithmetic methods use a mutable receiver pattern: they modify
// the receiver, store the result in it, and return it. This allows for
// efficient method chaining while minimizing memory allocations.
//
// Scalars frequently hold secret key material. Call Zeroize once a
// secret scalar is no longer needed.
type Scalar interface {
	// Add sets the receiver to a+b and returns it.
	Add(a, b Scalar) Scalar
	// Sub sets the receiver to a-b and returns it.
	Sub(a, b Scalar) Scalar
	// Mul sets the receiver to a*b and returns it.
	Mul(a, b Scalar) Scalar
	// Negate sets the receiver to -a and returns it.
	Negate(a Scalar) Scalar
	// Invert sets the receiver to a^{-1} and returns it.
	// Returns an error if a is zero.
	Invert(a Scalar) (Scalar, error)
	// Set sets the receiver to a and returns it.
	Set(a Scalar) Scalar
	// SetUint64 sets the receiver to the small integer v and returns it.
	SetUint64(v uint64) Scalar
	// Bytes returns the fixed-size canonical encoding of the scalar.
	Bytes() []byte
	// SetBytes sets the receiver from a fixed-size encoding, reducing the
	// value modulo the group order. Returns an error if the length is wrong.
	SetBytes(data []byte) (Scalar, error)
	// Equal reports whether the receiver equals b.
	Equal(b Scalar) bool
	// IsZero reports whether the receiver is zero.
	IsZero() bool
	// Zeroize overwrites the scalar's memory and leaves it equal to zero.
	Zeroize()
}

// Point represents an element of a cryptographic group, typically a point
// on an elliptic curve. Points support addition, subtraction, negation,
// and scalar multiplication.
//
// Like [Scalar], all arithmetic methods use a mutable receiver pattern
// for efficiency.
//
// The identity element (zero point, point at infinity) is the additive
// identity: P + Identity = P for all points P.
type Point interface {
	// Add sets the receiver to a+b and returns it.
	Add(a, b Point) Point
	// Sub sets the receiver to a-b and returns it.
	Sub(a, b Point) Point
	// Negate sets the receiver to -a and returns it.
	Negate(a Point) Point
	// ScalarMult sets the receiver to s*p and returns it.
	ScalarMult(s Scalar, p Point) Point
	// Set sets the receiver to a and returns it.
	Set(a Point) Point
	// Bytes returns the canonical compressed encoding of the point.
	Bytes() []byte
	// SetBytes sets the receiver from a compressed encoding and returns it.
	// Returns an error if the data is not a valid group element.
	SetBytes(data []byte) (Point, error)
	// Equal reports whether the receiver equals b.
	Equal(b Point) bool
	// IsIdentity reports whether the receiver is the identity element.
	IsIdentity() bool
}

// Group defines a prime-order group suitable for threshold Schnorr keys
// and public-key derivation. It provides factory methods for creating
// scalars and points, access to the group's generator, and utility
// functions for random scalar generation and hashing.
//
// A Group implementation encapsulates all curve-specific details, allowing
// the protocol packages to be generic over different elliptic curves.
//
// Example usage:
//
//	g := ristretto.New()
//	scalar, _ := g.RandomScalar(rand.Reader)
//	point := g.NewPoint().ScalarMult(scalar, g.Generator())
type Group interface {
	// Name returns a short identifier for the group, e.g. "ristretto255".
	Name() string
	// NewScalar returns a new zero scalar.
	NewScalar() Scalar
	// NewPoint returns a new identity point.
	NewPoint() Point
	// Generator returns the group's base point.
	Generator() Point
	// RandomScalar returns a cryptographically random scalar.
	RandomScalar(r io.Reader) (Scalar, error)
	// HashToScalar hashes the input data to a scalar.
	HashToScalar(data ...[]byte) (Scalar, error)
	// Order returns the group order as a big-endian byte slice.
	Order() []byte
}

// BaseMult returns s*G for the group's generator G.
func BaseMult(g Group, s Scalar) Point {
	return g.NewPoint().ScalarMult(s, g.Generator())
}
