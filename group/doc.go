// Package group defines abstract interfaces for the prime-order groups
// used by the threshold wallet: the distributed key generation protocol
// and the public-key derivation engine are both written against them.
//
// This package provides three core interfaces that abstract over the
// mathematical operations needed for threshold Schnorr keys:
//
//   - [Scalar]: Elements of the scalar field (integers modulo the group order)
//   - [Point]: Elements of the group (points on an elliptic curve)
//   - [Group]: Factory and utility methods for creating scalars and points
//
// # Design Philosophy
//
// The interfaces use a mutable receiver pattern for efficiency. Operations
// like Add, Mul, and ScalarMult set the receiver to the result and return it,
// allowing method chaining while minimizing allocations:
//
//	// Compute a + b*c
//	result := g.NewScalar().Mul(b, c)
//	result = g.NewScalar().Add(a, result)
//
// All operations that can fail return errors rather than panicking, making
// error handling explicit and predictable.
//
// # Implementations
//
// The ristretto package is the wallet's primary group. The secp256k1 and
// bjj packages implement the same interfaces for secp256k1 and Baby Jubjub.
//
// # Security Considerations
//
// Implementations must ensure:
//
//   - Scalar arithmetic is performed modulo the group order
//   - Random scalars are generated from cryptographically secure sources
//   - Invalid curve points are rejected in SetBytes
//   - Zeroize overwrites the scalar's backing memory, not only its handle
package group
