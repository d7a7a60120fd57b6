// Package ristretto implements the [group] interfaces for ristretto255,
// the prime-order group built on Curve25519.
//
// Ristretto255 is the wallet's primary group: distributed key generation
// produces ristretto255 group keys, and hierarchical derivation tweaks them.
// The implementation wraps github.com/gtank/ristretto255.
//
// Encodings:
//
//   - Points are 32-byte canonical ristretto255 encodings. SetBytes rejects
//     anything that is not a canonical encoding of a group element.
//   - Scalars are 32-byte little-endian integers. SetBytes accepts any 32-byte
//     value and reduces it modulo the group order.
package ristretto
