// Package bjj provides a Baby Jubjub elliptic curve implementation of the
// [group.Group] interface.
//
// Baby Jubjub is a twisted Edwards curve defined over the scalar field of
// BN254 (also known as alt_bn128). It is commonly used in zero-knowledge
// proof systems, which makes it a useful target for wallets whose keys are
// later consumed inside circuits.
//
// This package wraps the Baby Jubjub implementation from gnark-crypto,
// providing a clean interface that satisfies [group.Group], [group.Scalar],
// and [group.Point].
//
// # Curve Parameters
//
// Baby Jubjub is defined by the equation:
//
//	a*x^2 + y^2 = 1 + d*x^2*y^2
//
// where a = 168700 and d = 168696 over the BN254 scalar field.
//
// The curve has a prime-order subgroup of size:
//
//	2736030358979909402780800718157159386076813972158567259200215660948447373041
//
// # Usage
//
// Create a BJJ group and run key generation over it:
//
//	g := &bjj.BJJ{}
//	d, err := dkg.New(g, threshold, parties)
//
// # Encodings
//
// Scalars are 32-byte big-endian integers reduced modulo the subgroup order.
// Points use gnark-crypto's 32-byte compressed form.
package bjj
