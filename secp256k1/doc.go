// Package secp256k1 implements the [group] interfaces for the secp256k1
// curve using github.com/btcsuite/btcd/btcec/v2.
//
// Points are encoded as 33-byte SEC1 compressed keys and scalars as 32-byte
// big-endian integers, so non-hardened derivation over this group is
// byte-compatible with BIP32 public child derivation.
package secp256k1
