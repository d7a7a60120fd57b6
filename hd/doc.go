// Package hd derives child public keys from a parent public key and chain
// code, following the non-hardened half of BIP32 over any [group.Group].
//
// Each step computes
//
//	digest = HMAC-SHA512(chainCode, bytes(pk) || BE32(index))
//	tweak  = scalar(digest[:32])
//	pk     = pk + tweak*G
//	chainCode = digest[32:]
//
// and the tweaks of all steps are summed. The result satisfies
// child = parent + tweak*G, so holders of shares of the parent secret can
// add the tweak to obtain shares of the child secret without interacting.
//
// Only public derivation is supported. Paths with hardened components are
// rejected before any hashing takes place.
//
// Over the secp256k1 group the output is byte-compatible with BIP32 public
// child derivation.
package hd
