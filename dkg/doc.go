// Package dkg implements distributed key generation for threshold Schnorr
// keys over any [group.Group].
//
// A run involves n parties. Each party samples a random polynomial of
// degree threshold whose constant term is its secret contribution u_i.
// The joint secret is the sum of all contributions and is never held by
// anyone. Any threshold+1 parties can later combine their shares; threshold
// or fewer learn nothing about it.
//
// # Protocol
//
// Round one (broadcast, tag "dkg_commitment"): every party publishes the
// Feldman commitment to its polynomial together with a Schnorr proof of
// knowledge of u_i. The proof challenge binds the party index and the
// session context, so a proof cannot be replayed by another party or in
// another session. A single invalid proof aborts the run with a
// [ProofVerificationError] naming the offending parties.
//
// Round two (point-to-point, tag "aead_pack_i"): every party encrypts
// f_i(j) for each peer j under a key derived with HKDF-SHA256 from the
// Diffie-Hellman point u_i*C_j0 = u_i*u_j*G and sends it with
// XChaCha20-Poly1305. Received shares are checked against the sender's
// commitment and summed into the party's secret share.
//
// # Usage
//
//	d, err := dkg.New(ristretto.New(), threshold, parties,
//		dkg.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	ks, err := d.Keygen(ctx, endpoint, myID, "wallet-2024-01")
//	if err != nil {
//		return err
//	}
//	defer ks.Zeroize()
//
// Every party must run with the same group, threshold, party count, hasher,
// serializer and context string.
//
// # Secrets
//
// Polynomials, outgoing and incoming shares, pairwise keys and proposal
// scalars live in a [secret.Scope] for the duration of the run and are
// wiped on every return path. The returned [KeyStore] holds the remaining
// secrets; callers release them with [KeyStore.Zeroize].
package dkg
