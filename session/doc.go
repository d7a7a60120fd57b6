// Package session provides a high-level API for threshold wallet parties.
// It wraps the [dkg] engine and the [hd] derivation engine: a [Participant]
// runs key generation once, keeps the resulting key store, and derives
// child key pairs from it.
//
// # Key Generation
//
// Each party runs the same code independently against a shared transport:
//
//	p, err := session.NewParticipant(ristretto.New(), threshold, total, myID)
//	if err != nil {
//		return err
//	}
//	ks, err := p.Keygen(ctx, tr, "wallet-2024-01")
//	if err != nil {
//		return err
//	}
//	data, err := ks.MarshalBinary()
//
// A saved key store is restored with [dkg.UnmarshalKeyStore] and
// [Participant.SetKeyStore].
//
// # Child Keys
//
// Child derivation needs no interaction. Every party adds the same public
// tweak to its share:
//
//	child, err := p.DeriveChild("m/0/1/2", chainCode)
//
// The child shares of any threshold+1 parties reconstruct the child secret,
// and child.KeyPair.GroupKey equals the public key [hd.Derive] yields for
// the same path.
package session
