package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/f3rmion/tswallet/dkg"
	"github.com/f3rmion/tswallet/group"
	"github.com/f3rmion/tswallet/hd"
	"github.com/f3rmion/tswallet/transport"
)

var (
	// ErrNoKeyStore is returned by operations that need a completed key
	// generation when none has run or been restored.
	ErrNoKeyStore = errors.New("session: no key store")

	// ErrKeygenDone is returned when Keygen is called on a participant
	// that already holds a key store.
	ErrKeygenDone = errors.New("session: key generation already completed")
)

// Participant manages a single party's state: one key generation run and
// any number of child key derivations afterwards. Create instances using
// [NewParticipant].
type Participant struct {
	id       int
	engine   *dkg.DKG
	group    group.Group
	keyStore *dkg.KeyStore
}

// ChildKey is a threshold key pair derived from a participant's key pair
// along a non-hardened path.
type ChildKey struct {
	// Tweak is the accumulated derivation tweak. The child secret share is
	// the parent share plus Tweak.
	Tweak group.Scalar

	// ChainCode is the chain code of the derived key.
	ChainCode []byte

	// KeyPair is the child key pair. Shares of all parties derived along
	// the same path still reconstruct the child secret.
	KeyPair *dkg.KeyPair

	// Extended is the derived public extended key.
	Extended *hd.ExtendedKey
}

// Zeroize wipes the child secret share.
func (c *ChildKey) Zeroize() {
	if c != nil {
		c.KeyPair.Zeroize()
	}
}

// NewParticipant creates a participant with the given id in a
// threshold-of-total key generation over g.
//
// Parameters:
//   - g: The cryptographic group to use (e.g., ristretto.New())
//   - threshold: Degree of the sharing polynomial; threshold+1 shares reconstruct
//   - total: Total number of participants (n)
//   - id: This participant's unique identifier (1 to n)
//
// Options are passed to [dkg.New].
func NewParticipant(g group.Group, threshold, total, id int, opts ...dkg.Option) (*Participant, error) {
	if id < 1 || id > total {
		return nil, fmt.Errorf("%w: participant id must be between 1 and %d, got %d", dkg.ErrInvalidInput, total, id)
	}

	engine, err := dkg.New(g, threshold, total, opts...)
	if err != nil {
		return nil, fmt.Errorf("session: create engine: %w", err)
	}

	return &Participant{
		id:     id,
		engine: engine,
		group:  g,
	}, nil
}

// ID returns this participant's identifier.
func (p *Participant) ID() int {
	return p.id
}

// Engine returns the underlying key generation engine.
func (p *Participant) Engine() *dkg.DKG {
	return p.engine
}

// KeyStore returns the participant's key store, or nil before key
// generation completes.
func (p *Participant) KeyStore() *dkg.KeyStore {
	return p.keyStore
}

// SetKeyStore restores a previously saved key store. The store must belong
// to this participant and match its parameters.
func (p *Participant) SetKeyStore(ks *dkg.KeyStore) error {
	if ks == nil || ks.KeyPair == nil {
		return fmt.Errorf("%w: nil key store", dkg.ErrInvalidInput)
	}
	if ks.MemberID != p.id {
		return fmt.Errorf("%w: key store belongs to party %d, not %d", dkg.ErrInvalidInput, ks.MemberID, p.id)
	}
	if ks.Threshold != p.engine.Threshold() || ks.Parties != p.engine.Parties() {
		return fmt.Errorf("%w: key store is %d-of-%d, participant is %d-of-%d",
			dkg.ErrInvalidInput, ks.Threshold, ks.Parties, p.engine.Threshold(), p.engine.Parties())
	}
	if ks.GroupName != p.group.Name() {
		return fmt.Errorf("%w: key store group %q, participant group %q", dkg.ErrInvalidInput, ks.GroupName, p.group.Name())
	}
	p.keyStore = ks
	return nil
}

// Keygen runs key generation over tr and stores the result. It may be
// called once per participant.
func (p *Participant) Keygen(ctx context.Context, tr transport.Transport, sessionContext string) (*dkg.KeyStore, error) {
	if p.keyStore != nil {
		return nil, ErrKeygenDone
	}
	ks, err := p.engine.Keygen(ctx, tr, p.id, sessionContext)
	if err != nil {
		return nil, err
	}
	p.keyStore = ks
	return ks, nil
}

// GroupKey returns the joint public key, or nil before key generation.
func (p *Participant) GroupKey() group.Point {
	if p.keyStore == nil {
		return nil
	}
	return p.keyStore.GroupKey()
}

// DeriveChild derives the child key pair at path from the group key and
// chainCode. Every party deriving the same path obtains a share of the same
// child secret, whose public key is the hd child of the group key.
func (p *Participant) DeriveChild(path string, chainCode []byte) (*ChildKey, error) {
	if p.keyStore == nil {
		return nil, ErrNoKeyStore
	}
	kp := p.keyStore.KeyPair
	g := p.group

	d, err := hd.Derive(g, path, kp.GroupKey, chainCode)
	if err != nil {
		return nil, err
	}
	offset := group.BaseMult(g, d.Tweak)

	child := &dkg.KeyPair{
		ID:                 kp.ID,
		SecretShare:        hd.TweakScalar(g, kp.SecretShare, d.Tweak),
		PublicShare:        g.NewPoint().Add(kp.PublicShare, offset),
		GroupKey:           d.Key.PublicKey,
		VerificationShares: make([]group.Point, len(kp.VerificationShares)),
	}
	for i, vs := range kp.VerificationShares {
		child.VerificationShares[i] = g.NewPoint().Add(vs, offset)
	}
	if err := child.Check(g); err != nil {
		child.Zeroize()
		return nil, err
	}

	return &ChildKey{
		Tweak:     d.Tweak,
		ChainCode: d.Key.ChainCode,
		KeyPair:   child,
		Extended:  d.Key,
	}, nil
}
