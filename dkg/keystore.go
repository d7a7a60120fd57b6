package dkg

import (
	"fmt"

	"github.com/f3rmion/tswallet/group"
	"github.com/f3rmion/tswallet/secret"
	"github.com/f3rmion/tswallet/transport"
)

// PartySecret is the locally generated secret state of a party: its secret
// u with public image GU, and the proof nonce k with public image GK. The
// sharing polynomial is not kept.
type PartySecret struct {
	ID int
	U  group.Scalar
	GU group.Point
	K  group.Scalar
	GK group.Point
}

// Zeroize wipes u and k.
func (s *PartySecret) Zeroize() {
	if s == nil {
		return
	}
	if s.U != nil {
		s.U.Zeroize()
	}
	if s.K != nil {
		s.K.Zeroize()
	}
}

// KeyStore is the persistent result of a successful key generation run.
type KeyStore struct {
	GroupName        string
	Secret           *PartySecret
	KeyPair          *KeyPair
	ValidCommitments []*PeerCommitment
	MemberID         int
	Threshold        int
	Parties          int
}

// GroupKey returns the joint public key.
func (ks *KeyStore) GroupKey() group.Point {
	return ks.KeyPair.GroupKey
}

// Zeroize wipes all secret fields.
func (ks *KeyStore) Zeroize() {
	if ks == nil {
		return
	}
	ks.Secret.Zeroize()
	ks.KeyPair.Zeroize()
}

type partySecretData struct {
	ID int    `cbor:"id"`
	U  []byte `cbor:"u"`
	GU []byte `cbor:"g_u"`
	K  []byte `cbor:"k"`
	GK []byte `cbor:"g_k"`
}

type peerCommitmentData struct {
	Index      int      `cbor:"index"`
	Commitment [][]byte `cbor:"commitment"`
}

type keyStoreData struct {
	Group              string               `cbor:"group"`
	MemberID           int                  `cbor:"member_id"`
	Threshold          int                  `cbor:"threshold"`
	Parties            int                  `cbor:"parties"`
	Secret             partySecretData      `cbor:"secret"`
	SecretShare        []byte               `cbor:"secret_share"`
	PublicShare        []byte               `cbor:"public_share"`
	GroupKey           []byte               `cbor:"group_key"`
	VerificationShares [][]byte             `cbor:"verification_shares"`
	Commitments        []peerCommitmentData `cbor:"commitments"`
}

func (d *keyStoreData) wipe() {
	secret.ZeroSlices(d.Secret.U, d.Secret.K, d.SecretShare)
}

// MarshalBinary encodes the key store as CBOR. The output contains secret
// material.
func (ks *KeyStore) MarshalBinary() ([]byte, error) {
	data := keyStoreData{
		Group:     ks.GroupName,
		MemberID:  ks.MemberID,
		Threshold: ks.Threshold,
		Parties:   ks.Parties,
		Secret: partySecretData{
			ID: ks.Secret.ID,
			U:  ks.Secret.U.Bytes(),
			GU: ks.Secret.GU.Bytes(),
			K:  ks.Secret.K.Bytes(),
			GK: ks.Secret.GK.Bytes(),
		},
		SecretShare: ks.KeyPair.SecretShare.Bytes(),
		PublicShare: ks.KeyPair.PublicShare.Bytes(),
		GroupKey:    ks.KeyPair.GroupKey.Bytes(),
	}
	defer data.wipe()
	for _, vs := range ks.KeyPair.VerificationShares {
		data.VerificationShares = append(data.VerificationShares, vs.Bytes())
	}
	for _, c := range ks.ValidCommitments {
		data.Commitments = append(data.Commitments, peerCommitmentData{
			Index:      c.Index,
			Commitment: c.Commitment.encode(),
		})
	}

	out, err := transport.DefaultSerializer().Marshal(&data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	return out, nil
}

// UnmarshalKeyStore decodes a key store produced by MarshalBinary for
// group g.
func UnmarshalKeyStore(g group.Group, b []byte) (*KeyStore, error) {
	var data keyStoreData
	if err := transport.DefaultSerializer().Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	defer data.wipe()

	if data.Group != g.Name() {
		return nil, fmt.Errorf("%w: key store is for group %q, not %q", ErrInvalidInput, data.Group, g.Name())
	}
	if data.Threshold < 1 || data.Parties < data.Threshold || data.Parties > MaxParties {
		return nil, fmt.Errorf("%w: bad parameters (%d, %d)", ErrInvalidInput, data.Threshold, data.Parties)
	}
	if data.MemberID < 1 || data.MemberID > data.Parties || data.Secret.ID != data.MemberID {
		return nil, fmt.Errorf("%w: bad member id %d", ErrInvalidInput, data.MemberID)
	}
	if len(data.VerificationShares) != data.Parties || len(data.Commitments) != data.Parties {
		return nil, fmt.Errorf("%w: expected data for %d parties", ErrInvalidInput, data.Parties)
	}

	ks := &KeyStore{
		GroupName: data.Group,
		MemberID:  data.MemberID,
		Threshold: data.Threshold,
		Parties:   data.Parties,
		Secret:    &PartySecret{ID: data.Secret.ID},
		KeyPair:   &KeyPair{ID: data.MemberID},
	}
	ok := false
	defer func() {
		if !ok {
			ks.Zeroize()
		}
	}()

	var err error
	scalar := func(b []byte) group.Scalar {
		if err != nil {
			return nil
		}
		var s group.Scalar
		s, err = g.NewScalar().SetBytes(b)
		return s
	}
	point := func(b []byte) group.Point {
		if err != nil {
			return nil
		}
		var p group.Point
		p, err = g.NewPoint().SetBytes(b)
		return p
	}

	ks.Secret.U = scalar(data.Secret.U)
	ks.Secret.GU = point(data.Secret.GU)
	ks.Secret.K = scalar(data.Secret.K)
	ks.Secret.GK = point(data.Secret.GK)
	ks.KeyPair.SecretShare = scalar(data.SecretShare)
	ks.KeyPair.PublicShare = point(data.PublicShare)
	ks.KeyPair.GroupKey = point(data.GroupKey)
	for _, b := range data.VerificationShares {
		ks.KeyPair.VerificationShares = append(ks.KeyPair.VerificationShares, point(b))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}

	for i, c := range data.Commitments {
		if c.Index != i+1 {
			return nil, fmt.Errorf("%w: commitment %d has index %d", ErrInvalidInput, i+1, c.Index)
		}
		commitment, err := decodeCommitment(g, c.Commitment, data.Threshold+1)
		if err != nil {
			return nil, err
		}
		ks.ValidCommitments = append(ks.ValidCommitments, &PeerCommitment{Index: c.Index, Commitment: commitment})
	}

	if err := ks.KeyPair.Check(g); err != nil {
		return nil, err
	}
	if err := checkAgainstCommitments(g, ks); err != nil {
		return nil, err
	}
	ok = true
	return ks, nil
}

// checkAgainstCommitments recomputes the group key and every verification
// share from the stored commitments, and ties the party secret to its own
// commitment.
func checkAgainstCommitments(g group.Group, ks *KeyStore) error {
	commitments := make([]SharesCommitment, len(ks.ValidCommitments))
	for i, c := range ks.ValidCommitments {
		commitments[i] = c.Commitment
	}
	joint := sumCommitments(g, commitments)

	kp := ks.KeyPair
	if !joint.Secret().Equal(kp.GroupKey) {
		return fmt.Errorf("%w: group key does not match commitments", ErrShareVerification)
	}
	for k, vs := range kp.VerificationShares {
		if !joint.Evaluate(g, scalarFromID(g, k+1)).Equal(vs) {
			return fmt.Errorf("%w: verification share of party %d does not match commitments", ErrShareVerification, k+1)
		}
	}

	own := ks.ValidCommitments[ks.MemberID-1].Commitment.Secret()
	if !own.Equal(ks.Secret.GU) || !group.BaseMult(g, ks.Secret.U).Equal(ks.Secret.GU) {
		return fmt.Errorf("%w: party secret does not match its commitment", ErrShareVerification)
	}
	return nil
}
