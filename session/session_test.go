package session

import (
	"context"
	"encoding/hex"
	"testing"
	"time"

	"github.com/f3rmion/tswallet/bjj"
	"github.com/f3rmion/tswallet/dkg"
	"github.com/f3rmion/tswallet/group"
	"github.com/f3rmion/tswallet/hd"
	"github.com/f3rmion/tswallet/ristretto"
	"github.com/f3rmion/tswallet/secp256k1"
	"github.com/f3rmion/tswallet/transport/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

var chainCode, _ = hex.DecodeString("84bdc15254818c9b23b0703f95a9b96a514dae60d2798bc4f2cc8e496f59cae0")

func runKeygen(t *testing.T, g group.Group, threshold, total int) []*Participant {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	net := memory.New(total)
	participants := make([]*Participant, total)
	for i := range participants {
		p, err := NewParticipant(g, threshold, total, i+1)
		require.NoError(t, err)
		participants[i] = p
	}

	eg, ctx := errgroup.WithContext(ctx)
	for _, p := range participants {
		eg.Go(func() error {
			_, err := p.Keygen(ctx, net.Endpoint(uint16(p.ID())), "session-test")
			return err
		})
	}
	require.NoError(t, eg.Wait())
	return participants
}

func TestKeygenAndDeriveChild(t *testing.T) {
	groups := []group.Group{ristretto.New(), secp256k1.New(), &bjj.BJJ{}}
	for _, g := range groups {
		t.Run(g.Name(), func(t *testing.T) {
			participants := runKeygen(t, g, 2, 4)

			groupKey := participants[0].GroupKey()
			for _, p := range participants[1:] {
				require.True(t, p.GroupKey().Equal(groupKey))
			}

			want, err := hd.Derive(g, "m/0/1/2", groupKey, chainCode)
			require.NoError(t, err)

			children := make(map[int]*ChildKey)
			for _, p := range participants {
				child, err := p.DeriveChild("m/0/1/2", chainCode)
				require.NoError(t, err)
				assert.True(t, child.KeyPair.GroupKey.Equal(want.Key.PublicKey))
				assert.True(t, child.Tweak.Equal(want.Tweak))
				assert.Equal(t, want.Key.ChainCode, child.ChainCode)
				children[p.ID()] = child
			}

			// any threshold+1 child shares reconstruct the child secret
			for _, ids := range [][]int{{1, 2, 3}, {2, 3, 4}, {1, 3, 4}} {
				shares := make(map[int]group.Scalar)
				for _, id := range ids {
					shares[id] = children[id].KeyPair.SecretShare
				}
				sk, err := dkg.Reconstruct(g, shares)
				require.NoError(t, err)
				assert.True(t, group.BaseMult(g, sk).Equal(want.Key.PublicKey), "subset %v", ids)
			}

			// verification shares agree across parties
			for _, c := range children {
				for k := 1; k <= 4; k++ {
					assert.True(t, c.KeyPair.VerificationShare(k).Equal(children[k].KeyPair.PublicShare))
				}
			}
		})
	}
}

func TestKeygenOnce(t *testing.T) {
	participants := runKeygen(t, ristretto.New(), 1, 2)
	_, err := participants[0].Keygen(context.Background(), memory.New(2).Endpoint(1), "again")
	assert.ErrorIs(t, err, ErrKeygenDone)
}

func TestDeriveChildErrors(t *testing.T) {
	g := ristretto.New()
	p, err := NewParticipant(g, 1, 2, 1)
	require.NoError(t, err)
	assert.Nil(t, p.GroupKey())

	_, err = p.DeriveChild("m/0", chainCode)
	assert.ErrorIs(t, err, ErrNoKeyStore)

	p = runKeygen(t, g, 1, 2)[0]
	_, err = p.DeriveChild("m/0'", chainCode)
	assert.ErrorIs(t, err, hd.ErrHardenedIndex)
	_, err = p.DeriveChild("m/0", chainCode[:16])
	assert.ErrorIs(t, err, hd.ErrInvalidChainCode)
}

func TestDeriveChildLeavesParent(t *testing.T) {
	g := secp256k1.New()
	p := runKeygen(t, g, 1, 3)[0]
	kp := p.KeyStore().KeyPair
	before := g.NewScalar().Set(kp.SecretShare)

	child, err := p.DeriveChild("m/5", chainCode)
	require.NoError(t, err)
	child.Zeroize()

	assert.True(t, kp.SecretShare.Equal(before))
	assert.True(t, child.KeyPair.SecretShare.IsZero())
	require.NoError(t, kp.Check(g))
}

func TestSetKeyStore(t *testing.T) {
	g := ristretto.New()
	participants := runKeygen(t, g, 1, 3)
	data, err := participants[1].KeyStore().MarshalBinary()
	require.NoError(t, err)

	ks, err := dkg.UnmarshalKeyStore(g, data)
	require.NoError(t, err)

	restored, err := NewParticipant(g, 1, 3, 2)
	require.NoError(t, err)
	require.NoError(t, restored.SetKeyStore(ks))
	assert.True(t, restored.GroupKey().Equal(participants[1].GroupKey()))

	a, err := restored.DeriveChild("m/3/9", chainCode)
	require.NoError(t, err)
	b, err := participants[1].DeriveChild("m/3/9", chainCode)
	require.NoError(t, err)
	assert.True(t, a.KeyPair.SecretShare.Equal(b.KeyPair.SecretShare))

	other, err := NewParticipant(g, 1, 3, 3)
	require.NoError(t, err)
	assert.ErrorIs(t, other.SetKeyStore(ks), dkg.ErrInvalidInput)

	wrongShape, err := NewParticipant(g, 2, 3, 2)
	require.NoError(t, err)
	assert.ErrorIs(t, wrongShape.SetKeyStore(ks), dkg.ErrInvalidInput)

	otherGroup, err := NewParticipant(secp256k1.New(), 1, 3, 2)
	require.NoError(t, err)
	assert.ErrorIs(t, otherGroup.SetKeyStore(ks), dkg.ErrInvalidInput)

	assert.ErrorIs(t, restored.SetKeyStore(nil), dkg.ErrInvalidInput)
}

func TestNewParticipantValidation(t *testing.T) {
	g := ristretto.New()
	for _, tc := range []struct{ th, n, id int }{
		{1, 3, 0},
		{1, 3, 4},
		{0, 3, 1},
		{4, 3, 1},
	} {
		_, err := NewParticipant(g, tc.th, tc.n, tc.id)
		assert.ErrorIs(t, err, dkg.ErrInvalidInput, "th=%d n=%d id=%d", tc.th, tc.n, tc.id)
	}
}
