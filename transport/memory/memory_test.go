package memory

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/f3rmion/tswallet/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestBroadcastRound(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts []Option
		want int
	}{
		{"IncludingSelf", nil, 3},
		{"PeersOnly", []Option{WithoutSelfBroadcast()}, 2},
	} {
		t.Run(tc.name, func(t *testing.T) {
			const n = 3
			net := New(n, tc.opts...)
			ctx := context.Background()

			results := make([][]transport.Message, n)
			var g errgroup.Group
			for i := 1; i <= n; i++ {
				id := uint16(i)
				g.Go(func() error {
					ep := net.Endpoint(id)
					if err := ep.Broadcast(ctx, id, "r1", []byte{byte(id)}); err != nil {
						return err
					}
					msgs, err := ep.CollectBroadcast(ctx, n, "r1")
					results[id-1] = msgs
					return err
				})
			}
			require.NoError(t, g.Wait())

			for i, msgs := range results {
				require.Len(t, msgs, tc.want, "party %d", i+1)
				for _, m := range msgs {
					assert.Equal(t, []byte{byte(m.From)}, m.Payload)
					if !net.SelfBroadcast() {
						assert.NotEqual(t, uint16(i+1), m.From)
					}
				}
			}
		})
	}
}

func TestP2PRound(t *testing.T) {
	const n = 4
	net := New(n)
	ctx := context.Background()

	results := make([][]transport.Message, n)
	var g errgroup.Group
	for i := 1; i <= n; i++ {
		id := uint16(i)
		g.Go(func() error {
			ep := net.Endpoint(id)
			for to := uint16(1); to <= n; to++ {
				if to == id {
					continue
				}
				if err := ep.SendP2P(ctx, id, to, "r2", []byte{byte(id), byte(to)}); err != nil {
					return err
				}
			}
			msgs, err := ep.CollectP2P(ctx, id, n, "r2")
			results[id-1] = msgs
			return err
		})
	}
	require.NoError(t, g.Wait())

	for i, msgs := range results {
		self := uint16(i + 1)
		require.Len(t, msgs, n-1)
		for _, m := range msgs {
			assert.NotEqual(t, self, m.From)
			assert.Equal(t, []byte{byte(m.From), byte(self)}, m.Payload)
		}
	}
}

func TestRoundsDoNotMix(t *testing.T) {
	net := New(2)
	ctx := context.Background()
	a, b := net.Endpoint(1), net.Endpoint(2)

	require.NoError(t, a.SendP2P(ctx, 1, 2, "late", []byte("late")))
	require.NoError(t, a.SendP2P(ctx, 1, 2, "early", []byte("early")))

	msgs, err := b.CollectP2P(ctx, 2, 2, "early")
	require.NoError(t, err)
	assert.Equal(t, []byte("early"), msgs[0].Payload)

	msgs, err = b.CollectP2P(ctx, 2, 2, "late")
	require.NoError(t, err)
	assert.Equal(t, []byte("late"), msgs[0].Payload)
}

func TestPayloadIsCopied(t *testing.T) {
	net := New(2)
	ctx := context.Background()
	payload := []byte{1, 2, 3}
	require.NoError(t, net.Endpoint(1).SendP2P(ctx, 1, 2, "r", payload))
	payload[0] = 9

	msgs, err := net.Endpoint(2).CollectP2P(ctx, 2, 2, "r")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, msgs[0].Payload)
}

func TestInterceptor(t *testing.T) {
	net := New(2, WithInterceptor(func(round string, from, to uint16, payload []byte) []byte {
		if round == "r" && from == 1 {
			return bytes.ToUpper(payload)
		}
		return payload
	}))
	ctx := context.Background()

	require.NoError(t, net.Endpoint(1).SendP2P(ctx, 1, 2, "r", []byte("abc")))
	require.NoError(t, net.Endpoint(2).SendP2P(ctx, 2, 1, "r", []byte("xyz")))

	msgs, err := net.Endpoint(2).CollectP2P(ctx, 2, 2, "r")
	require.NoError(t, err)
	assert.Equal(t, []byte("ABC"), msgs[0].Payload)

	msgs, err = net.Endpoint(1).CollectP2P(ctx, 1, 2, "r")
	require.NoError(t, err)
	assert.Equal(t, []byte("xyz"), msgs[0].Payload)
}

func TestCollectHonorsContext(t *testing.T) {
	net := New(3)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := net.Endpoint(1).CollectBroadcast(ctx, 3, "never")
	require.Error(t, err)
	assert.True(t, errors.Is(err, transport.ErrInterrupted))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestSendValidation(t *testing.T) {
	net := New(2)
	ctx := context.Background()
	ep := net.Endpoint(1)

	assert.ErrorIs(t, ep.SendP2P(ctx, 1, 1, "r", nil), transport.ErrSendToSelf)
	assert.ErrorIs(t, ep.SendP2P(ctx, 1, 3, "r", nil), transport.ErrUnknownParty)
	assert.ErrorIs(t, ep.Broadcast(ctx, 0, "r", nil), transport.ErrUnknownParty)

	_, err := ep.CollectBroadcast(ctx, 5, "r")
	assert.ErrorIs(t, err, transport.ErrUnknownParty)
}
