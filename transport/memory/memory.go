package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/f3rmion/tswallet/transport"
)

// Interceptor may replace a payload while it is delivered. Returning the
// input unchanged leaves the message as sent.
type Interceptor func(round string, from, to uint16, payload []byte) []byte

// Option configures a Network.
type Option func(*Network)

// WithoutSelfBroadcast stops broadcasts from being delivered back to their
// sender.
func WithoutSelfBroadcast() Option {
	return func(n *Network) {
		n.selfBroadcast = false
	}
}

// WithInterceptor installs fn on every delivery.
func WithInterceptor(fn Interceptor) Option {
	return func(n *Network) {
		n.intercept = fn
	}
}

type mailbox struct {
	round string
	from  uint16
	to    uint16
}

// Network is an in-memory network of parties 1..n.
type Network struct {
	parties       int
	selfBroadcast bool
	intercept     Interceptor

	mu    sync.Mutex
	boxes map[mailbox]chan []byte
}

// New creates a network for parties 1..parties.
func New(parties int, opts ...Option) *Network {
	n := &Network{
		parties:       parties,
		selfBroadcast: true,
		boxes:         make(map[mailbox]chan []byte),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Parties returns the number of parties on the network.
func (n *Network) Parties() int {
	return n.parties
}

// SelfBroadcast reports whether broadcasts reach their sender.
func (n *Network) SelfBroadcast() bool {
	return n.selfBroadcast
}

// Endpoint returns the transport for party id.
func (n *Network) Endpoint(id uint16) *Endpoint {
	return &Endpoint{net: n, self: id}
}

func (n *Network) valid(id uint16) bool {
	return id >= 1 && int(id) <= n.parties
}

func (n *Network) box(key mailbox) chan []byte {
	n.mu.Lock()
	defer n.mu.Unlock()
	ch := n.boxes[key]
	if ch == nil {
		ch = make(chan []byte, 1)
		n.boxes[key] = ch
	}
	return ch
}

func (n *Network) deliver(ctx context.Context, key mailbox, payload []byte) error {
	msg := append([]byte(nil), payload...)
	if n.intercept != nil {
		msg = n.intercept(key.round, key.from, key.to, msg)
	}
	select {
	case n.box(key) <- msg:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: deliver %s from %d to %d: %w", transport.ErrInterrupted, key.round, key.from, key.to, ctx.Err())
	}
}

func (n *Network) await(ctx context.Context, key mailbox) ([]byte, error) {
	ch := n.box(key)
	select {
	case msg := <-ch:
		n.mu.Lock()
		delete(n.boxes, key)
		n.mu.Unlock()
		return msg, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: await %s from %d: %w", transport.ErrInterrupted, key.round, key.from, ctx.Err())
	}
}

// Endpoint is one party's connection to a Network. It implements
// [transport.Transport].
type Endpoint struct {
	net  *Network
	self uint16
}

var _ transport.Transport = (*Endpoint)(nil)

// ID returns the party this endpoint belongs to.
func (e *Endpoint) ID() uint16 {
	return e.self
}

// Broadcast delivers payload to every party, including the sender unless
// the network was built with WithoutSelfBroadcast.
func (e *Endpoint) Broadcast(ctx context.Context, from uint16, round string, payload []byte) error {
	if !e.net.valid(from) {
		return fmt.Errorf("%w: %d", transport.ErrUnknownParty, from)
	}
	for to := 1; to <= e.net.parties; to++ {
		if uint16(to) == from && !e.net.selfBroadcast {
			continue
		}
		key := mailbox{round: round, from: from, to: uint16(to)}
		if err := e.net.deliver(ctx, key, payload); err != nil {
			return err
		}
	}
	return nil
}

// CollectBroadcast waits for the round's broadcast from each party in 1..n.
func (e *Endpoint) CollectBroadcast(ctx context.Context, n int, round string) ([]transport.Message, error) {
	if n > e.net.parties {
		return nil, fmt.Errorf("%w: %d parties requested, network has %d", transport.ErrUnknownParty, n, e.net.parties)
	}
	msgs := make([]transport.Message, 0, n)
	for from := 1; from <= n; from++ {
		if uint16(from) == e.self && !e.net.selfBroadcast {
			continue
		}
		payload, err := e.net.await(ctx, mailbox{round: round, from: uint16(from), to: e.self})
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, transport.Message{From: uint16(from), Payload: payload})
	}
	return msgs, nil
}

// SendP2P delivers payload to a single party.
func (e *Endpoint) SendP2P(ctx context.Context, from, to uint16, round string, payload []byte) error {
	if from == to {
		return transport.ErrSendToSelf
	}
	if !e.net.valid(from) || !e.net.valid(to) {
		return fmt.Errorf("%w: %d -> %d", transport.ErrUnknownParty, from, to)
	}
	return e.net.deliver(ctx, mailbox{round: round, from: from, to: to}, payload)
}

// CollectP2P waits for the round's payload from each party in 1..n other
// than self.
func (e *Endpoint) CollectP2P(ctx context.Context, self uint16, n int, round string) ([]transport.Message, error) {
	if !e.net.valid(self) || n > e.net.parties {
		return nil, fmt.Errorf("%w: %d of %d", transport.ErrUnknownParty, self, n)
	}
	msgs := make([]transport.Message, 0, n-1)
	for from := 1; from <= n; from++ {
		if uint16(from) == self {
			continue
		}
		payload, err := e.net.await(ctx, mailbox{round: round, from: uint16(from), to: self})
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, transport.Message{From: uint16(from), Payload: payload})
	}
	return msgs, nil
}
