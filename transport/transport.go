package transport

import "context"

// Message is a payload received from a specific party.
type Message struct {
	From    uint16
	Payload []byte
}

// Transport is one party's view of the network. Party identifiers are
// 1-based.
type Transport interface {
	// Broadcast sends payload to every party for the given round.
	Broadcast(ctx context.Context, from uint16, round string, payload []byte) error

	// CollectBroadcast blocks until the round's broadcast payload of every
	// party in 1..n has arrived and returns them ordered by sender. Whether
	// the caller's own payload is included depends on the transport.
	CollectBroadcast(ctx context.Context, n int, round string) ([]Message, error)

	// SendP2P sends payload to a single party for the given round.
	SendP2P(ctx context.Context, from, to uint16, round string, payload []byte) error

	// CollectP2P blocks until every party in 1..n other than self has sent
	// its payload for the round and returns them ordered by sender.
	CollectP2P(ctx context.Context, self uint16, n int, round string) ([]Message, error)
}
