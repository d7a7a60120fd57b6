// Package transport defines how protocol engines exchange messages.
//
// A [Transport] is a per-party endpoint that exposes the two rendezvous
// patterns used by key generation: a broadcast round, where every party
// sends one payload to everybody and then collects one payload from each
// party, and a point-to-point round, where every party sends one payload to
// each peer and collects one payload from each peer. Rounds are named by a
// tag so that messages from different rounds never mix.
//
// Collect calls block until every expected message has arrived or the
// context is done. Transports do not retry; failures are returned to the
// engine, which aborts the run.
//
// Payloads are opaque bytes. [Serializer] encodes protocol messages with a
// configurable codec (CBOR by default).
package transport
