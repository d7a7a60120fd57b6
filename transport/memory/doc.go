// Package memory implements [transport.Transport] over in-process channels.
//
// A [Network] connects a fixed number of parties. Each party obtains its
// endpoint with [Network.Endpoint] and runs in its own goroutine. Every
// (round, sender, recipient) triple owns a single-slot mailbox, so a
// broadcast or point-to-point send never blocks on an unrelated round.
//
// By default a broadcast is also delivered to its sender, and collecting a
// broadcast round returns n payloads. [WithoutSelfBroadcast] switches to the
// peers-only convention where collection returns n-1 payloads.
// [WithInterceptor] lets tests rewrite or observe payloads in flight.
package memory
