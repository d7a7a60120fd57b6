package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownParty indicates a party identifier outside the network.
	ErrUnknownParty = errors.New("transport: unknown party")

	// ErrSendToSelf indicates a point-to-point send addressed to the sender.
	ErrSendToSelf = errors.New("transport: send to self")

	// ErrInterrupted indicates a send or collect was abandoned because its
	// context ended.
	ErrInterrupted = errors.New("transport: interrupted")

	// ErrUnsupportedCodec indicates an unknown serializer codec name.
	ErrUnsupportedCodec = errors.New("transport: unsupported codec")
)

// SerializerError reports a failed encode or decode.
type SerializerError struct {
	Operation string
	Codec     string
	Err       error
}

func (e *SerializerError) Error() string {
	return fmt.Sprintf("transport: %s failed for codec %s: %v", e.Operation, e.Codec, e.Err)
}

func (e *SerializerError) Unwrap() error {
	return e.Err
}
