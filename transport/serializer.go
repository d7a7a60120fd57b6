package transport

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// Supported codec names.
const (
	CodecCBOR    = "cbor"
	CodecMsgpack = "msgpack"
	CodecJSON    = "json"
)

// cborEnc uses core deterministic encoding so that equal messages always
// produce equal bytes.
var cborEnc cbor.EncMode

func init() {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	cborEnc = em
}

// Serializer encodes protocol messages with a fixed codec.
type Serializer struct {
	codec string
}

// NewSerializer returns a serializer for the named codec. An empty name
// selects CBOR.
func NewSerializer(codec string) (*Serializer, error) {
	switch codec {
	case "":
		codec = CodecCBOR
	case CodecCBOR, CodecMsgpack, CodecJSON:
	default:
		return nil, &SerializerError{
			Operation: "create",
			Codec:     codec,
			Err:       ErrUnsupportedCodec,
		}
	}
	return &Serializer{codec: codec}, nil
}

// DefaultSerializer returns the CBOR serializer.
func DefaultSerializer() *Serializer {
	return &Serializer{codec: CodecCBOR}
}

// Codec returns the codec name.
func (s *Serializer) Codec() string {
	return s.codec
}

// Marshal encodes msg.
func (s *Serializer) Marshal(msg any) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch s.codec {
	case CodecCBOR:
		data, err = cborEnc.Marshal(msg)
	case CodecMsgpack:
		data, err = msgpack.Marshal(msg)
	case CodecJSON:
		data, err = json.Marshal(msg)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedCodec, s.codec)
	}
	if err != nil {
		return nil, &SerializerError{Operation: "marshal", Codec: s.codec, Err: err}
	}
	return data, nil
}

// Unmarshal decodes data into msg.
func (s *Serializer) Unmarshal(data []byte, msg any) error {
	var err error
	switch s.codec {
	case CodecCBOR:
		err = cbor.Unmarshal(data, msg)
	case CodecMsgpack:
		err = msgpack.Unmarshal(data, msg)
	case CodecJSON:
		err = json.Unmarshal(data, msg)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedCodec, s.codec)
	}
	if err != nil {
		return &SerializerError{Operation: "unmarshal", Codec: s.codec, Err: err}
	}
	return nil
}
