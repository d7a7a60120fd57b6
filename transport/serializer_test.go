package transport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testMessage struct {
	Index uint16   `cbor:"index" json:"index" msgpack:"index"`
	Items [][]byte `cbor:"items" json:"items" msgpack:"items"`
	Note  string   `cbor:"note" json:"note" msgpack:"note"`
}

func TestSerializerCodecs(t *testing.T) {
	msg := testMessage{
		Index: 7,
		Items: [][]byte{{1, 2, 3}, {4}},
		Note:  "round one",
	}

	for _, codec := range []string{CodecCBOR, CodecMsgpack, CodecJSON} {
		t.Run(codec, func(t *testing.T) {
			s, err := NewSerializer(codec)
			require.NoError(t, err)
			assert.Equal(t, codec, s.Codec())

			data, err := s.Marshal(&msg)
			require.NoError(t, err)

			var got testMessage
			require.NoError(t, s.Unmarshal(data, &got))
			assert.Equal(t, msg, got)
		})
	}
}

func TestNewSerializerDefaultsToCBOR(t *testing.T) {
	s, err := NewSerializer("")
	require.NoError(t, err)
	assert.Equal(t, CodecCBOR, s.Codec())
	assert.Equal(t, CodecCBOR, DefaultSerializer().Codec())
}

func TestNewSerializerRejectsUnknownCodec(t *testing.T) {
	_, err := NewSerializer("xml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedCodec))

	var serr *SerializerError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "create", serr.Operation)
	assert.Equal(t, "xml", serr.Codec)
}

func TestCBORIsDeterministic(t *testing.T) {
	s := DefaultSerializer()
	a, err := s.Marshal(map[string]int{"b": 2, "a": 1, "c": 3})
	require.NoError(t, err)
	b, err := s.Marshal(map[string]int{"c": 3, "a": 1, "b": 2})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestUnmarshalErrorIsWrapped(t *testing.T) {
	s, err := NewSerializer(CodecJSON)
	require.NoError(t, err)

	var got testMessage
	err = s.Unmarshal([]byte("{not json"), &got)
	require.Error(t, err)

	var serr *SerializerError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "unmarshal", serr.Operation)
}
