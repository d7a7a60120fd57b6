package dkg

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/f3rmion/tswallet/group"
	"github.com/f3rmion/tswallet/secret"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const shareKeyInfo = "tswallet-dkg-share-key"

// deriveShareKey returns the symmetric key for shares exchanged with a
// peer. The Diffie-Hellman point u*C_peer0 equals u*u_peer*G, so both ends
// of the pair arrive at the same key.
func deriveShareKey(g group.Group, peer group.Point, u group.Scalar, context []byte) ([]byte, error) {
	dh := g.NewPoint().ScalarMult(u, peer)
	ikm := dh.Bytes()
	defer secret.ZeroBytes(ikm)

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, ikm, context, []byte(shareKeyInfo)), key); err != nil {
		return nil, fmt.Errorf("%w: derive share key: %w", ErrEncoding, err)
	}
	return key, nil
}

func associatedData(from, to uint16) []byte {
	ad := make([]byte, 4)
	binary.BigEndian.PutUint16(ad[:2], from)
	binary.BigEndian.PutUint16(ad[2:], to)
	return ad
}

// sharePacket is the round two payload: an XChaCha20-Poly1305 ciphertext
// of one share. The sender and recipient are authenticated as associated
// data.
type sharePacket struct {
	From       uint16 `cbor:"from" json:"from" msgpack:"from"`
	To         uint16 `cbor:"to" json:"to" msgpack:"to"`
	Nonce      []byte `cbor:"nonce" json:"nonce" msgpack:"nonce"`
	Ciphertext []byte `cbor:"ciphertext" json:"ciphertext" msgpack:"ciphertext"`
}

func sealShare(key []byte, from, to uint16, plaintext []byte, r io.Reader) (*sharePacket, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(r, nonce); err != nil {
		return nil, fmt.Errorf("dkg: read nonce: %w", err)
	}
	return &sharePacket{
		From:       from,
		To:         to,
		Nonce:      nonce,
		Ciphertext: aead.Seal(nil, nonce, plaintext, associatedData(from, to)),
	}, nil
}

func openShare(key []byte, pkt *sharePacket) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	if len(pkt.Nonce) != aead.NonceSize() {
		return nil, fmt.Errorf("%w: share from party %d has a %d-byte nonce", ErrAuthentication, pkt.From, len(pkt.Nonce))
	}
	plaintext, err := aead.Open(nil, pkt.Nonce, pkt.Ciphertext, associatedData(pkt.From, pkt.To))
	if err != nil {
		return nil, fmt.Errorf("%w: share from party %d", ErrAuthentication, pkt.From)
	}
	return plaintext, nil
}
