package hd

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/f3rmion/tswallet/group"
	"golang.org/x/crypto/ripemd160"
)

// ChainCodeSize is the length of a chain code.
const ChainCodeSize = 32

// ExtendedKey is a public key with the chain code and metadata needed to
// derive its children.
type ExtendedKey struct {
	PublicKey         group.Point
	ChainCode         []byte
	Depth             uint8
	ParentFingerprint [4]byte
	ChildNumber       uint32
}

// NewExtendedKey returns a depth-zero extended key.
func NewExtendedKey(pk group.Point, chainCode []byte) (*ExtendedKey, error) {
	if pk == nil {
		return nil, fmt.Errorf("%w: nil public key", ErrInvalidInput)
	}
	if len(chainCode) != ChainCodeSize {
		return nil, ErrInvalidChainCode
	}
	return &ExtendedKey{
		PublicKey: pk,
		ChainCode: append([]byte(nil), chainCode...),
	}, nil
}

// Fingerprint returns the first four bytes of HASH160 of the public key.
func (k *ExtendedKey) Fingerprint() [4]byte {
	sha := sha256.Sum256(k.PublicKey.Bytes())
	h := ripemd160.New()
	h.Write(sha[:])
	var fp [4]byte
	copy(fp[:], h.Sum(nil))
	return fp
}

// Child derives the non-hardened child at index and returns it with the
// step's tweak.
func (k *ExtendedKey) Child(g group.Group, index uint32) (*ExtendedKey, group.Scalar, error) {
	if index >= HardenedOffset {
		return nil, nil, fmt.Errorf("%w: %d", ErrHardenedIndex, index)
	}
	if k.Depth == math.MaxUint8 {
		return nil, nil, ErrDepthOverflow
	}

	mac := hmac.New(sha512.New, k.ChainCode)
	mac.Write(k.PublicKey.Bytes())
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], index)
	mac.Write(idx[:])
	digest := mac.Sum(nil)

	tweakBytes, chainCode := digest[:32], digest[32:]
	if len(tweakBytes) != 32 || len(chainCode) != ChainCodeSize {
		return nil, nil, fmt.Errorf("%w: digest halves of %d and %d bytes", ErrEncoding, len(tweakBytes), len(chainCode))
	}
	tweak, err := g.NewScalar().SetBytes(tweakBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: tweak: %w", ErrEncoding, err)
	}

	return &ExtendedKey{
		PublicKey:         TweakPoint(g, k.PublicKey, tweak),
		ChainCode:         append([]byte(nil), chainCode...),
		Depth:             k.Depth + 1,
		ParentFingerprint: k.Fingerprint(),
		ChildNumber:       index,
	}, tweak, nil
}

// Derivation is the result of deriving along a path.
type Derivation struct {
	// Tweak is the sum of the step tweaks: Key.PublicKey = parent + Tweak*G.
	Tweak group.Scalar
	Key   *ExtendedKey
}

// Derive parses path and derives it from parent and chainCode.
func Derive(g group.Group, path string, parent group.Point, chainCode []byte) (*Derivation, error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	key, err := NewExtendedKey(parent, chainCode)
	if err != nil {
		return nil, err
	}
	return DerivePath(g, p, key)
}

// DerivePath derives path starting at parent. The tweak accumulator starts
// at zero, so an empty path yields a zero tweak and a copy of parent.
func DerivePath(g group.Group, path Path, parent *ExtendedKey) (*Derivation, error) {
	if parent == nil || parent.PublicKey == nil {
		return nil, fmt.Errorf("%w: nil parent key", ErrInvalidInput)
	}
	if len(parent.ChainCode) != ChainCodeSize {
		return nil, ErrInvalidChainCode
	}
	for _, idx := range path {
		if idx >= HardenedOffset {
			return nil, fmt.Errorf("%w: %d", ErrHardenedIndex, idx)
		}
	}
	if int(parent.Depth)+len(path) > math.MaxUint8 {
		return nil, ErrDepthOverflow
	}

	total := g.NewScalar()
	key := &ExtendedKey{
		PublicKey:         g.NewPoint().Set(parent.PublicKey),
		ChainCode:         append([]byte(nil), parent.ChainCode...),
		Depth:             parent.Depth,
		ParentFingerprint: parent.ParentFingerprint,
		ChildNumber:       parent.ChildNumber,
	}
	for _, idx := range path {
		child, tweak, err := key.Child(g, idx)
		if err != nil {
			return nil, err
		}
		total = TweakScalar(g, total, tweak)
		key = child
	}

	pk, err := g.NewPoint().SetBytes(key.PublicKey.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: child key: %w", ErrEncoding, err)
	}
	key.PublicKey = pk
	return &Derivation{Tweak: total, Key: key}, nil
}

// TweakPoint returns p + t*G.
func TweakPoint(g group.Group, p group.Point, t group.Scalar) group.Point {
	return g.NewPoint().Add(p, group.BaseMult(g, t))
}

// TweakScalar returns s + t.
func TweakScalar(g group.Group, s, t group.Scalar) group.Scalar {
	return g.NewScalar().Add(s, t)
}
