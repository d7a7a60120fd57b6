package ristretto

import (
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"io"

	"github.com/f3rmion/tswallet/group"
	"github.com/gtank/ristretto255"
)

const (
	// ScalarSize is the length of an encoded scalar.
	ScalarSize = 32
	// PointSize is the length of an encoded group element.
	PointSize = 32

	hashDomain = "tswallet-ristretto255-h2s"
)

// order is the prime order of the ristretto255 group,
// 2^252 + 27742317777372353535851937790883648493, big-endian.
var order = []byte{
	0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x14, 0xde, 0xf9, 0xde, 0xa2, 0xf7, 0x9c, 0xd6,
	0x58, 0x12, 0x63, 0x1a, 0x5c, 0xf5, 0xd3, 0xed,
}

var (
	// ErrInvalidScalarLength is returned when a scalar encoding is not 32 bytes.
	ErrInvalidScalarLength = errors.New("ristretto: invalid scalar length")
	// ErrInvalidPoint is returned when bytes do not decode to a group element.
	ErrInvalidPoint = errors.New("ristretto: invalid point encoding")
)

// Scalar is an element of the ristretto255 scalar field. It implements
// [group.Scalar] on top of [ristretto255.Scalar].
//
// Encodings are 32 bytes little-endian, the convention used by
// curve25519 libraries.
type Scalar struct {
	inner *ristretto255.Scalar
}

func newScalar() *Scalar {
	return &Scalar{inner: ristretto255.NewScalar()}
}

// Add sets s to a + b and returns s.
func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.inner.Add(a.(*Scalar).inner, b.(*Scalar).inner)
	return s
}

// Sub sets s to a - b and returns s.
func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	s.inner.Subtract(a.(*Scalar).inner, b.(*Scalar).inner)
	return s
}

// Mul sets s to a * b and returns s.
func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.inner.Multiply(a.(*Scalar).inner, b.(*Scalar).inner)
	return s
}

// Negate sets s to -a and returns s.
func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.inner.Negate(a.(*Scalar).inner)
	return s
}

// Invert sets s to a^(-1) and returns s.
// Returns an error if a is zero.
func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	aScalar := a.(*Scalar)
	if aScalar.IsZero() {
		return nil, errors.New("ristretto: cannot invert zero scalar")
	}
	s.inner.Invert(aScalar.inner)
	return s, nil
}

// Set copies the value of a into s and returns s.
func (s *Scalar) Set(a group.Scalar) group.Scalar {
	*s.inner = *a.(*Scalar).inner
	return s
}

// SetUint64 sets s to v and returns s.
func (s *Scalar) SetUint64(v uint64) group.Scalar {
	var buf [ScalarSize]byte
	binary.LittleEndian.PutUint64(buf[:8], v)
	s.setReduced(buf[:])
	return s
}

// Bytes returns the 32-byte little-endian canonical encoding of s.
func (s *Scalar) Bytes() []byte {
	return s.inner.Encode(make([]byte, 0, ScalarSize))
}

// SetBytes sets s from a 32-byte little-endian encoding, reducing the
// value modulo the group order.
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	if len(data) != ScalarSize {
		return nil, ErrInvalidScalarLength
	}
	s.setReduced(data)
	return s, nil
}

// setReduced interprets a 32-byte little-endian integer and reduces it
// mod the group order by widening it to the 64-byte uniform input.
func (s *Scalar) setReduced(data []byte) {
	var wide [64]byte
	copy(wide[:], data)
	s.inner.FromUniformBytes(wide[:])
	for i := range wide {
		wide[i] = 0
	}
}

// Equal reports whether s and b represent the same scalar value.
func (s *Scalar) Equal(b group.Scalar) bool {
	return s.inner.Equal(b.(*Scalar).inner) == 1
}

// IsZero reports whether s is the zero scalar.
func (s *Scalar) IsZero() bool {
	return s.inner.Equal(ristretto255.NewScalar()) == 1
}

// Zeroize overwrites s with zero.
func (s *Scalar) Zeroize() {
	if s == nil || s.inner == nil {
		return
	}
	*s.inner = *ristretto255.NewScalar()
}

// Point is an element of the ristretto255 prime-order group.
// It implements [group.Point] by wrapping [ristretto255.Element].
type Point struct {
	inner *ristretto255.Element
}

// Add sets p to a + b and returns p.
func (p *Point) Add(a, b group.Point) group.Point {
	p.inner.Add(a.(*Point).inner, b.(*Point).inner)
	return p
}

// Sub sets p to a - b and returns p.
func (p *Point) Sub(a, b group.Point) group.Point {
	p.inner.Subtract(a.(*Point).inner, b.(*Point).inner)
	return p
}

// Negate sets p to -a and returns p.
func (p *Point) Negate(a group.Point) group.Point {
	p.inner.Negate(a.(*Point).inner)
	return p
}

// ScalarMult sets p to s * q and returns p.
func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	p.inner.ScalarMult(s.(*Scalar).inner, q.(*Point).inner)
	return p
}

// Set copies the value of a into p and returns p.
func (p *Point) Set(a group.Point) group.Point {
	*p.inner = *a.(*Point).inner
	return p
}

// Bytes returns the 32-byte canonical ristretto255 encoding of p.
func (p *Point) Bytes() []byte {
	return p.inner.Encode(make([]byte, 0, PointSize))
}

// SetBytes decodes a 32-byte ristretto255 encoding into p.
// Non-canonical encodings are rejected.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	if len(data) != PointSize {
		return nil, ErrInvalidPoint
	}
	if err := p.inner.Decode(data); err != nil {
		return nil, ErrInvalidPoint
	}
	return p, nil
}

// Equal reports whether p and b represent the same group element.
func (p *Point) Equal(b group.Point) bool {
	return p.inner.Equal(b.(*Point).inner) == 1
}

// IsIdentity reports whether p is the identity element.
func (p *Point) IsIdentity() bool {
	return p.inner.Equal(ristretto255.NewElement()) == 1
}

// Group implements [group.Group] for ristretto255.
//
// Group is a zero-sized type. Create an instance with [New] or &Group{}.
type Group struct{}

// New returns the ristretto255 group.
func New() *Group {
	return &Group{}
}

// Name returns "ristretto255".
func (g *Group) Name() string {
	return "ristretto255"
}

// NewScalar returns a new scalar initialized to zero.
func (g *Group) NewScalar() group.Scalar {
	return newScalar()
}

// NewPoint returns a new point initialized to the identity element.
func (g *Group) NewPoint() group.Point {
	return &Point{inner: ristretto255.NewElement()}
}

// Generator returns the ristretto255 base point.
func (g *Group) Generator() group.Point {
	return &Point{inner: ristretto255.NewElement().Base()}
}

// RandomScalar reads 64 bytes from r and reduces them to a uniformly
// distributed scalar.
func (g *Group) RandomScalar(r io.Reader) (group.Scalar, error) {
	var buf [64]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	s := newScalar()
	s.inner.FromUniformBytes(buf[:])
	for i := range buf {
		buf[i] = 0
	}
	return s, nil
}

// HashToScalar hashes the provided data to a scalar using SHA-512 with a
// fixed domain prefix. Each input is length-prefixed so that distinct
// tuples never collide by concatenation.
func (g *Group) HashToScalar(data ...[]byte) (group.Scalar, error) {
	h := sha512.New()
	h.Write([]byte(hashDomain))
	var lenBuf [8]byte
	for _, d := range data {
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(d)))
		h.Write(lenBuf[:])
		h.Write(d)
	}
	s := newScalar()
	s.inner.FromUniformBytes(h.Sum(nil))
	return s, nil
}

// Order returns the group order as a big-endian byte slice.
func (g *Group) Order() []byte {
	out := make([]byte, len(order))
	copy(out, order)
	return out
}
