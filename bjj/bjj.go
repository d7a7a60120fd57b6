package bjj

import (
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"
	"github.com/f3rmion/tswallet/group"
)

const (
	// ScalarSize is the length of an encoded scalar.
	ScalarSize = 32
	// PointSize is the length of a compressed point.
	PointSize = 32

	hashDomain = "tswallet-bjj-h2s"
)

// curveOrder is the Baby Jubjub subgroup order.
// This is distinct from the BN254 scalar field order (Fr).
var curveOrder *big.Int

func init() {
	curve := twistededwards.GetEdwardsCurve()
	curveOrder = new(big.Int).Set(&curve.Order)
}

var (
	// ErrInvalidScalarLength is returned when a scalar encoding is not 32 bytes.
	ErrInvalidScalarLength = errors.New("bjj: invalid scalar length")
	// ErrInvalidPoint is returned when bytes do not decode to a curve point.
	ErrInvalidPoint = errors.New("bjj: invalid point encoding")
)

// Scalar represents an element of the Baby Jubjub scalar field.
// It implements [group.Scalar] using big.Int with modular arithmetic
// over the curve's subgroup order.
//
// All arithmetic operations reduce results modulo the curve order.
type Scalar struct {
	inner *big.Int
}

func newScalar() *Scalar {
	return &Scalar{inner: new(big.Int)}
}

// reduce ensures the scalar is in the range [0, curveOrder).
func (s *Scalar) reduce() {
	s.inner.Mod(s.inner, curveOrder)
}

// Add sets s to a + b (mod curveOrder) and returns s.
func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.inner.Add(a.(*Scalar).inner, b.(*Scalar).inner)
	s.reduce()
	return s
}

// Sub sets s to a - b (mod curveOrder) and returns s.
func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	s.inner.Sub(a.(*Scalar).inner, b.(*Scalar).inner)
	s.reduce()
	return s
}

// Mul sets s to a * b (mod curveOrder) and returns s.
func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.inner.Mul(a.(*Scalar).inner, b.(*Scalar).inner)
	s.reduce()
	return s
}

// Negate sets s to -a (mod curveOrder) and returns s.
func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.inner.Neg(a.(*Scalar).inner)
	s.reduce()
	return s
}

// Invert sets s to a^(-1) (mod curveOrder) and returns s.
// Returns an error if a is zero, as zero has no multiplicative inverse.
func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	aScalar := a.(*Scalar)
	if aScalar.IsZero() {
		return nil, errors.New("bjj: cannot invert zero scalar")
	}
	s.inner.ModInverse(aScalar.inner, curveOrder)
	return s, nil
}

// Set copies the value of a into s and returns s.
func (s *Scalar) Set(a group.Scalar) group.Scalar {
	s.inner.Set(a.(*Scalar).inner)
	return s
}

// SetUint64 sets s to v and returns s.
func (s *Scalar) SetUint64(v uint64) group.Scalar {
	s.inner.SetUint64(v)
	s.reduce()
	return s
}

// Bytes returns the scalar as a 32-byte big-endian representation.
func (s *Scalar) Bytes() []byte {
	out := make([]byte, ScalarSize)
	s.inner.FillBytes(out)
	return out
}

// SetBytes sets s from a 32-byte big-endian encoding and returns s.
// The value is reduced modulo the curve order.
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	if len(data) != ScalarSize {
		return nil, ErrInvalidScalarLength
	}
	s.inner.SetBytes(data)
	s.reduce()
	return s, nil
}

// Equal reports whether s and b represent the same scalar value.
func (s *Scalar) Equal(b group.Scalar) bool {
	return s.inner.Cmp(b.(*Scalar).inner) == 0
}

// IsZero reports whether s is the zero scalar.
func (s *Scalar) IsZero() bool {
	return s.inner.Sign() == 0
}

// Zeroize clears the limbs backing s and sets it to zero. big.Int may
// have left copies behind in earlier, reallocated buffers; those cannot
// be reached from here.
func (s *Scalar) Zeroize() {
	if s == nil || s.inner == nil {
		return
	}
	words := s.inner.Bits()
	for i := range words {
		words[i] = 0
	}
	s.inner.SetInt64(0)
}

// Point represents a point on the Baby Jubjub curve.
// It implements [group.Point] by wrapping gnark-crypto's PointAffine.
//
// Points are represented in affine coordinates (x, y) on the twisted
// Edwards curve. The identity element is (0, 1).
type Point struct {
	inner twistededwards.PointAffine
}

// Add sets p to a + b and returns p.
func (p *Point) Add(a, b group.Point) group.Point {
	p.inner.Add(&a.(*Point).inner, &b.(*Point).inner)
	return p
}

// Sub sets p to a - b and returns p.
func (p *Point) Sub(a, b group.Point) group.Point {
	var negB twistededwards.PointAffine
	negB.Neg(&b.(*Point).inner)
	p.inner.Add(&a.(*Point).inner, &negB)
	return p
}

// Negate sets p to -a and returns p.
func (p *Point) Negate(a group.Point) group.Point {
	p.inner.Neg(&a.(*Point).inner)
	return p
}

// ScalarMult sets p to s * q and returns p.
func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	p.inner.ScalarMultiplication(&q.(*Point).inner, s.(*Scalar).inner)
	return p
}

// Set copies the value of a into p and returns p.
func (p *Point) Set(a group.Point) group.Point {
	p.inner.Set(&a.(*Point).inner)
	return p
}

// Bytes returns the 32-byte compressed point encoding.
func (p *Point) Bytes() []byte {
	bytes := p.inner.Bytes()
	return bytes[:]
}

// SetBytes sets p from a compressed point encoding and returns p.
// Returns an error if the data does not represent a valid curve point.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	if len(data) != PointSize {
		return nil, ErrInvalidPoint
	}
	if err := p.inner.Unmarshal(data); err != nil {
		return nil, ErrInvalidPoint
	}
	return p, nil
}

// Equal reports whether p and b represent the same curve point.
func (p *Point) Equal(b group.Point) bool {
	return p.inner.Equal(&b.(*Point).inner)
}

// IsIdentity reports whether p is the identity element (0, 1).
func (p *Point) IsIdentity() bool {
	return p.inner.IsZero()
}

// BJJ implements [group.Group] for the Baby Jubjub curve.
//
// BJJ is a zero-sized type that provides access to Baby Jubjub curve
// operations. Create an instance with &BJJ{} or new(BJJ).
type BJJ struct{}

// Name returns "bjj".
func (g *BJJ) Name() string {
	return "bjj"
}

// NewScalar returns a new scalar initialized to zero.
func (g *BJJ) NewScalar() group.Scalar {
	return newScalar()
}

// NewPoint returns a new point initialized to the identity element (0, 1).
func (g *BJJ) NewPoint() group.Point {
	var p Point
	p.inner.X.SetZero()
	p.inner.Y.SetOne()
	return &p
}

// Generator returns the standard base point for the Baby Jubjub curve.
func (g *BJJ) Generator() group.Point {
	var p Point
	p.inner = twistededwards.GetEdwardsCurve().Base
	return &p
}

// RandomScalar reads 64 bytes from r and reduces them modulo the curve
// order, keeping the modular bias negligible.
func (g *BJJ) RandomScalar(r io.Reader) (group.Scalar, error) {
	var buf [64]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	s := newScalar()
	s.inner.SetBytes(buf[:])
	s.reduce()
	for i := range buf {
		buf[i] = 0
	}
	return s, nil
}

// HashToScalar hashes the provided data to a scalar using SHA-512 with a
// domain prefix and length-prefixed inputs, reducing the 64-byte digest
// modulo the curve order.
func (g *BJJ) HashToScalar(data ...[]byte) (group.Scalar, error) {
	h := sha512.New()
	h.Write([]byte(hashDomain))
	var lenBuf [8]byte
	for _, d := range data {
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(d)))
		h.Write(lenBuf[:])
		h.Write(d)
	}

	s := newScalar()
	s.inner.SetBytes(h.Sum(nil))
	s.reduce()
	return s, nil
}

// Order returns the order of the Baby Jubjub curve's prime-order subgroup
// as a big-endian byte slice.
func (g *BJJ) Order() []byte {
	return curveOrder.Bytes()
}
