package secp256k1

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"io"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/f3rmion/tswallet/group"
)

const (
	// ScalarSize is the length of an encoded scalar.
	ScalarSize = 32
	// PointSize is the length of a compressed point.
	PointSize = 33

	hashDomain = "tswallet-secp256k1-h2s"
)

var (
	// ErrInvalidScalarLength is returned when a scalar encoding is not 32 bytes.
	ErrInvalidScalarLength = errors.New("secp256k1: invalid scalar length")
	// ErrInvalidPoint is returned when bytes do not decode to a curve point.
	ErrInvalidPoint = errors.New("secp256k1: invalid point encoding")
)

// Scalar is an integer modulo the secp256k1 group order.
// It implements [group.Scalar] using btcec's constant-time ModNScalar.
type Scalar struct {
	inner btcec.ModNScalar
}

// Add sets s to a + b and returns s.
func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.inner.Add2(&a.(*Scalar).inner, &b.(*Scalar).inner)
	return s
}

// Sub sets s to a - b and returns s.
func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	var negB btcec.ModNScalar
	negB.NegateVal(&b.(*Scalar).inner)
	s.inner.Add2(&a.(*Scalar).inner, &negB)
	return s
}

// Mul sets s to a * b and returns s.
func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.inner.Mul2(&a.(*Scalar).inner, &b.(*Scalar).inner)
	return s
}

// Negate sets s to -a and returns s.
func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.inner.NegateVal(&a.(*Scalar).inner)
	return s
}

// Invert sets s to a^(-1) and returns s.
// Returns an error if a is zero.
func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	aScalar := a.(*Scalar)
	if aScalar.inner.IsZero() {
		return nil, errors.New("secp256k1: cannot invert zero scalar")
	}
	s.inner.InverseValNonConst(&aScalar.inner)
	return s, nil
}

// Set copies the value of a into s and returns s.
func (s *Scalar) Set(a group.Scalar) group.Scalar {
	s.inner.Set(&a.(*Scalar).inner)
	return s
}

// SetUint64 sets s to v and returns s.
func (s *Scalar) SetUint64(v uint64) group.Scalar {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	s.inner.SetByteSlice(buf[:])
	return s
}

// Bytes returns the 32-byte big-endian encoding of s.
func (s *Scalar) Bytes() []byte {
	b := s.inner.Bytes()
	return b[:]
}

// SetBytes sets s from a 32-byte big-endian encoding, reducing the value
// modulo the group order.
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	if len(data) != ScalarSize {
		return nil, ErrInvalidScalarLength
	}
	s.inner.SetByteSlice(data)
	return s, nil
}

// Equal reports whether s and b represent the same scalar value.
func (s *Scalar) Equal(b group.Scalar) bool {
	return s.inner.Equals(&b.(*Scalar).inner)
}

// IsZero reports whether s is the zero scalar.
func (s *Scalar) IsZero() bool {
	return s.inner.IsZero()
}

// Zeroize overwrites s with zero.
func (s *Scalar) Zeroize() {
	if s == nil {
		return
	}
	s.inner.Zero()
}

// Point is a point on secp256k1 in Jacobian coordinates.
// It implements [group.Point].
//
// The point at infinity has no SEC1 compressed form; it is encoded as
// 33 zero bytes.
type Point struct {
	inner btcec.JacobianPoint
}

// isInfinity reports whether j is the point at infinity.
func isInfinity(j *btcec.JacobianPoint) bool {
	x, y, z := j.X, j.Y, j.Z
	x.Normalize()
	y.Normalize()
	z.Normalize()
	return (x.IsZero() && y.IsZero()) || z.IsZero()
}

// Add sets p to a + b and returns p.
func (p *Point) Add(a, b group.Point) group.Point {
	var r btcec.JacobianPoint
	btcec.AddNonConst(&a.(*Point).inner, &b.(*Point).inner, &r)
	p.inner = r
	return p
}

// Sub sets p to a - b and returns p.
func (p *Point) Sub(a, b group.Point) group.Point {
	var negB Point
	negB.Negate(b)
	return p.Add(a, &negB)
}

// Negate sets p to -a and returns p.
func (p *Point) Negate(a group.Point) group.Point {
	r := a.(*Point).inner
	if !isInfinity(&r) {
		r.ToAffine()
		r.Y.Negate(1).Normalize()
	}
	p.inner = r
	return p
}

// ScalarMult sets p to s * q and returns p.
func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	var r btcec.JacobianPoint
	btcec.ScalarMultNonConst(&s.(*Scalar).inner, &q.(*Point).inner, &r)
	p.inner = r
	return p
}

// Set copies the value of a into p and returns p.
func (p *Point) Set(a group.Point) group.Point {
	p.inner = a.(*Point).inner
	return p
}

// Bytes returns the 33-byte SEC1 compressed encoding of p.
func (p *Point) Bytes() []byte {
	if isInfinity(&p.inner) {
		return make([]byte, PointSize)
	}
	a := p.inner
	a.ToAffine()
	return btcec.NewPublicKey(&a.X, &a.Y).SerializeCompressed()
}

// SetBytes decodes a 33-byte compressed encoding into p.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	if len(data) != PointSize {
		return nil, ErrInvalidPoint
	}
	if isZeroBytes(data) {
		p.inner = btcec.JacobianPoint{}
		return p, nil
	}
	pub, err := btcec.ParsePubKey(data)
	if err != nil {
		return nil, ErrInvalidPoint
	}
	pub.AsJacobian(&p.inner)
	return p, nil
}

// Equal reports whether p and b represent the same curve point.
func (p *Point) Equal(b group.Point) bool {
	q := b.(*Point)
	pInf, qInf := isInfinity(&p.inner), isInfinity(&q.inner)
	if pInf || qInf {
		return pInf == qInf
	}
	pa, qa := p.inner, q.inner
	pa.ToAffine()
	qa.ToAffine()
	return pa.X.Equals(&qa.X) && pa.Y.Equals(&qa.Y)
}

// IsIdentity reports whether p is the point at infinity.
func (p *Point) IsIdentity() bool {
	return isInfinity(&p.inner)
}

func isZeroBytes(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// Group implements [group.Group] for secp256k1.
type Group struct{}

// New returns the secp256k1 group.
func New() *Group {
	return &Group{}
}

// Name returns "secp256k1".
func (g *Group) Name() string {
	return "secp256k1"
}

// NewScalar returns a new scalar initialized to zero.
func (g *Group) NewScalar() group.Scalar {
	return &Scalar{}
}

// NewPoint returns the point at infinity.
func (g *Group) NewPoint() group.Point {
	return &Point{}
}

// Generator returns the secp256k1 base point.
func (g *Group) Generator() group.Point {
	var one btcec.ModNScalar
	one.SetInt(1)
	p := &Point{}
	btcec.ScalarBaseMultNonConst(&one, &p.inner)
	return p
}

// RandomScalar generates a random non-zero scalar by rejection sampling.
func (g *Group) RandomScalar(r io.Reader) (group.Scalar, error) {
	var buf [ScalarSize]byte
	defer func() {
		for i := range buf {
			buf[i] = 0
		}
	}()
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		s := &Scalar{}
		overflow := s.inner.SetByteSlice(buf[:])
		if !overflow && !s.inner.IsZero() {
			return s, nil
		}
	}
}

// HashToScalar hashes the provided data to a scalar using SHA-256 with a
// fixed domain prefix and length-prefixed inputs.
func (g *Group) HashToScalar(data ...[]byte) (group.Scalar, error) {
	h := sha256.New()
	h.Write([]byte(hashDomain))
	var lenBuf [8]byte
	for _, d := range data {
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(d)))
		h.Write(lenBuf[:])
		h.Write(d)
	}
	s := &Scalar{}
	s.inner.SetByteSlice(h.Sum(nil))
	return s, nil
}

// Order returns the secp256k1 group order as a big-endian byte slice.
func (g *Group) Order() []byte {
	return btcec.S256().N.Bytes()
}
