// Package grouptest provides a conformance suite that every [group.Group]
// implementation in this module runs from its own tests.
package grouptest

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/f3rmion/tswallet/group"
)

// randomNonZero returns a random scalar other than zero.
func randomNonZero(t *testing.T, g group.Group) group.Scalar {
	t.Helper()
	for {
		s, err := g.RandomScalar(rand.Reader)
		if err != nil {
			t.Fatal(err)
		}
		if !s.IsZero() {
			return s
		}
	}
}

// TestScalar checks the scalar field arithmetic of g.
func TestScalar(t *testing.T, g group.Group) {
	t.Run("AddSub", func(t *testing.T) {
		a, _ := g.RandomScalar(rand.Reader)
		b, _ := g.RandomScalar(rand.Reader)

		sum := g.NewScalar().Add(a, b)
		diff := g.NewScalar().Sub(sum, b)

		if !diff.Equal(a) {
			t.Error("(a+b)-b != a")
		}
	})

	t.Run("MulInvert", func(t *testing.T) {
		a := randomNonZero(t, g)
		aInv, err := g.NewScalar().Invert(a)
		if err != nil {
			t.Fatal(err)
		}

		product := g.NewScalar().Mul(a, aInv)
		one := g.NewScalar().SetUint64(1)
		if !product.Equal(one) {
			t.Error("a*a^-1 != 1")
		}
	})

	t.Run("InvertZeroFails", func(t *testing.T) {
		zero := g.NewScalar()
		if _, err := g.NewScalar().Invert(zero); err == nil {
			t.Error("expected error inverting zero")
		}
	})

	t.Run("Negate", func(t *testing.T) {
		a, _ := g.RandomScalar(rand.Reader)
		negA := g.NewScalar().Negate(a)

		if !g.NewScalar().Add(a, negA).IsZero() {
			t.Error("a + (-a) != 0")
		}
	})

	t.Run("SetUint64", func(t *testing.T) {
		two := g.NewScalar().SetUint64(2)
		three := g.NewScalar().SetUint64(3)
		five := g.NewScalar().SetUint64(5)
		if !g.NewScalar().Add(two, three).Equal(five) {
			t.Error("2 + 3 != 5")
		}
		six := g.NewScalar().SetUint64(6)
		if !g.NewScalar().Mul(two, three).Equal(six) {
			t.Error("2 * 3 != 6")
		}
	})

	t.Run("BytesRoundtrip", func(t *testing.T) {
		a, _ := g.RandomScalar(rand.Reader)

		restored, err := g.NewScalar().SetBytes(a.Bytes())
		if err != nil {
			t.Fatal(err)
		}
		if !restored.Equal(a) {
			t.Error("scalar bytes roundtrip failed")
		}
	})

	t.Run("SetBytesRejectsWrongLength", func(t *testing.T) {
		a, _ := g.RandomScalar(rand.Reader)
		enc := a.Bytes()
		if _, err := g.NewScalar().SetBytes(enc[:len(enc)-1]); err == nil {
			t.Error("expected error for short scalar encoding")
		}
		if _, err := g.NewScalar().SetBytes(append(enc, 0)); err == nil {
			t.Error("expected error for long scalar encoding")
		}
	})

	t.Run("NewScalarIsZero", func(t *testing.T) {
		if !g.NewScalar().IsZero() {
			t.Error("new scalar should be zero")
		}
	})

	t.Run("Equal", func(t *testing.T) {
		// a == -a only for zero, so exclude it.
		a := randomNonZero(t, g)
		b := g.NewScalar().Set(a)
		if !a.Equal(b) {
			t.Error("copied scalar should equal original")
		}

		b = g.NewScalar().Negate(a)
		if a.Equal(b) {
			t.Error("a should not equal -a")
		}
	})

	t.Run("Zeroize", func(t *testing.T) {
		a := randomNonZero(t, g)
		b := g.NewScalar().Set(a)
		a.Zeroize()
		if !a.IsZero() {
			t.Error("zeroized scalar should be zero")
		}
		if b.IsZero() {
			t.Error("zeroize must not affect copies made with Set")
		}
	})

	t.Run("HashToScalar", func(t *testing.T) {
		h1, err := g.HashToScalar([]byte("ab"), []byte("c"))
		if err != nil {
			t.Fatal(err)
		}
		h2, _ := g.HashToScalar([]byte("ab"), []byte("c"))
		h3, _ := g.HashToScalar([]byte("a"), []byte("bc"))
		if !h1.Equal(h2) {
			t.Error("hash to scalar should be deterministic")
		}
		if h1.Equal(h3) {
			t.Error("hash to scalar should separate input boundaries")
		}
	})
}

// TestPoint checks the group law and encodings of g.
func TestPoint(t *testing.T, g group.Group) {
	t.Run("AddSub", func(t *testing.T) {
		s1, _ := g.RandomScalar(rand.Reader)
		s2, _ := g.RandomScalar(rand.Reader)
		P := group.BaseMult(g, s1)
		Q := group.BaseMult(g, s2)

		sum := g.NewPoint().Add(P, Q)
		diff := g.NewPoint().Sub(sum, Q)

		if !diff.Equal(P) {
			t.Error("(P+Q)-Q != P")
		}
	})

	t.Run("Negate", func(t *testing.T) {
		s, _ := g.RandomScalar(rand.Reader)
		P := group.BaseMult(g, s)
		negP := g.NewPoint().Negate(P)

		if !g.NewPoint().Add(P, negP).IsIdentity() {
			t.Error("P + (-P) != identity")
		}
	})

	t.Run("ScalarMultDistributes", func(t *testing.T) {
		a, _ := g.RandomScalar(rand.Reader)
		b, _ := g.RandomScalar(rand.Reader)
		lhs := group.BaseMult(g, g.NewScalar().Add(a, b))
		rhs := g.NewPoint().Add(group.BaseMult(g, a), group.BaseMult(g, b))
		if !lhs.Equal(rhs) {
			t.Error("(a+b)G != aG + bG")
		}
	})

	t.Run("DiffieHellmanCommutes", func(t *testing.T) {
		a, _ := g.RandomScalar(rand.Reader)
		b, _ := g.RandomScalar(rand.Reader)
		ab := g.NewPoint().ScalarMult(a, group.BaseMult(g, b))
		ba := g.NewPoint().ScalarMult(b, group.BaseMult(g, a))
		if !bytes.Equal(ab.Bytes(), ba.Bytes()) {
			t.Error("a(bG) != b(aG)")
		}
	})

	t.Run("BytesRoundtrip", func(t *testing.T) {
		s, _ := g.RandomScalar(rand.Reader)
		P := group.BaseMult(g, s)

		restored, err := g.NewPoint().SetBytes(P.Bytes())
		if err != nil {
			t.Fatal(err)
		}
		if !restored.Equal(P) {
			t.Error("point bytes roundtrip failed")
		}
	})

	t.Run("SetBytesRejectsGarbage", func(t *testing.T) {
		enc := g.Generator().Bytes()
		if _, err := g.NewPoint().SetBytes(enc[:len(enc)-1]); err == nil {
			t.Error("expected error for truncated point encoding")
		}
	})

	t.Run("IsIdentity", func(t *testing.T) {
		if !g.NewPoint().IsIdentity() {
			t.Error("new point should be identity")
		}
		if g.Generator().IsIdentity() {
			t.Error("generator should not be identity")
		}
	})

	t.Run("OrderAnnihilatesGenerator", func(t *testing.T) {
		// (order-1)*G + G == identity
		one := g.NewScalar().SetUint64(1)
		minusOne := g.NewScalar().Negate(one)
		P := g.NewPoint().Add(group.BaseMult(g, minusOne), g.Generator())
		if !P.IsIdentity() {
			t.Error("(n-1)G + G != identity")
		}
	})
}
