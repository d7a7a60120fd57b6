package ristretto

import (
	"encoding/hex"
	"testing"

	"github.com/f3rmion/tswallet/group"
	"github.com/f3rmion/tswallet/group/grouptest"
)

func TestScalar(t *testing.T) {
	grouptest.TestScalar(t, New())
}

func TestPoint(t *testing.T) {
	grouptest.TestPoint(t, New())
}

// Multiples of the generator from RFC 9496, appendix A.1.
func TestGeneratorMultiples(t *testing.T) {
	g := New()
	vectors := []string{
		"0000000000000000000000000000000000000000000000000000000000000000",
		"e2f2ae0a6abc4e71a884a961c500515f58e30b6aa582dd8db6a65945e08d2d76",
		"6a493210f7499cd17fecb510ae0cea23a110e8d5b901f8acadd3095c73a3b919",
		"94741f5d5d52755ece4f23f044ee27d5d1ea1e2bd196b462166b16152a9d0259",
		"da80862773358b466ffadfe0b3293ab3d9fd53c5ea6c955358f568322daf6a57",
	}
	for i, want := range vectors {
		P := group.BaseMult(g, g.NewScalar().SetUint64(uint64(i)))
		if got := hex.EncodeToString(P.Bytes()); got != want {
			t.Errorf("%d*G: got %s, want %s", i, got, want)
		}
	}
}

func TestSetBytesRejectsNonCanonicalPoint(t *testing.T) {
	g := New()
	// Negative field element encodings (low bit set) are never canonical.
	bad, _ := hex.DecodeString("0100000000000000000000000000000000000000000000000000000000000000")
	if _, err := g.NewPoint().SetBytes(bad); err == nil {
		t.Error("expected error for non-canonical encoding")
	}
}

func TestScalarEncodingIsLittleEndian(t *testing.T) {
	g := New()
	enc := g.NewScalar().SetUint64(0x0102).Bytes()
	if len(enc) != ScalarSize {
		t.Fatalf("expected %d bytes, got %d", ScalarSize, len(enc))
	}
	if enc[0] != 0x02 || enc[1] != 0x01 {
		t.Errorf("unexpected encoding %x", enc)
	}
}

func TestSetBytesReducesModOrder(t *testing.T) {
	g := New()
	// The all-ones value is far above the order; it must still decode.
	buf := make([]byte, ScalarSize)
	for i := range buf {
		buf[i] = 0xff
	}
	s, err := g.NewScalar().SetBytes(buf)
	if err != nil {
		t.Fatal(err)
	}
	again, _ := g.NewScalar().SetBytes(s.Bytes())
	if !again.Equal(s) {
		t.Error("reduced scalar should re-encode canonically")
	}
	if s.Bytes()[31] > 0x10 {
		t.Error("reduced scalar is not below the group order")
	}
}

func TestOrder(t *testing.T) {
	g := New()
	want := "1000000000000000000000000000000014def9dea2f79cd65812631a5cf5d3ed"
	if got := hex.EncodeToString(g.Order()); got != want {
		t.Errorf("order: got %s, want %s", got, want)
	}
}
