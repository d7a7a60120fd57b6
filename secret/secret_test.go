package secret

import (
	"errors"
	"testing"
)

type counter struct {
	value  []byte
	zeroed int
}

func (c *counter) Zeroize() {
	ZeroBytes(c.value)
	c.zeroed++
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

func TestZeroBytes(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	ZeroBytes(b)
	if !allZero(b) {
		t.Errorf("expected zeros, got %v", b)
	}

	// nil and empty slices are fine
	ZeroBytes(nil)
	ZeroBytes([]byte{})
}

func TestZeroSlices(t *testing.T) {
	a := []byte{1, 2}
	b := []byte{3}
	ZeroSlices(a, nil, b)
	if !allZero(a) || !allZero(b) {
		t.Error("ZeroSlices left data behind")
	}
}

func TestScopeWipe(t *testing.T) {
	var s Scope
	c := Track(&s, &counter{value: []byte{9, 9}})
	buf := s.Bytes([]byte{7, 7, 7})
	s.Add(nil)

	if s.Len() != 2 {
		t.Fatalf("expected 2 tracked items, got %d", s.Len())
	}

	s.Wipe()
	if !allZero(c.value) || c.zeroed != 1 {
		t.Error("tracked value not zeroized")
	}
	if !allZero(buf) {
		t.Error("tracked buffer not zeroed")
	}
	if !s.Wiped() || s.Len() != 0 {
		t.Error("scope should be empty after Wipe")
	}

	// Second wipe does not touch already released values.
	s.Wipe()
	if c.zeroed != 1 {
		t.Errorf("value zeroized %d times", c.zeroed)
	}
}

func TestRun(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var c *counter
		err := Run(func(s *Scope) error {
			c = Track(s, &counter{value: []byte{1}})
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}
		if c.zeroed != 1 {
			t.Error("secret not wiped on success")
		}
	})

	t.Run("Error", func(t *testing.T) {
		sentinel := errors.New("boom")
		var buf []byte
		err := Run(func(s *Scope) error {
			buf = s.Bytes([]byte{5, 5})
			return sentinel
		})
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected sentinel error, got %v", err)
		}
		if !allZero(buf) {
			t.Error("secret not wiped on error")
		}
	})

	t.Run("Panic", func(t *testing.T) {
		c := &counter{value: []byte{3}}
		func() {
			defer func() {
				if recover() == nil {
					t.Error("expected panic to propagate")
				}
			}()
			_ = Run(func(s *Scope) error {
				s.Add(c)
				panic("unexpected")
			})
		}()
		if c.zeroed != 1 {
			t.Error("secret not wiped on panic")
		}
	})
}
