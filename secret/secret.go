package secret

import (
	"crypto/subtle"
	"sync"
)

// Zeroizer is implemented by values that can overwrite their own secret
// contents. group.Scalar satisfies it.
type Zeroizer interface {
	Zeroize()
}

// ZeroBytes overwrites b with zeros. The write goes through
// crypto/subtle so the compiler cannot drop it as a dead store.
func ZeroBytes(b []byte) {
	if len(b) == 0 {
		return
	}
	zeros := make([]byte, len(b))
	subtle.ConstantTimeCopy(1, b, zeros)
}

// ZeroSlices overwrites every slice in bs.
func ZeroSlices(bs ...[]byte) {
	for _, b := range bs {
		ZeroBytes(b)
	}
}

// Scope tracks secrets for a bounded computation. The zero value is ready
// to use and a Scope is safe for concurrent use.
type Scope struct {
	mu    sync.Mutex
	items []Zeroizer
	bufs  [][]byte
	wiped bool
}

// Add registers values to be zeroized by Wipe. Nil values are ignored.
func (s *Scope) Add(zs ...Zeroizer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, z := range zs {
		if z != nil {
			s.items = append(s.items, z)
		}
	}
}

// Bytes registers b to be zeroed by Wipe and returns it.
func (s *Scope) Bytes(b []byte) []byte {
	s.mu.Lock()
	s.bufs = append(s.bufs, b)
	s.mu.Unlock()
	return b
}

// Len returns how many values and buffers are currently tracked.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) + len(s.bufs)
}

// Wipe zeroizes everything registered so far, in reverse order of
// registration, and forgets it. Wipe may be called more than once.
func (s *Scope) Wipe() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.items) - 1; i >= 0; i-- {
		s.items[i].Zeroize()
	}
	for i := len(s.bufs) - 1; i >= 0; i-- {
		ZeroBytes(s.bufs[i])
	}
	s.items = nil
	s.bufs = nil
	s.wiped = true
}

// Wiped reports whether Wipe has run at least once.
func (s *Scope) Wiped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wiped
}

// Track registers v with s and returns it, so a secret can be tracked at
// the point it is created.
func Track[T Zeroizer](s *Scope, v T) T {
	s.Add(v)
	return v
}

// Run calls fn with a fresh Scope and wipes the scope when fn returns or
// panics.
func Run(fn func(s *Scope) error) error {
	s := &Scope{}
	defer s.Wipe()
	return fn(s)
}
