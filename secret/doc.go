// Package secret provides helpers for erasing sensitive material.
//
// Go offers no destructor, so every value holding key material has to be
// wiped explicitly. [Scope] collects such values while a computation runs
// and wipes all of them when the computation returns, whether it succeeded,
// failed, or panicked:
//
//	err := secret.Run(func(s *secret.Scope) error {
//		k := secret.Track(s, randomScalar())
//		buf := s.Bytes(make([]byte, 32))
//		...
//		return nil
//	})
//
// Values that must outlive the scope are copied out before returning.
package secret
