package dkg

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by this package matches one of them
// with errors.Is.
var (
	// ErrInvalidInput indicates bad parameters or malformed protocol input.
	ErrInvalidInput = errors.New("dkg: invalid input")

	// ErrProofVerification indicates that one or more proofs of knowledge
	// did not verify. The concrete error is a *ProofVerificationError.
	ErrProofVerification = errors.New("dkg: proof verification failed")

	// ErrShareVerification indicates that a received share does not lie on
	// the sender's committed polynomial.
	ErrShareVerification = errors.New("dkg: share verification failed")

	// ErrAuthentication indicates that an encrypted share could not be
	// opened, either because it was tampered with or because the two
	// parties derived different keys.
	ErrAuthentication = errors.New("dkg: authentication failed")

	// ErrTransport wraps failures reported by the transport.
	ErrTransport = errors.New("dkg: transport failure")

	// ErrEncoding indicates a message, scalar or point that could not be
	// encoded or decoded.
	ErrEncoding = errors.New("dkg: encoding failure")
)

// ProofVerificationError lists the parties whose round one proof failed.
type ProofVerificationError struct {
	PartyIDs []int
}

func (e *ProofVerificationError) Error() string {
	ids := make([]string, len(e.PartyIDs))
	for i, id := range e.PartyIDs {
		ids[i] = fmt.Sprint(id)
	}
	return fmt.Sprintf("dkg: proof verification failed for parties [%s]", strings.Join(ids, ", "))
}

// Is reports whether target is ErrProofVerification.
func (e *ProofVerificationError) Is(target error) bool {
	return target == ErrProofVerification
}

// ShareVerificationError identifies the sender of a share that does not
// match its commitment.
type ShareVerificationError struct {
	From int
}

func (e *ShareVerificationError) Error() string {
	return fmt.Sprintf("dkg: share from party %d does not match its commitment", e.From)
}

// Is reports whether target is ErrShareVerification.
func (e *ShareVerificationError) Is(target error) bool {
	return target == ErrShareVerification
}
