package dkg

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/f3rmion/tswallet/group"
	"github.com/f3rmion/tswallet/transport"
	"github.com/sirupsen/logrus"
)

// Round tags used on the transport.
const (
	RoundCommitment = "dkg_commitment"
	RoundShares     = "aead_pack_i"
)

// MaxParties is the largest supported number of parties. Party indices are
// 16-bit on the wire.
const MaxParties = 1<<16 - 1

// DKG holds the group and threshold parameters shared by every party of a
// key generation run.
type DKG struct {
	group     group.Group
	threshold int // degree of the sharing polynomial
	parties   int

	hasher Hasher
	codec  *transport.Serializer
	log    logrus.FieldLogger
	rand   io.Reader
}

// Option configures a DKG.
type Option func(*DKG)

// WithHasher sets the challenge hasher. All parties must use the same one.
func WithHasher(h Hasher) Option {
	return func(d *DKG) {
		if h != nil {
			d.hasher = h
		}
	}
}

// WithSerializer sets the wire codec. All parties must use the same one.
func WithSerializer(s *transport.Serializer) Option {
	return func(d *DKG) {
		if s != nil {
			d.codec = s
		}
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l logrus.FieldLogger) Option {
	return func(d *DKG) {
		if l != nil {
			d.log = l
		}
	}
}

// WithRand sets the randomness source used for polynomials, nonces and
// encryption. It defaults to crypto/rand.
func WithRand(r io.Reader) Option {
	return func(d *DKG) {
		if r != nil {
			d.rand = r
		}
	}
}

// New returns key generation parameters for parties 1..parties sharing a
// key with a polynomial of degree threshold: any threshold+1 shares
// determine the key, threshold or fewer reveal nothing about it.
func New(g group.Group, threshold, parties int, opts ...Option) (*DKG, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil group", ErrInvalidInput)
	}
	if threshold < 1 {
		return nil, fmt.Errorf("%w: threshold must be at least 1, got %d", ErrInvalidInput, threshold)
	}
	if parties < threshold {
		return nil, fmt.Errorf("%w: parties (%d) must be >= threshold (%d)", ErrInvalidInput, parties, threshold)
	}
	if parties > MaxParties {
		return nil, fmt.Errorf("%w: at most %d parties supported, got %d", ErrInvalidInput, MaxParties, parties)
	}

	d := &DKG{
		group:     g,
		threshold: threshold,
		parties:   parties,
		hasher:    GroupHasher{},
		codec:     transport.DefaultSerializer(),
		log:       discardLogger(),
		rand:      rand.Reader,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Group returns the group keys are generated in.
func (d *DKG) Group() group.Group {
	return d.group
}

// Threshold returns the degree of the sharing polynomial.
func (d *DKG) Threshold() int {
	return d.threshold
}

// Parties returns the number of parties.
func (d *DKG) Parties() int {
	return d.parties
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func scalarFromID(g group.Group, id int) group.Scalar {
	return g.NewScalar().SetUint64(uint64(id))
}
