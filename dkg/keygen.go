package dkg

import (
	"context"
	"fmt"
	"sort"

	"github.com/f3rmion/tswallet/group"
	"github.com/f3rmion/tswallet/secret"
	"github.com/f3rmion/tswallet/transport"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Keygen runs key generation as party myID over tr and returns the
// party's key store. Every party must use the same parameters and the
// same sessionContext, which is bound into the proofs of knowledge.
//
// Keygen blocks at each round until the transport has delivered every
// expected message or fails. Any failure aborts the run: no key store is
// returned and all intermediate secrets are wiped.
func (d *DKG) Keygen(ctx context.Context, tr transport.Transport, myID int, sessionContext string) (*KeyStore, error) {
	if myID < 1 || myID > d.parties {
		return nil, fmt.Errorf("%w: party id %d outside 1..%d", ErrInvalidInput, myID, d.parties)
	}
	if tr == nil {
		return nil, fmt.Errorf("%w: nil transport", ErrInvalidInput)
	}

	run := &keygenRun{
		DKG:     d,
		tr:      tr,
		id:      myID,
		context: []byte(sessionContext),
		log: d.log.WithFields(logrus.Fields{
			"party":     myID,
			"parties":   d.parties,
			"threshold": d.threshold,
		}),
	}

	var ks *KeyStore
	err := secret.Run(func(s *secret.Scope) error {
		var err error
		ks, err = run.execute(ctx, s)
		return err
	})
	if err != nil {
		run.log.WithError(err).Warn("key generation failed")
		return nil, err
	}
	run.log.Info("key generation complete")
	return ks, nil
}

// keygenRun is the state of one party for one run.
type keygenRun struct {
	*DKG
	tr      transport.Transport
	id      int
	context []byte
	log     logrus.FieldLogger
}

func (r *keygenRun) execute(ctx context.Context, s *secret.Scope) (*KeyStore, error) {
	g := r.group

	poly, err := newPolynomial(g, r.threshold, r.rand)
	if err != nil {
		return nil, fmt.Errorf("dkg: sample polynomial: %w", err)
	}
	s.Add(poly)
	commitment := poly.commit(g)

	k, err := g.RandomScalar(r.rand)
	if err != nil {
		return nil, fmt.Errorf("dkg: sample nonce: %w", err)
	}
	ps := &PartySecret{
		ID: r.id,
		U:  g.NewScalar().Set(poly.secret()),
		GU: commitment.Secret(),
		K:  k,
		GK: group.BaseMult(g, k),
	}
	done := false
	defer func() {
		if !done {
			ps.Zeroize()
		}
	}()

	proof, err := r.prove(r.id, r.context, ps.U, ps.GU, ps.K, ps.GK)
	if err != nil {
		return nil, fmt.Errorf("dkg: prove: %w", err)
	}
	own := secret.Track(s, &Proposal{Index: r.id, Commitment: commitment, Proof: proof})

	outgoing := make([]*Share, r.parties)
	for j := 1; j <= r.parties; j++ {
		outgoing[j-1] = secret.Track(s, &Share{
			From:  r.id,
			To:    j,
			Value: poly.evaluate(g, scalarFromID(g, j)),
		})
	}
	r.log.Debug("generated polynomial and proof")

	valid, err := r.roundOne(ctx, s, own)
	if err != nil {
		return nil, err
	}

	received, err := r.roundTwo(ctx, s, ps.U, valid, outgoing)
	if err != nil {
		return nil, err
	}

	kp, err := r.assemble(valid, received)
	if err != nil {
		return nil, err
	}

	done = true
	return &KeyStore{
		GroupName:        g.Name(),
		Secret:           ps,
		KeyPair:          kp,
		ValidCommitments: valid,
		MemberID:         r.id,
		Threshold:        r.threshold,
		Parties:          r.parties,
	}, nil
}

// roundOne broadcasts the party's proposal, collects everybody else's and
// verifies their proofs.
func (r *keygenRun) roundOne(ctx context.Context, s *secret.Scope, own *Proposal) ([]*PeerCommitment, error) {
	log := r.log.WithField("round", RoundCommitment)

	payload, err := r.codec.Marshal(newRound1Message(own))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	log.Debug("broadcasting commitment")
	if err := r.tr.Broadcast(ctx, uint16(r.id), RoundCommitment, payload); err != nil {
		return nil, fmt.Errorf("%w: broadcast commitment: %w", ErrTransport, err)
	}
	msgs, err := r.tr.CollectBroadcast(ctx, r.parties, RoundCommitment)
	if err != nil {
		return nil, fmt.Errorf("%w: collect commitments: %w", ErrTransport, err)
	}
	log.WithField("received", len(msgs)).Debug("collected commitments")

	proposals, invalid, err := r.gather(msgs, own)
	for _, p := range proposals {
		if p != nil {
			s.Add(p)
		}
	}
	if err != nil {
		return nil, err
	}

	for _, p := range proposals {
		if p != nil && !r.verifyProof(p, r.context) {
			invalid = append(invalid, p.Index)
		}
	}
	if len(invalid) > 0 {
		sort.Ints(invalid)
		log.WithField("offenders", invalid).Warn("proof verification failed")
		return nil, &ProofVerificationError{PartyIDs: invalid}
	}

	valid := make([]*PeerCommitment, len(proposals))
	for i, p := range proposals {
		valid[i] = &PeerCommitment{Index: p.Index, Commitment: p.Commitment}
		p.Zeroize()
	}
	return valid, nil
}

// gather decodes the round one messages into proposals ordered by index.
// The transport may or may not deliver the party's own broadcast; the
// local proposal is used in either case. Indices whose message does not
// decode are returned as invalid.
func (r *keygenRun) gather(msgs []transport.Message, own *Proposal) ([]*Proposal, []int, error) {
	n := r.parties
	if len(msgs) != n && len(msgs) != n-1 {
		return nil, nil, fmt.Errorf("%w: expected %d or %d commitments, got %d", ErrInvalidInput, n, n-1, len(msgs))
	}

	proposals := make([]*Proposal, n)
	seen := make([]bool, n)
	var invalid []int
	for _, m := range msgs {
		var wire round1Message
		if err := r.codec.Unmarshal(m.Payload, &wire); err != nil {
			return proposals, nil, fmt.Errorf("%w: commitment from party %d: %w", ErrEncoding, m.From, err)
		}
		idx := int(wire.Index)
		if idx < 1 || idx > n {
			return proposals, nil, fmt.Errorf("%w: commitment index %d outside 1..%d", ErrInvalidInput, idx, n)
		}
		if int(m.From) != idx {
			return proposals, nil, fmt.Errorf("%w: party %d sent a commitment for index %d", ErrInvalidInput, m.From, idx)
		}
		if seen[idx-1] {
			return proposals, nil, fmt.Errorf("%w: duplicate commitment for index %d", ErrInvalidInput, idx)
		}
		seen[idx-1] = true
		if idx == r.id {
			continue
		}

		p, err := wire.proposal(r.group, r.threshold)
		if err != nil {
			r.log.WithError(err).WithField("from", idx).Debug("undecodable commitment")
			invalid = append(invalid, idx)
			continue
		}
		proposals[idx-1] = p
	}

	seen[r.id-1] = true
	proposals[r.id-1] = own
	for i, ok := range seen {
		if !ok {
			return proposals, nil, fmt.Errorf("%w: missing commitment from party %d", ErrInvalidInput, i+1)
		}
	}
	return proposals, invalid, nil
}

// roundTwo encrypts each peer's share under the pairwise key, exchanges
// the packets and decrypts the shares addressed to this party. The result
// is ordered by sender and includes the party's own share.
func (r *keygenRun) roundTwo(ctx context.Context, s *secret.Scope, u group.Scalar, valid []*PeerCommitment, outgoing []*Share) ([]*Share, error) {
	g := r.group
	log := r.log.WithField("round", RoundShares)

	keys := make([][]byte, r.parties)
	for _, peer := range valid {
		if peer.Index == r.id {
			continue
		}
		key, err := deriveShareKey(g, peer.Commitment.Secret(), u, r.context)
		if err != nil {
			return nil, err
		}
		keys[peer.Index-1] = s.Bytes(key)
	}

	packets := make(map[int][]byte, r.parties-1)
	for to := 1; to <= r.parties; to++ {
		if to == r.id {
			continue
		}
		plaintext := s.Bytes(outgoing[to-1].Value.Bytes())
		pkt, err := sealShare(keys[to-1], uint16(r.id), uint16(to), plaintext, r.rand)
		if err != nil {
			return nil, err
		}
		data, err := r.codec.Marshal(pkt)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
		}
		packets[to] = data
	}

	log.WithField("peers", len(packets)).Debug("exchanging encrypted shares")
	eg, egctx := errgroup.WithContext(ctx)
	for to, data := range packets {
		eg.Go(func() error {
			if err := r.tr.SendP2P(egctx, uint16(r.id), uint16(to), RoundShares, data); err != nil {
				return fmt.Errorf("%w: send share to party %d: %w", ErrTransport, to, err)
			}
			return nil
		})
	}
	var msgs []transport.Message
	eg.Go(func() error {
		var err error
		msgs, err = r.tr.CollectP2P(egctx, uint16(r.id), r.parties, RoundShares)
		if err != nil {
			return fmt.Errorf("%w: collect shares: %w", ErrTransport, err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if len(msgs) != r.parties-1 {
		return nil, fmt.Errorf("%w: expected %d shares, got %d", ErrInvalidInput, r.parties-1, len(msgs))
	}
	received := make([]*Share, r.parties)
	received[r.id-1] = outgoing[r.id-1]
	for _, m := range msgs {
		from := int(m.From)
		if from < 1 || from > r.parties || received[from-1] != nil {
			return nil, fmt.Errorf("%w: unexpected share from party %d", ErrInvalidInput, from)
		}

		var pkt sharePacket
		if err := r.codec.Unmarshal(m.Payload, &pkt); err != nil {
			return nil, fmt.Errorf("%w: share from party %d: %w", ErrEncoding, from, err)
		}
		if int(pkt.From) != from || int(pkt.To) != r.id {
			return nil, fmt.Errorf("%w: packet from party %d is labelled %d -> %d", ErrAuthentication, from, pkt.From, pkt.To)
		}
		plaintext, err := openShare(keys[from-1], &pkt)
		if err != nil {
			return nil, err
		}
		s.Bytes(plaintext)
		value, err := g.NewScalar().SetBytes(plaintext)
		if err != nil {
			return nil, fmt.Errorf("%w: share from party %d: %w", ErrEncoding, from, err)
		}
		received[from-1] = secret.Track(s, &Share{From: from, To: r.id, Value: value})
	}
	log.Debug("decrypted shares")
	return received, nil
}

// assemble verifies every received share against its sender's commitment
// and combines them into the party's key pair.
func (r *keygenRun) assemble(valid []*PeerCommitment, shares []*Share) (*KeyPair, error) {
	g := r.group
	for _, sh := range shares {
		if !valid[sh.From-1].Commitment.Verify(g, r.id, sh.Value) {
			r.log.WithField("from", sh.From).Warn("share verification failed")
			return nil, &ShareVerificationError{From: sh.From}
		}
	}

	sum := g.NewScalar()
	for _, sh := range shares {
		next := g.NewScalar().Add(sum, sh.Value)
		sum.Zeroize()
		sum = next
	}

	commitments := make([]SharesCommitment, len(valid))
	for i, c := range valid {
		commitments[i] = c.Commitment
	}
	joint := sumCommitments(g, commitments)

	verification := make([]group.Point, r.parties)
	for k := 1; k <= r.parties; k++ {
		verification[k-1] = joint.Evaluate(g, scalarFromID(g, k))
	}

	kp := &KeyPair{
		ID:                 r.id,
		SecretShare:        sum,
		PublicShare:        group.BaseMult(g, sum),
		GroupKey:           joint.Secret(),
		VerificationShares: verification,
	}
	if err := kp.Check(g); err != nil {
		kp.Zeroize()
		return nil, err
	}
	return kp, nil
}
