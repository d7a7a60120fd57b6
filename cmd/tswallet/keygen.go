package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/f3rmion/tswallet/dkg"
	"github.com/f3rmion/tswallet/secret"
	"github.com/f3rmion/tswallet/session"
	"github.com/f3rmion/tswallet/transport"
	"github.com/f3rmion/tswallet/transport/memory"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const keygenTimeout = 5 * time.Minute

type keygenConfig struct {
	Group     string
	Threshold int
	Parties   int
	Context   string
	Codec     string
	Out       string
}

func (a *app) newKeygenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Run key generation among simulated parties",
		Long: `Run distributed key generation among --parties in-process parties and write
one key store per party to --out as party-<id>.keystore.

Examples:
  # 2-of-3 over ristretto255 (any 3 shares reconstruct)
  tswallet keygen --threshold 2 --parties 3 --context wallet-1 --out ./keys`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := keygenConfig{
				Group:     a.v.GetString(keyGroup),
				Threshold: a.v.GetInt(keyThreshold),
				Parties:   a.v.GetInt(keyParties),
				Context:   a.v.GetString(keyContext),
				Codec:     a.v.GetString(keyCodec),
				Out:       a.v.GetString(keyOut),
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), keygenTimeout)
			defer cancel()

			groupKey, files, err := a.runKeygen(ctx, cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "group key: %s\n", groupKey)
			for _, f := range files {
				fmt.Fprintf(out, "wrote %s\n", f)
			}
			return nil
		},
	}

	cmd.Flags().Int(keyThreshold, 1, "polynomial degree; threshold+1 shares reconstruct the key")
	cmd.Flags().Int(keyParties, 3, "number of parties")
	cmd.Flags().String(keyContext, "tswallet", "session context bound into the proofs")
	cmd.Flags().String(keyCodec, transport.CodecCBOR, "wire codec (cbor, msgpack, json)")
	cmd.Flags().StringP(keyOut, "o", ".", "directory for key store files")
	a.bind(cmd, keyThreshold, keyParties, keyContext, keyCodec, keyOut)
	return cmd
}

// runKeygen runs every party over one memory network and writes their key
// stores. It returns the hex group key and the written paths.
func (a *app) runKeygen(ctx context.Context, cfg keygenConfig) (string, []string, error) {
	g, err := groupByName(cfg.Group)
	if err != nil {
		return "", nil, err
	}
	ser, err := transport.NewSerializer(cfg.Codec)
	if err != nil {
		return "", nil, err
	}

	// dkg.New rejects bad parameters before anything is sized by them.
	if _, err := dkg.New(g, cfg.Threshold, cfg.Parties); err != nil {
		return "", nil, err
	}

	participants := make([]*session.Participant, cfg.Parties)
	for i := range participants {
		p, err := session.NewParticipant(g, cfg.Threshold, cfg.Parties, i+1,
			dkg.WithSerializer(ser),
			dkg.WithLogger(a.log),
		)
		if err != nil {
			return "", nil, err
		}
		participants[i] = p
	}

	a.log.WithField("group", g.Name()).
		WithField("threshold", cfg.Threshold).
		WithField("parties", cfg.Parties).
		WithField("codec", ser.Codec()).
		Info("starting key generation")

	net := memory.New(cfg.Parties)
	eg, ctx := errgroup.WithContext(ctx)
	for _, p := range participants {
		eg.Go(func() error {
			if _, err := p.Keygen(ctx, net.Endpoint(uint16(p.ID())), cfg.Context); err != nil {
				return fmt.Errorf("party %d: %w", p.ID(), err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		for _, p := range participants {
			p.KeyStore().Zeroize()
		}
		return "", nil, err
	}

	groupKey := hex.EncodeToString(participants[0].GroupKey().Bytes())
	files, err := writeKeyStores(cfg.Out, participants)
	if err != nil {
		return "", nil, err
	}
	return groupKey, files, nil
}

// writeKeyStores writes one key store file per participant into dir. Every
// key store is zeroized on return, whether or not writing succeeded.
func writeKeyStores(dir string, participants []*session.Participant) ([]string, error) {
	defer func() {
		for _, p := range participants {
			p.KeyStore().Zeroize()
		}
	}()

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	files := make([]string, 0, len(participants))
	for _, p := range participants {
		data, err := p.KeyStore().MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("encode key store of party %d: %w", p.ID(), err)
		}
		path := filepath.Join(dir, fmt.Sprintf("party-%d.keystore", p.ID()))
		err = os.WriteFile(path, data, 0o600)
		secret.ZeroBytes(data)
		if err != nil {
			return nil, fmt.Errorf("write key store: %w", err)
		}
		files = append(files, path)
	}
	return files, nil
}
