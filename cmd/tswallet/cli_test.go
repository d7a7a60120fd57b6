package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/f3rmion/tswallet/dkg"
	"github.com/f3rmion/tswallet/hd"
	"github.com/f3rmion/tswallet/ristretto"
	"github.com/f3rmion/tswallet/session"
	"github.com/f3rmion/tswallet/transport/memory"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

const testChainCode = "84bdc15254818c9b23b0703f95a9b96a514dae60d2798bc4f2cc8e496f59cae0"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "tswallet", cmd.Use)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"version", "keygen", "derive"} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{"config", "group", "log-level"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %s", flag)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tswallet version "+Version)
}

func TestGroupByName(t *testing.T) {
	for name, want := range map[string]string{
		"ristretto255": "ristretto255",
		"Ristretto":    "ristretto255",
		"secp256k1":    "secp256k1",
		"bjj":          "bjj",
	} {
		g, err := groupByName(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, g.Name())
	}
	_, err := groupByName("ed448")
	assert.Error(t, err)
}

func TestKeygenAndDerive(t *testing.T) {
	for _, groupName := range []string{"ristretto255", "secp256k1", "bjj"} {
		t.Run(groupName, func(t *testing.T) {
			dir := t.TempDir()
			out, err := execute(t, "keygen",
				"--group", groupName,
				"--threshold", "1",
				"--parties", "3",
				"--context", "cli-test",
				"--out", dir,
				"--log-level", "warn",
			)
			require.NoError(t, err)
			require.Contains(t, out, "group key: ")
			groupKey := strings.TrimSpace(strings.SplitN(strings.SplitN(out, "group key: ", 2)[1], "\n", 2)[0])

			var children []ChildKeyOutput
			for id := 1; id <= 3; id++ {
				path := filepath.Join(dir, fmt.Sprintf("party-%d.keystore", id))
				info, err := os.Stat(path)
				require.NoError(t, err)
				assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

				out, err := execute(t, "derive",
					"--group", groupName,
					"--keystore", path,
					"--path", "m/0/1/2",
					"--chain-code", testChainCode,
				)
				require.NoError(t, err)

				var child ChildKeyOutput
				require.NoError(t, json.Unmarshal([]byte(out), &child))
				assert.Equal(t, id, child.Party)
				assert.Equal(t, groupKey, child.ParentKey)
				assert.Equal(t, uint8(3), child.Depth)
				assert.Equal(t, uint32(2), child.ChildNumber)
				children = append(children, child)
			}

			// every party sees the same public child key
			for _, c := range children[1:] {
				assert.Equal(t, children[0].ChildKey, c.ChildKey)
				assert.Equal(t, children[0].Tweak, c.Tweak)
				assert.NotEqual(t, children[0].PublicShare, c.PublicShare)
			}
		})
	}
}

func TestDeriveMatchesHD(t *testing.T) {
	dir := t.TempDir()
	a := &app{v: viper.New(), log: logrus.New()}
	a.log.SetOutput(&bytes.Buffer{})

	groupKey, files, err := a.runKeygen(context.Background(), keygenConfig{
		Group: "ristretto255", Threshold: 1, Parties: 2, Context: "x", Codec: "msgpack", Out: dir,
	})
	require.NoError(t, err)
	require.Len(t, files, 2)

	out, err := a.runDerive(deriveConfig{
		Group: "ristretto255", KeyStore: files[1], Path: "m/4", ChainCode: testChainCode,
	})
	require.NoError(t, err)

	g := ristretto.New()
	raw, _ := hex.DecodeString(groupKey)
	pk, err := g.NewPoint().SetBytes(raw)
	require.NoError(t, err)
	cc, _ := hex.DecodeString(testChainCode)
	want, err := hd.Derive(g, "m/4", pk, cc)
	require.NoError(t, err)

	assert.Equal(t, hex.EncodeToString(want.Key.PublicKey.Bytes()), out.ChildKey)
	assert.Equal(t, hex.EncodeToString(want.Key.ChainCode), out.ChainCode)
}

func TestKeygenLogging(t *testing.T) {
	logger, hook := test.NewNullLogger()
	a := &app{v: viper.New(), log: logger}

	_, _, err := a.runKeygen(context.Background(), keygenConfig{
		Group: "secp256k1", Threshold: 1, Parties: 2, Context: "x", Codec: "cbor", Out: t.TempDir(),
	})
	require.NoError(t, err)

	var started, completed int
	for _, e := range hook.AllEntries() {
		switch e.Message {
		case "starting key generation":
			started++
			assert.Equal(t, "secp256k1", e.Data["group"])
		case "key generation complete":
			completed++
		}
	}
	assert.Equal(t, 1, started)
	assert.Equal(t, 2, completed)
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "keygen", "--group", "p256", "--out", dir)
	assert.ErrorContains(t, err, "unsupported group")

	_, err = execute(t, "keygen", "--codec", "xml", "--out", dir)
	assert.Error(t, err)

	_, err = execute(t, "keygen", "--threshold", "4", "--parties", "3", "--out", dir)
	assert.Error(t, err)

	for _, parties := range []string{"0", "-1"} {
		_, err = execute(t, "keygen", "--parties", parties, "--out", dir)
		assert.ErrorIs(t, err, dkg.ErrInvalidInput, "parties=%s", parties)
	}
	_, err = execute(t, "keygen", "--threshold", "0", "--out", dir)
	assert.ErrorIs(t, err, dkg.ErrInvalidInput)

	_, err = execute(t, "derive", "--chain-code", testChainCode)
	assert.ErrorContains(t, err, "--keystore is required")

	_, err = execute(t, "derive", "--keystore", filepath.Join(dir, "missing"), "--chain-code", testChainCode)
	assert.ErrorContains(t, err, "read key store")

	_, err = execute(t, "keygen", "--parties", "2", "--out", dir, "--log-level", "warn")
	require.NoError(t, err)
	ks := filepath.Join(dir, "party-1.keystore")

	_, err = execute(t, "derive", "--keystore", ks, "--chain-code", "zz")
	assert.ErrorContains(t, err, "decode chain code")

	_, err = execute(t, "derive", "--keystore", ks, "--chain-code", testChainCode, "--path", "m/1'")
	assert.ErrorIs(t, err, hd.ErrHardenedIndex)

	_, err = execute(t, "derive", "--keystore", ks, "--chain-code", testChainCode, "--group", "secp256k1")
	assert.Error(t, err)

	_, err = execute(t, "version", "--log-level", "loud")
	assert.Error(t, err)
}

func TestConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("group: secp256k1\nparties: 2\nlog-level: warn\n"), 0o600))

	t.Setenv("TSWALLET_OUT", filepath.Join(dir, "keys"))
	_, err := execute(t, "keygen", "--config", cfg)
	require.NoError(t, err)

	out, err := execute(t, "derive", "--config", cfg,
		"--keystore", filepath.Join(dir, "keys", "party-2.keystore"),
		"--chain-code", testChainCode,
		"--path", "m/0",
	)
	require.NoError(t, err)

	var child ChildKeyOutput
	require.NoError(t, json.Unmarshal([]byte(out), &child))
	assert.Equal(t, "secp256k1", child.Group)
	assert.Len(t, child.ChildKey, 66)
}

func keygenParticipants(t *testing.T, total int) []*session.Participant {
	t.Helper()
	g := ristretto.New()
	net := memory.New(total)
	participants := make([]*session.Participant, total)
	eg, ctx := errgroup.WithContext(context.Background())
	for i := range participants {
		p, err := session.NewParticipant(g, 1, total, i+1)
		require.NoError(t, err)
		participants[i] = p
		eg.Go(func() error {
			_, err := p.Keygen(ctx, net.Endpoint(uint16(p.ID())), "write-test")
			return err
		})
	}
	require.NoError(t, eg.Wait())
	return participants
}

func assertWiped(t *testing.T, participants []*session.Participant) {
	t.Helper()
	for _, p := range participants {
		ks := p.KeyStore()
		assert.True(t, ks.KeyPair.SecretShare.IsZero(), "party %d secret share", p.ID())
		assert.True(t, ks.Secret.U.IsZero(), "party %d secret", p.ID())
		assert.True(t, ks.Secret.K.IsZero(), "party %d nonce", p.ID())
	}
}

func TestWriteKeyStoresZeroizes(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		participants := keygenParticipants(t, 3)
		files, err := writeKeyStores(t.TempDir(), participants)
		require.NoError(t, err)
		assert.Len(t, files, 3)
		assertWiped(t, participants)
	})

	t.Run("Failure", func(t *testing.T) {
		participants := keygenParticipants(t, 3)
		blocker := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(blocker, nil, 0o600))

		_, err := writeKeyStores(blocker, participants)
		require.ErrorContains(t, err, "create output directory")
		assertWiped(t, participants)
	})
}
