package main

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/f3rmion/tswallet/bjj"
	"github.com/f3rmion/tswallet/group"
	"github.com/f3rmion/tswallet/ristretto"
	"github.com/f3rmion/tswallet/secp256k1"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version information, set via ldflags at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// Config keys shared by flags, the config file and TSWALLET_* variables.
const (
	keyGroup     = "group"
	keyThreshold = "threshold"
	keyParties   = "parties"
	keyContext   = "context"
	keyCodec     = "codec"
	keyOut       = "out"
	keyLogLevel  = "log-level"
	keyKeyStore  = "keystore"
	keyPath      = "path"
	keyChainCode = "chain-code"
)

// groupByName returns the group registered under name.
func groupByName(name string) (group.Group, error) {
	switch strings.ToLower(name) {
	case "ristretto255", "ristretto":
		return ristretto.New(), nil
	case "secp256k1":
		return secp256k1.New(), nil
	case "bjj", "babyjubjub":
		return &bjj.BJJ{}, nil
	default:
		return nil, fmt.Errorf("unsupported group %q (supported: ristretto255, secp256k1, bjj)", name)
	}
}

// app carries the state shared by one command tree.
type app struct {
	v   *viper.Viper
	log *logrus.Logger
}

func newLogger(w io.Writer, level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l, nil
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	var cfgFile string

	root := &cobra.Command{
		Use:   "tswallet",
		Short: "Threshold wallet key generation and child derivation",
		Long: `tswallet runs distributed key generation among simulated parties and derives
non-hardened child keys from the resulting key stores.

Use 'tswallet keygen' to generate key stores for every party.
Use 'tswallet derive' to derive a child key from a key store.

Flags may also be set in a config file or with TSWALLET_ environment
variables, for example TSWALLET_GROUP=secp256k1.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				a.v.SetConfigFile(cfgFile)
				if err := a.v.ReadInConfig(); err != nil {
					return fmt.Errorf("read config: %w", err)
				}
			} else {
				a.v.AddConfigPath("$HOME/.tswallet")
				a.v.AddConfigPath(".")
				a.v.SetConfigName("config")
				a.v.SetConfigType("yaml")
				if err := a.v.ReadInConfig(); err != nil {
					if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
						return fmt.Errorf("read config: %w", err)
					}
				}
			}

			l, err := newLogger(cmd.ErrOrStderr(), a.v.GetString(keyLogLevel))
			if err != nil {
				return err
			}
			a.log = l
			if used := a.v.ConfigFileUsed(); used != "" {
				a.log.WithField("file", used).Debug("using config file")
			}
			return nil
		},
	}

	a.v.SetEnvPrefix("TSWALLET")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.tswallet/config.yaml)")
	flags.String(keyGroup, "ristretto255", "group (ristretto255, secp256k1, bjj)")
	flags.String(keyLogLevel, "info", "log level (debug, info, warn, error)")
	for _, key := range []string{keyGroup, keyLogLevel} {
		if err := a.v.BindPFlag(key, flags.Lookup(key)); err != nil {
			panic(fmt.Sprintf("failed to bind %s flag: %v", key, err))
		}
	}

	root.AddCommand(newVersionCmd(), a.newKeygenCmd(), a.newDeriveCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tswallet version %s\n", Version)
			fmt.Fprintf(out, "Git commit: %s\n", GitCommit)
			fmt.Fprintf(out, "Build date: %s\n", BuildTime)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func (a *app) bind(cmd *cobra.Command, keys ...string) {
	for _, key := range keys {
		if err := a.v.BindPFlag(key, cmd.Flags().Lookup(key)); err != nil {
			panic(fmt.Sprintf("failed to bind %s flag: %v", key, err))
		}
	}
}
