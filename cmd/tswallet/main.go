// Command tswallet runs threshold key generation among simulated parties
// and derives child keys from the resulting key stores.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
