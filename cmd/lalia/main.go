// Lalia is an affect-driven speech synthesis daemon. Competing emotional
// memory waves interfere, a regulation gate decides what may be voiced,
// and the winning wave modulates how its text is spoken.
//
// Usage:
//
//	lalia serve [--config /path/to/lalia.yaml]
//	lalia speak "hello there" --emotion joy -o hello.wav
package main

import (
	"os"

	"github.com/nerasch/lalia/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
