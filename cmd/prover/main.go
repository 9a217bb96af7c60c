// Command prover runs the keyless-accounts Groth16 prover service: an HTTP
// API that turns a client's OIDC JWT and ephemeral key material into a
// training-wheels-signed zero-knowledge proof.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "prover",
		Short: "Keyless-accounts zero-knowledge prover service",
		Long:  `Validates OIDC JWTs, derives circuit input signals, and produces training-wheels-signed Groth16 proofs.`,
	}

	root.AddCommand(newServeCmd())
	return root
}
