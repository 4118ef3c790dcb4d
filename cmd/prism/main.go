// Package main provides the prism CLI: a front-end over the kernel
// façade, the HAL backends, the reality engine, and the knowledge
// network.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mesh-intelligence/prism/pkg/types"
)

// Exit codes.
const (
	exitSuccess = 0
	exitError   = 1
	exitUsage   = 2
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "prism:", err)
		if errors.Is(err, types.ErrInvalidArgument) {
			os.Exit(exitUsage)
		}
		os.Exit(exitError)
	}
	os.Exit(exitSuccess)
}
