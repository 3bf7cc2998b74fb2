// Package main is the entry point for the webauthctl command-line tool.
package main

import (
	"fmt"
	"os"

	"github.com/webauthkit/webauth/cmd/webauthctl/app"
)

func main() {
	if err := app.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
