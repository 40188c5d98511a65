// Package main provides the tablegraph CLI.
package main

import (
	"os"

	"github.com/tablegraph/tablegraph/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
