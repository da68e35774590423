// Package main is the entry point for the relink CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/relink/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
