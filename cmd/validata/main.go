// Package main is the entry point for the validata CLI.
package main

import (
	"os"

	"github.com/validata-io/validata/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
