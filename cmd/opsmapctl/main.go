// Package main is the entry point for the opsmapctl CLI tool.
package main

import (
	"os"

	"github.com/kailas-cloud/opsmap/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
