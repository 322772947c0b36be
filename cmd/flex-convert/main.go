// Package main is the entry point for the flex-convert CLI.
package main

import (
	"os"

	"github.com/pigeonworks-llc/flex-convert/cmd/flex-convert/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
