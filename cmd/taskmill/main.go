// Package main is the entry point for the taskmill CLI.
package main

import (
	"os"

	"github.com/millworks/taskmill/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
