// Package main provides the cnnarch CLI, which builds convolutional
// classifiers from YAML model files and inspects them.
package main

import (
	"os"
)

func main() {
	if err := NewCLI().Execute(); err != nil {
		os.Exit(1)
	}
}
