package main

import (
	"fmt"
	"os"

	"github.com/spherical/textbook-extractor/cmd/textbook-extractor/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
