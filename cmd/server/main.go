package main

import (
	"os"

	"github.com/vytor/mathcat/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
