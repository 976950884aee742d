package main

import (
	"os"

	"github.com/harper/simscan/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
