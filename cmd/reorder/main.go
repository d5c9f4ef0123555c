package main

import (
	"os"

	"github.com/katrinawoods/rsc2/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
