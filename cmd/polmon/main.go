package main

import (
	"os"

	"github.com/yairfalse/polmon/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
