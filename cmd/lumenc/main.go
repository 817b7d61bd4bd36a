package main

import (
	"os"

	"github.com/lumen-lang/lumenc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
