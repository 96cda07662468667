package main

import (
	"os"

	"github.com/rustyeddy/tradematch/cmd/tradematch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
