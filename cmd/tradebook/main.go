package main

import (
	"os"

	"github.com/tradebook-dev/tradebook/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
