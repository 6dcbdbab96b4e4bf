package main

import (
	"os"

	"github.com/autobitstack/orchestrator-svc/internal/cli"
)

func main() {
	if !cli.Run(os.Args) {
		os.Exit(1)
	}
}
