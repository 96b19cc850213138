package main

import (
	"os"

	"scenic/cmd/scenic/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
