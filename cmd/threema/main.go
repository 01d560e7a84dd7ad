package main

import (
	"os"

	"github.com/bluec0re/threema-go/cmd/threema/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
