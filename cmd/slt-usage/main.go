package main

import (
	"os"

	"github.com/anomredux/slt-usage/cmd/slt-usage/commands"
)

// version is set via ldflags at release time.
var version = "dev"

func main() {
	if err := commands.Execute(version); err != nil {
		os.Exit(1)
	}
}
