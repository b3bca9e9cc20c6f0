package main

import (
	"os"

	"github.com/ericfisherdev/prfeed/cmd/prfeed/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
