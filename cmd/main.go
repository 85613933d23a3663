package main

import (
	"fmt"
	"os"

	"github.com/ncobase/remind/cmd/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "remind:", err)
		os.Exit(1)
	}
}
