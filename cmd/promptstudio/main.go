package main

import (
	"fmt"
	"os"

	"promptstudio-workers/cmd/promptstudio/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
