package main

import (
	"os"

	"github.com/nacara/nacara/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
