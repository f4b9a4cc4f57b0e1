package main

import (
	"os"

	"github.com/goliatone/go-formfate/cmd/formfate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
