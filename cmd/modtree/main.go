package main

import (
	"os"

	"github.com/viant/modtree/cmd/modtree/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
