package main

import (
	"os"

	"github.com/CuriousNebula/Math-Master/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
