package main

import (
	"os"

	"github.com/bianoble/interoper/cmd/interoper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
