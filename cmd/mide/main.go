package main

import (
	"os"

	"github.com/msto63/mIDE/cmd/mide/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
