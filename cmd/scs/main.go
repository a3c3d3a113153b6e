package main

import (
	"os"

	"github.com/confware/schedsync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
