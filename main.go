package main

import (
	"os"

	"github.com/Prthmsh0210/hire-nerd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
