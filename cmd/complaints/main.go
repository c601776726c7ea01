package main

import (
	"fmt"
	"os"

	"github.com/tsawler/complaints/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "complaints: %v\n", err)
		os.Exit(1)
	}
}
