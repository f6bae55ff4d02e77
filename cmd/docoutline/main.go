package main

import (
	"fmt"
	"os"

	"github.com/dgallion1/docoutline/internal/cli"
	"github.com/joho/godotenv"
)

var version = "dev"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
