package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		bad.Fprintf(os.Stderr, "topograph: %v\n", err)
		os.Exit(1)
	}
}
