package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// A local .env is optional; CI supplies env vars directly.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
