package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Optional .env next to the binary; real environment variables win.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
