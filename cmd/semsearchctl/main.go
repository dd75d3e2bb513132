package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"

	"github.com/kailas-cloud/semsearch/internal/version"
)

func main() {
	_ = godotenv.Load()

	rootCmd := NewRootCmd(version.Version)
	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		os.Exit(1)
	}
}
