// Package main provides the entry point for the Brandscope visibility analyzer.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "brandscope",
	Short: "Brand visibility analyzer for AI search",
	Long:  "Brandscope measures how visibly a brand appears in AI-generated search answers, scores it against competitors, and ranks share of voice across backends.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
