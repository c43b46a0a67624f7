// Package main provides the profile_agent CLI and HTTP server for job-profile validation.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rulesPath string

var rootCmd = &cobra.Command{
	Use:   "profile_agent",
	Short: "Job profile quality validator",
	Long:  "profile_agent checks generated job profiles for concrete tasks, soft-skill methodologies, domain regulatory frameworks and distinct proficiency levels.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "Path to a YAML ruleset extending the built-in tables")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
