package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the effective ruleset",
	Long:  "Prints the built-in tables, merged with the --rules file when given, in the YAML format --rules accepts.",
	Args:  cobra.NoArgs,
	RunE:  runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, _ []string) error {
	return printRules(cmd.OutOrStdout(), rulesPath)
}

func printRules(w io.Writer, rules string) error {
	v, err := loadValidator(rules)
	if err != nil {
		return err
	}
	out, err := v.Ruleset().YAML()
	if err != nil {
		return fmt.Errorf("failed to render ruleset: %w", err)
	}
	_, err = w.Write(out)
	return err
}
