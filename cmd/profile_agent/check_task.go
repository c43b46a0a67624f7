package main

import (
	"io"

	"github.com/spf13/cobra"
)

var checkTaskCmd = &cobra.Command{
	Use:   "check-task <task>",
	Short: "Check a single task for concreteness",
	Long:  "Counts the concrete elements and filler phrases of one responsibility task and prints the result as JSON.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheckTask,
}

func init() {
	rootCmd.AddCommand(checkTaskCmd)
}

func runCheckTask(cmd *cobra.Command, args []string) error {
	return checkTask(cmd.OutOrStdout(), rulesPath, args[0])
}

func checkTask(w io.Writer, rules, task string) error {
	v, err := loadValidator(rules)
	if err != nil {
		return err
	}
	return writeJSON(w, v.CheckTask(task))
}
