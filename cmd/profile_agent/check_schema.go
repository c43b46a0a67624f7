package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yshishenya/a101-hr-profile-generator-sub002/internal/schemas"
)

var checkSchemaCmd = &cobra.Command{
	Use:          "check-schema",
	Short:        "Check a profile against the JSON Schema",
	Long:         "Validates a profile JSON file against the embedded profile schema, or against a schema file given with --schema. No quality checks are run.",
	SilenceUsage: true,
	RunE:         runCheckSchema,
}

var (
	checkSchemaInput string
	checkSchemaPath  string
)

func init() {
	checkSchemaCmd.Flags().StringVarP(&checkSchemaInput, "in", "i", "", "Path to profile JSON file (required)")
	checkSchemaCmd.Flags().StringVarP(&checkSchemaPath, "schema", "s", "", "Path to a JSON Schema file (default: embedded profile schema)")

	if err := checkSchemaCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(checkSchemaCmd)
}

func runCheckSchema(cmd *cobra.Command, _ []string) error {
	return checkSchema(cmd.OutOrStdout(), checkSchemaInput, checkSchemaPath)
}

func checkSchema(w io.Writer, input, schemaPath string) error {
	var err error
	if schemaPath != "" {
		err = schemas.ValidateJSON(schemaPath, input)
	} else {
		content, readErr := os.ReadFile(input)
		if readErr != nil {
			return fmt.Errorf("failed to read profile file: %w", readErr)
		}
		err = schemas.ValidateProfileDocument(content)
	}

	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		messages := schemas.Messages(err)
		for _, msg := range messages {
			_, _ = fmt.Fprintf(w, "  - %s\n", msg)
		}
		return fmt.Errorf("schema validation failed: %d error(s)", len(messages))
	}
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "Schema validation passed: %s\n", input)
	return nil
}
