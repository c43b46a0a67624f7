package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/yshishenya/a101-hr-profile-generator-sub002/internal/validation"
)

// loadValidator builds a Validator from the built-in tables, extended by the
// ruleset file at path when one is given.
func loadValidator(path string) (*validation.Validator, error) {
	if path == "" {
		return validation.Default(), nil
	}
	rules, err := validation.LoadRuleset(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load ruleset: %w", err)
	}
	return validation.New(rules), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeJSONFile writes v as indented JSON, creating the parent directory
func writeJSONFile(path string, v any) error {
	outputDir := filepath.Dir(path)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	return writeAndClose(f, v)
}

// writeAndClose writes v as JSON and closes wc, reporting the first error of either
func writeAndClose(wc io.WriteCloser, v any) (err error) {
	defer func() {
		if closeErr := wc.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", closeErr)
		}
	}()

	return writeJSON(wc, v)
}
