package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yshishenya/a101-hr-profile-generator-sub002/internal/observability"
	"github.com/yshishenya/a101-hr-profile-generator-sub002/internal/schemas"
	"github.com/yshishenya/a101-hr-profile-generator-sub002/internal/types"
	"github.com/yshishenya/a101-hr-profile-generator-sub002/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:          "validate",
	Short:        "Validate job profile documents",
	Long:         "Validates one or more job profile JSON files and writes a quality report for each. Exits non-zero when any profile has critical issues.",
	SilenceUsage: true,
	RunE:         runValidate,
}

var (
	validateInputs      []string
	validateDomain      string
	validateOutput      string
	validateVerbose     bool
	validateConcurrency int
)

func init() {
	validateCmd.Flags().StringArrayVarP(&validateInputs, "in", "i", nil, "Path to profile JSON file (repeatable, required)")
	validateCmd.Flags().StringVarP(&validateDomain, "domain", "d", "", "Domain to validate against instead of inferring it from the department")
	validateCmd.Flags().StringVarP(&validateOutput, "out", "o", "", "Path to output report JSON file (default stdout)")
	validateCmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false, "Print a readable summary of each report to stderr")
	validateCmd.Flags().IntVar(&validateConcurrency, "concurrency", 4, "Profiles validated in parallel")

	if err := validateCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

// validateOptions are the inputs of one validate run
type validateOptions struct {
	Inputs      []string
	Domain      string
	RulesPath   string
	Output      string
	Verbose     bool
	Concurrency int
}

// fileReport pairs a report with the file it was produced from
type fileReport struct {
	File   string                  `json:"file"`
	Report *types.ValidationReport `json:"report"`
}

func runValidate(cmd *cobra.Command, _ []string) error {
	return validateFiles(cmd.Context(), validateOptions{
		Inputs:      validateInputs,
		Domain:      validateDomain,
		RulesPath:   rulesPath,
		Output:      validateOutput,
		Verbose:     validateVerbose,
		Concurrency: validateConcurrency,
	}, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// validateFiles validates every input file. A single input writes one report
// object; several inputs write an array of file/report pairs.
func validateFiles(ctx context.Context, opts validateOptions, stdout, stderr io.Writer) error {
	if len(opts.Inputs) == 0 {
		return errors.New("at least one input file is required")
	}

	v, err := loadValidator(opts.RulesPath)
	if err != nil {
		return err
	}
	if opts.Domain != "" && !v.Ruleset().HasDomain(opts.Domain) {
		return fmt.Errorf("unknown domain %q", opts.Domain)
	}

	profiles := make([]*types.ProfileDocument, len(opts.Inputs))
	for i, path := range opts.Inputs {
		profile, err := readProfile(path, stderr)
		if err != nil {
			return err
		}
		profiles[i] = profile
	}

	reports, err := v.ValidateBatch(ctx, profiles, &validation.Options{Domain: opts.Domain}, opts.Concurrency)
	if err != nil {
		return fmt.Errorf("validation aborted: %w", err)
	}

	if opts.Verbose {
		printer := observability.NewPrinter(stderr)
		for i, report := range reports {
			printer.PrintProfile(opts.Inputs[i], profiles[i])
			printer.PrintReport(report)
		}
	}

	var output any = reports[0]
	if len(reports) > 1 {
		pairs := make([]fileReport, len(reports))
		for i, report := range reports {
			pairs[i] = fileReport{File: opts.Inputs[i], Report: report}
		}
		output = pairs
	}

	if opts.Output != "" {
		if err := writeJSONFile(opts.Output, output); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(stdout, "Output: %s\n", opts.Output)
	} else if err := writeJSON(stdout, output); err != nil {
		return err
	}

	invalid := 0
	for _, report := range reports {
		if !report.Valid {
			invalid++
		}
	}
	if invalid > 0 {
		// Return error to indicate critical issues were found (exit code 1)
		return fmt.Errorf("%d of %d profile(s) failed validation", invalid, len(reports))
	}
	return nil
}

// readProfile reads and decodes a profile file. Schema mismatches are reported
// on stderr and do not stop validation.
func readProfile(path string, stderr io.Writer) (*types.ProfileDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("profile file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	if messages := schemas.Messages(schemas.ValidateProfileDocument(content)); len(messages) > 0 {
		_, _ = fmt.Fprintf(stderr, "Warning: %s does not match the profile schema:\n", path)
		for _, msg := range messages {
			_, _ = fmt.Fprintf(stderr, "  - %s\n", msg)
		}
	}

	profile, err := types.ParseProfileDocument(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return profile, nil
}
