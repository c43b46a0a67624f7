package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/yshishenya/a101-hr-profile-generator-sub002/internal/types"
)

var inferDomainCmd = &cobra.Command{
	Use:   "infer-domain <department>",
	Short: "Infer the domain of a department",
	Long:  "Prints the domain inferred from a department name together with the regulatory frameworks that domain expects.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInferDomain,
}

func init() {
	rootCmd.AddCommand(inferDomainCmd)
}

func runInferDomain(cmd *cobra.Command, args []string) error {
	return inferDomain(cmd.OutOrStdout(), rulesPath, args[0])
}

func inferDomain(w io.Writer, rules, department string) error {
	v, err := loadValidator(rules)
	if err != nil {
		return err
	}
	domain := v.InferDomain(department)
	return writeJSON(w, types.DomainInfo{
		Domain:             domain,
		ExpectedFrameworks: v.ExpectedFrameworks(domain),
	})
}
