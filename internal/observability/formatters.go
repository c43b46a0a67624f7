// Package observability provides logging, metrics and formatted output for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/yshishenya/a101-hr-profile-generator-sub002/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// PrintProfile outputs a short summary of the profile being validated.
func (p *Printer) PrintProfile(source string, profile *types.ProfileDocument) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	if source != "" {
		sb.WriteString(fmt.Sprintf("Source:      %s\n", source))
	}
	sb.WriteString(fmt.Sprintf("Department:  %s\n", profile.Department))
	sb.WriteString(fmt.Sprintf("Areas:       %d\n", len(profile.ResponsibilityAreas)))
	sb.WriteString(fmt.Sprintf("Tasks:       %d\n", profile.TaskCount()))
	sb.WriteString(fmt.Sprintf("Skills:      %d", len(profile.Skills())))

	if keys := profile.ExtraKeys(); len(keys) > 0 {
		sb.WriteString(fmt.Sprintf("\nOther keys:  %s", strings.Join(keys, ", ")))
	}

	p.printBox("PROFILE", sb.String())
}

// PrintReport outputs the score, per-check metrics and findings of a report.
func (p *Printer) PrintReport(report *types.ValidationReport) {
	if report == nil {
		return
	}

	status := "✅ VALID"
	if !report.Valid {
		status = "❌ INVALID"
	}

	m := report.Metrics
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s  score %.2f / 10  domain %s\n\n", status, report.QualityScore, report.Domain))
	sb.WriteString(fmt.Sprintf("Tasks:        %d/%d concrete (%.0f%%)\n",
		m.TaskConcreteness.ValidTasks, m.TaskConcreteness.TotalTasks, m.TaskConcreteness.ValidRatio*100))
	sb.WriteString(fmt.Sprintf("Soft skills:  %d/%d valid, %d soft\n",
		m.SoftSkillMethodology.ValidSkills, m.SoftSkillMethodology.TotalSkills, m.SoftSkillMethodology.SoftSkills))

	regulatory := "not required"
	if m.RegulatoryFrameworks.Required {
		regulatory = "missing"
		if m.RegulatoryFrameworks.HasFramework {
			regulatory = strings.Join(m.RegulatoryFrameworks.FoundFrameworks, ", ")
		}
	}
	sb.WriteString(fmt.Sprintf("Regulatory:   %s\n", regulatory))
	sb.WriteString(fmt.Sprintf("Proficiency:  %d unique / %d levels",
		m.ProficiencyLevels.UniqueDescriptions, m.ProficiencyLevels.ShouldBeUnique))

	p.printBox("VALIDATION REPORT", sb.String())
	p.PrintTaskChecks(m.TaskConcreteness.Tasks)
	p.PrintViolations(&types.Violations{Violations: report.Violations})
}

// PrintTaskChecks outputs the tasks that failed the concreteness check.
func (p *Printer) PrintTaskChecks(checks []types.TaskCheck) {
	var failed []types.TaskCheck
	for _, c := range checks {
		if !c.Valid {
			failed = append(failed, c)
		}
	}
	if len(failed) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d of %d tasks need rework:\n\n", len(failed), len(checks)))

	count := min(len(failed), maxItemsToShow)
	for i := 0; i < count; i++ {
		c := failed[i]
		sb.WriteString(fmt.Sprintf("• %s\n", truncate(c.Task, 50)))
		sb.WriteString(fmt.Sprintf("  elements %d, filler %.0f%%", c.ConcreteElements, c.FillerRatio*100))
		if len(c.FillerPhrases) > 0 {
			sb.WriteString(fmt.Sprintf(" [%s]", strings.Join(c.FillerPhrases, ", ")))
		}
		if i < count-1 {
			sb.WriteString("\n\n")
		}
	}

	if len(failed) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n\n... and %d more tasks", len(failed)-maxItemsToShow))
	}

	p.printBox("WEAK TASKS", sb.String())
}

// PrintViolations outputs any violations found.
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) PrintViolations(violations *types.Violations) {
	if violations == nil || len(violations.Violations) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO VIOLATIONS FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d violations (%d critical):\n\n",
		len(violations.Violations), len(violations.Critical())))

	for i, v := range violations.Violations {
		marker := "⚠"
		if v.IsCritical() {
			marker = "✖"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", marker, v.Type))
		sb.WriteString(fmt.Sprintf("  %s", truncate(v.Details, 50)))
		if i < len(violations.Violations)-1 {
			sb.WriteString("\n\n")
		}
	}

	p.printBox("VIOLATIONS", sb.String())
}
