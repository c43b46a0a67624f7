// Package validation provides the rule engine that checks generated job profiles
// against structural and content-quality constraints.
package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/yshishenya/a101-hr-profile-generator-sub002/internal/types"
)

// Score weights; they sum to the maximum quality score of 10
const (
	taskWeight        = 3.0
	softSkillWeight   = 2.0
	regulatoryWeight  = 2.0
	proficiencyWeight = 3.0

	maxQualityScore = taskWeight + softSkillWeight + regulatoryWeight + proficiencyWeight
)

// Validator checks profile documents against a ruleset.
// It holds no per-call state and is safe for concurrent use.
type Validator struct {
	rules         *Ruleset
	fillers       phraseSet
	connectives   phraseSet
	softKeywords  phraseSet
	methodologies phraseSet
	domains       []domainMatcher
}

// Options provides optional parameters for profile validation
type Options struct {
	// Domain bypasses department-based inference when the caller already
	// knows the organizational domain.
	Domain string
}

// New creates a Validator from a ruleset. A nil ruleset uses the built-in tables.
// The ruleset is copied, so later changes to it do not affect the Validator.
func New(rules *Ruleset) *Validator {
	if rules == nil {
		rules = DefaultRuleset()
	} else {
		rules = rules.clone()
	}

	v := &Validator{
		rules:         rules,
		fillers:       newPhraseSet(rules.FillerPhrases),
		connectives:   newPhraseSet(rules.Connectives),
		softKeywords:  newPhraseSet(rules.SoftSkillKeywords),
		methodologies: newPhraseSet(rules.Methodologies),
	}
	for _, rule := range rules.Domains {
		v.domains = append(v.domains, newDomainMatcher(rule))
	}
	return v
}

// Ruleset returns a copy of the ruleset the Validator was built from
func (v *Validator) Ruleset() *Ruleset {
	return v.rules.clone()
}

var defaultValidator = New(nil)

// Default returns the shared Validator built from the built-in tables
func Default() *Validator {
	return defaultValidator
}

// ValidateProfile validates a profile with the built-in tables
func ValidateProfile(profile *types.ProfileDocument, opts *Options) *types.ValidationReport {
	return defaultValidator.ValidateProfile(profile, opts)
}

// ValidateProfile runs every check over the profile and folds the results
// into a scored report. A nil profile is treated as an empty one.
func (v *Validator) ValidateProfile(profile *types.ProfileDocument, opts *Options) *types.ValidationReport {
	if profile == nil {
		profile = &types.ProfileDocument{}
	}
	domainHint := ""
	if opts != nil {
		domainHint = opts.Domain
	}

	var violations []types.Violation

	// 1. Task concreteness, per task
	tasks := types.TaskConcretenessMetrics{Tasks: []types.TaskCheck{}}
	for _, area := range profile.ResponsibilityAreas {
		for _, task := range area.Tasks {
			check := v.CheckTask(task)
			tasks.TotalTasks++
			if check.Valid {
				tasks.ValidTasks++
			}
			tasks.Tasks = append(tasks.Tasks, check)

			for _, issue := range check.Issues {
				violations = append(violations, types.Violation{
					Type:     types.ViolationTaskConcreteness,
					Severity: types.SeverityCritical,
					Details:  fmt.Sprintf("task %q in area %q: %s", task, area.Area, issue),
					Area:     strPtr(area.Area),
					Task:     strPtr(task),
				})
			}
		}
	}
	tasks.ValidRatio = ratio(tasks.ValidTasks, tasks.TotalTasks)

	// 2. Soft-skill methodology, per skill
	skills := types.SoftSkillMetrics{Skills: []types.SkillMethodologyCheck{}}
	for _, skill := range profile.Skills() {
		check := v.CheckSkillMethodology(skill)
		skills.TotalSkills++
		if check.IsSoftSkill {
			skills.SoftSkills++
		}
		if check.Valid {
			skills.ValidSkills++
		}
		skills.Skills = append(skills.Skills, check)

		for _, issue := range check.Issues {
			violations = append(violations, types.Violation{
				Type:      types.ViolationSoftSkillMethodology,
				Severity:  types.SeverityWarning,
				Details:   issue,
				SkillName: strPtr(skill.SkillName),
			})
		}
	}
	skills.ValidRatio = ratio(skills.ValidSkills, skills.TotalSkills)

	// 3. Regulatory frameworks, once per profile
	regulatory := v.CheckRegulatoryFrameworks(profile, domainHint)
	regulatorySeverity := types.SeverityWarning
	if regulatory.Required {
		regulatorySeverity = types.SeverityCritical
	}
	for _, issue := range regulatory.Issues {
		violations = append(violations, types.Violation{
			Type:     types.ViolationRegulatoryFramework,
			Severity: regulatorySeverity,
			Details:  issue,
		})
	}

	// 4. Proficiency levels, once per profile
	proficiency := v.CheckProficiencyLevels(profile)
	violations = append(violations, proficiencyViolations(proficiency)...)

	score := tasks.ValidRatio*taskWeight + skills.ValidRatio*softSkillWeight
	if regulatory.Valid {
		score += regulatoryWeight
	}
	if proficiency.Valid {
		score += proficiencyWeight
	}

	report := &types.ValidationReport{
		QualityScore: roundScore(score),
		Domain:       regulatory.Domain,
		Metrics: types.ReportMetrics{
			TaskConcreteness:     tasks,
			SoftSkillMethodology: skills,
			RegulatoryFrameworks: regulatory,
			ProficiencyLevels:    proficiency,
		},
		Summary:    summarize(violations),
		Violations: violations,
	}
	if report.Violations == nil {
		report.Violations = []types.Violation{}
	}
	report.Valid = len(report.Summary.CriticalIssues) == 0

	return report
}

// proficiencyViolations turns the proficiency check into violations.
// Uniqueness failures are critical; out-of-range levels are warnings.
func proficiencyViolations(check types.ProficiencyCheck) []types.Violation {
	var violations []types.Violation

	if !check.Valid && len(check.Issues) > 0 {
		violations = append(violations, types.Violation{
			Type:     types.ViolationProficiencyLevels,
			Severity: types.SeverityCritical,
			Details:  check.Issues[0],
			Levels:   check.LevelsFound,
		})
		for i, desc := range duplicateGroups(check.DuplicateDescriptions) {
			if i+1 >= len(check.Issues) {
				break
			}
			violations = append(violations, types.Violation{
				Type:     types.ViolationProficiencyLevels,
				Severity: types.SeverityCritical,
				Details:  check.Issues[i+1],
				Levels:   check.DuplicateDescriptions[desc],
			})
		}
	}

	if len(check.OutOfRangeLevels) > 0 {
		violations = append(violations, types.Violation{
			Type:     types.ViolationProficiencyRange,
			Severity: types.SeverityWarning,
			Details: fmt.Sprintf("proficiency levels outside %d..%d: %s",
				minProficiencyLevel, maxProficiencyLevel, joinInts(check.OutOfRangeLevels)),
			Levels: check.OutOfRangeLevels,
		})
	}

	return violations
}

func summarize(violations []types.Violation) types.ReportSummary {
	summary := types.ReportSummary{
		CriticalIssues: []string{},
		Warnings:       []string{},
	}
	for _, v := range violations {
		if v.IsCritical() {
			summary.CriticalIssues = append(summary.CriticalIssues, v.Details)
		} else {
			summary.Warnings = append(summary.Warnings, v.Details)
		}
	}
	summary.TotalIssues = len(summary.CriticalIssues)
	summary.TotalWarnings = len(summary.Warnings)
	return summary
}

// ratio is valid/total, or 1.0 when there is nothing to check
func ratio(valid, total int) float64 {
	if total == 0 {
		return 1.0
	}
	return float64(valid) / float64(total)
}

func roundScore(score float64) float64 {
	score = math.Max(0, math.Min(maxQualityScore, score))
	return math.Round(score*100) / 100
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ", ")
}

func strPtr(s string) *string {
	return &s
}
