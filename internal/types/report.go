// Package types provides type definitions for structured data used throughout the profile validator.
//
//nolint:revive // types is a standard Go package name pattern
package types

// TaskCheck is the result of checking one responsibility task for concreteness
type TaskCheck struct {
	Task             string   `json:"task"`
	Valid            bool     `json:"valid"`
	ConcreteElements int      `json:"concrete_elements"`
	FillerCount      int      `json:"filler_count"`
	WordCount        int      `json:"word_count"`
	FillerRatio      float64  `json:"filler_ratio"`
	FillerPhrases    []string `json:"filler_phrases,omitempty"`
	Issues           []string `json:"issues"`
}

// SkillMethodologyCheck is the result of checking one skill for a named methodology
type SkillMethodologyCheck struct {
	SkillName          string   `json:"skill_name"`
	Valid              bool     `json:"valid"`
	IsSoftSkill        bool     `json:"is_soft_skill"`
	HasMethodology     bool     `json:"has_methodology"`
	FoundMethodologies []string `json:"found_methodologies"`
	Issues             []string `json:"issues"`
}

// RegulatoryCheck is the result of checking a profile for domain frameworks
type RegulatoryCheck struct {
	Valid              bool     `json:"valid"`
	Domain             string   `json:"domain"`
	Required           bool     `json:"required"`
	HasFramework       bool     `json:"has_framework"`
	FoundFrameworks    []string `json:"found_frameworks"`
	ExpectedFrameworks []string `json:"expected_frameworks"`
	Issues             []string `json:"issues"`
}

// ProficiencyCheck is the result of checking proficiency-level descriptions for uniqueness
type ProficiencyCheck struct {
	Valid                 bool             `json:"valid"`
	LevelsFound           []int            `json:"levels_found"`
	UniqueDescriptions    int              `json:"unique_descriptions"`
	ShouldBeUnique        int              `json:"should_be_unique"`
	DuplicateDescriptions map[string][]int `json:"duplicate_descriptions"`
	OutOfRangeLevels      []int            `json:"out_of_range_levels,omitempty"`
	Issues                []string         `json:"issues"`
}

// TaskConcretenessMetrics aggregates task checks over a profile
type TaskConcretenessMetrics struct {
	TotalTasks int         `json:"total_tasks"`
	ValidTasks int         `json:"valid_tasks"`
	ValidRatio float64     `json:"valid_ratio"`
	Tasks      []TaskCheck `json:"tasks"`
}

// SoftSkillMetrics aggregates skill methodology checks over a profile
type SoftSkillMetrics struct {
	TotalSkills int                     `json:"total_skills"`
	SoftSkills  int                     `json:"soft_skills"`
	ValidSkills int                     `json:"valid_skills"`
	ValidRatio  float64                 `json:"valid_ratio"`
	Skills      []SkillMethodologyCheck `json:"skills"`
}

// ReportMetrics holds the four sub-metrics of a report
type ReportMetrics struct {
	TaskConcreteness     TaskConcretenessMetrics `json:"task_concreteness"`
	SoftSkillMethodology SoftSkillMetrics        `json:"soft_skill_methodology"`
	RegulatoryFrameworks RegulatoryCheck         `json:"regulatory_frameworks"`
	ProficiencyLevels    ProficiencyCheck        `json:"proficiency_levels"`
}

// ReportSummary lists the findings of a report by severity
type ReportSummary struct {
	TotalIssues    int      `json:"total_issues"`
	TotalWarnings  int      `json:"total_warnings"`
	CriticalIssues []string `json:"critical_issues"`
	Warnings       []string `json:"warnings"`
}

// ValidationReport is the outcome of validating one profile document
type ValidationReport struct {
	Valid        bool          `json:"valid"`
	QualityScore float64       `json:"quality_score"`
	Domain       string        `json:"domain"`
	Metrics      ReportMetrics `json:"metrics"`
	Summary      ReportSummary `json:"summary"`
	Violations   []Violation   `json:"violations"`
}
