package types

// Severity of a validation finding
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
)

// Violation types, one per check
const (
	ViolationTaskConcreteness     = "task_concreteness"
	ViolationSoftSkillMethodology = "soft_skill_methodology"
	ViolationRegulatoryFramework  = "regulatory_framework"
	ViolationProficiencyLevels    = "proficiency_levels"
	ViolationProficiencyRange     = "proficiency_range"
)

// Violation represents a single validation finding
type Violation struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Details  string `json:"details"`

	// Fields locating the finding inside the profile document
	Area      *string `json:"area,omitempty"`       // Responsibility area of the task
	Task      *string `json:"task,omitempty"`       // Task text
	SkillName *string `json:"skill_name,omitempty"` // Skill that caused this
	Levels    []int   `json:"levels,omitempty"`     // Proficiency levels involved
}

// IsCritical reports whether the violation blocks the profile
func (v Violation) IsCritical() bool {
	return v.Severity == SeverityCritical
}

// Violations represents a collection of validation findings
type Violations struct {
	Violations []Violation `json:"violations"`
}

// Critical returns only the critical violations
func (vs *Violations) Critical() []Violation {
	return vs.filter(SeverityCritical)
}

// Warnings returns only the warning violations
func (vs *Violations) Warnings() []Violation {
	return vs.filter(SeverityWarning)
}

func (vs *Violations) filter(severity string) []Violation {
	if vs == nil {
		return nil
	}
	var result []Violation
	for _, v := range vs.Violations {
		if v.Severity == severity {
			result = append(result, v)
		}
	}
	return result
}
