package validation

import (
	"fmt"
	"strings"

	"github.com/yshishenya/a101-hr-profile-generator-sub002/internal/types"
)

// CheckSkillMethodology verifies that a soft skill cites a named methodology.
// Technical skills always pass.
func (v *Validator) CheckSkillMethodology(skill types.Skill) types.SkillMethodologyCheck {
	text := strings.ToLower(skill.SkillName + " " + skill.ProficiencyDescription)

	result := types.SkillMethodologyCheck{
		SkillName:          skill.SkillName,
		IsSoftSkill:        v.softKeywords.containsAny(text),
		FoundMethodologies: v.methodologies.findIn(text),
		Issues:             []string{},
	}
	if result.FoundMethodologies == nil {
		result.FoundMethodologies = []string{}
	}
	result.HasMethodology = len(result.FoundMethodologies) > 0

	if result.IsSoftSkill && !result.HasMethodology {
		result.Issues = append(result.Issues, fmt.Sprintf("soft skill without methodology: %s", skill.SkillName))
	}

	result.Valid = !result.IsSoftSkill || result.HasMethodology
	return result
}
