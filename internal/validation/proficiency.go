package validation

import (
	"fmt"
	"sort"

	"github.com/yshishenya/a101-hr-profile-generator-sub002/internal/types"
)

const (
	minProficiencyLevel = 1
	maxProficiencyLevel = 4
)

// CheckProficiencyLevels verifies that distinct proficiency levels carry
// distinct descriptions. Only the first description seen for a level is
// considered.
func (v *Validator) CheckProficiencyLevels(profile *types.ProfileDocument) types.ProficiencyCheck {
	result := types.ProficiencyCheck{
		LevelsFound:           []int{},
		DuplicateDescriptions: map[string][]int{},
		Issues:                []string{},
	}

	descriptions := make(map[int]string)
	for _, skill := range profile.Skills() {
		level := int(skill.ProficiencyLevel)
		if _, seen := descriptions[level]; seen {
			continue
		}
		descriptions[level] = skill.ProficiencyDescription
		result.LevelsFound = append(result.LevelsFound, level)
	}
	sort.Ints(result.LevelsFound)

	levelsByDescription := make(map[string][]int)
	for _, level := range result.LevelsFound {
		desc := descriptions[level]
		levelsByDescription[desc] = append(levelsByDescription[desc], level)

		if level < minProficiencyLevel || level > maxProficiencyLevel {
			result.OutOfRangeLevels = append(result.OutOfRangeLevels, level)
		}
	}

	result.ShouldBeUnique = len(result.LevelsFound)
	result.UniqueDescriptions = len(levelsByDescription)

	for desc, levels := range levelsByDescription {
		if len(levels) > 1 {
			result.DuplicateDescriptions[desc] = levels
		}
	}

	if result.UniqueDescriptions != result.ShouldBeUnique {
		result.Issues = append(result.Issues, fmt.Sprintf(
			"proficiency descriptions are not unique: %d unique descriptions for %d levels",
			result.UniqueDescriptions, result.ShouldBeUnique))
		for _, desc := range duplicateGroups(result.DuplicateDescriptions) {
			result.Issues = append(result.Issues, fmt.Sprintf(
				"levels %v share the same description: %q", result.DuplicateDescriptions[desc], desc))
		}
	}

	result.Valid = result.UniqueDescriptions == result.ShouldBeUnique
	return result
}

// duplicateGroups orders duplicated descriptions by their lowest level
func duplicateGroups(duplicates map[string][]int) []string {
	groups := make([]string, 0, len(duplicates))
	for desc := range duplicates {
		groups = append(groups, desc)
	}
	sort.Slice(groups, func(i, j int) bool {
		return duplicates[groups[i]][0] < duplicates[groups[j]][0]
	})
	return groups
}
