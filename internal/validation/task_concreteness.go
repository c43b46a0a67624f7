package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yshishenya/a101-hr-profile-generator-sub002/internal/types"
)

const (
	// minConcreteElements is the number of enumerated items a task must name
	minConcreteElements = 2
	// maxFillerRatio is the exclusive upper bound on filler phrases per word
	maxFillerRatio = 0.15
	// minFragmentLength is the rune length a comma fragment must exceed to count
	minFragmentLength = 2
)

// CheckTask scores a responsibility task for specificity versus filler language
func (v *Validator) CheckTask(task string) types.TaskCheck {
	result := types.TaskCheck{
		Task:   task,
		Issues: []string{},
	}

	result.ConcreteElements = v.countConcreteElements(task)

	lowered := strings.ToLower(task)
	result.FillerPhrases = v.fillers.findIn(lowered)
	result.FillerCount = len(result.FillerPhrases)
	result.WordCount = len(strings.Fields(task))
	result.FillerRatio = float64(result.FillerCount) / float64(max(result.WordCount, 1))

	if result.ConcreteElements < minConcreteElements {
		result.Issues = append(result.Issues,
			fmt.Sprintf("insufficient concrete elements: %d < %d", result.ConcreteElements, minConcreteElements))
	}
	if result.FillerRatio >= maxFillerRatio {
		result.Issues = append(result.Issues,
			fmt.Sprintf("excessive filler ratio: %.1f%% >= %.0f%%", result.FillerRatio*100, maxFillerRatio*100))
	}

	result.Valid = len(result.Issues) == 0
	return result
}

// countConcreteElements counts comma-separated fragments; when there is at most
// one, connectives are counted on top of it. A task with one comma and several
// connectives can be counted twice; this is accepted.
func (v *Validator) countConcreteElements(task string) int {
	count := 0
	for _, fragment := range strings.Split(task, ",") {
		if utf8.RuneCountInString(strings.TrimSpace(fragment)) > minFragmentLength {
			count++
		}
	}

	if count <= 1 {
		count += v.connectives.countOccurrences(task)
	}
	return count
}
