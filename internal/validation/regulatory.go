package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yshishenya/a101-hr-profile-generator-sub002/internal/types"
)

// domainMatcher is a compiled DomainRule
type domainMatcher struct {
	name       string
	stems      phraseSet
	words      map[string]bool
	frameworks phraseSet
}

func newDomainMatcher(rule DomainRule) domainMatcher {
	m := domainMatcher{
		name:       rule.Domain,
		stems:      newPhraseSet(rule.Stems),
		words:      make(map[string]bool, len(rule.Words)),
		frameworks: newPhraseSet(rule.Frameworks),
	}
	for _, w := range rule.Words {
		m.words[strings.ToLower(strings.TrimSpace(w))] = true
	}
	return m
}

func (m domainMatcher) matches(lowered string, tokens []string) bool {
	if m.stems.containsAny(lowered) {
		return true
	}
	for _, token := range tokens {
		if m.words[token] {
			return true
		}
	}
	return false
}

// InferDomain maps a department name to a domain. Domains are tried in
// priority order and the first match wins; "unknown" is returned when nothing
// matches.
func (v *Validator) InferDomain(department string) string {
	lowered := strings.ToLower(department)
	tokens := words(lowered)

	for _, m := range v.domains {
		if m.matches(lowered, tokens) {
			return m.name
		}
	}
	return DomainUnknown
}

// ExpectedFrameworks returns the frameworks required for a domain.
// Unknown domains expect none.
func (v *Validator) ExpectedFrameworks(domain string) []string {
	domain = normalizeDomain(domain)
	for _, m := range v.domains {
		if m.name == domain {
			return slices.Clone(m.frameworks.original)
		}
	}
	return []string{}
}

// CheckRegulatoryFrameworks verifies that a profile references at least one
// regulatory framework expected for its domain. An empty domainHint means the
// domain is inferred from the department. The whole document is scanned since
// framework names legitimately appear in tasks as well as skills.
func (v *Validator) CheckRegulatoryFrameworks(profile *types.ProfileDocument, domainHint string) types.RegulatoryCheck {
	domain := normalizeDomain(domainHint)
	if domain == "" {
		department := ""
		if profile != nil {
			department = profile.Department
		}
		domain = v.InferDomain(department)
	}

	result := types.RegulatoryCheck{
		Domain:             domain,
		ExpectedFrameworks: v.ExpectedFrameworks(domain),
		FoundFrameworks:    []string{},
		Issues:             []string{},
	}
	result.Required = len(result.ExpectedFrameworks) > 0

	if result.Required {
		text := strings.ToLower(profileText(profile))
		for _, m := range v.domains {
			if m.name == domain {
				if found := m.frameworks.findIn(text); found != nil {
					result.FoundFrameworks = found
				}
				break
			}
		}
	}
	result.HasFramework = len(result.FoundFrameworks) > 0

	if result.Required && !result.HasFramework {
		result.Issues = append(result.Issues, fmt.Sprintf(
			"no regulatory framework referenced for domain %s (expected one of: %s)",
			domain, strings.Join(result.ExpectedFrameworks, ", ")))
	}

	result.Valid = !result.Required || result.HasFramework
	return result
}

// profileText serializes the whole document, falling back to the typed fields
// when the preserved extra fields cannot be encoded.
func profileText(profile *types.ProfileDocument) string {
	if profile == nil {
		return ""
	}
	if data, err := profile.MarshalJSON(); err == nil {
		return string(data)
	}

	var sb strings.Builder
	sb.WriteString(profile.Department)
	for _, area := range profile.ResponsibilityAreas {
		sb.WriteString("\n" + area.Area)
		for _, task := range area.Tasks {
			sb.WriteString("\n" + task)
		}
	}
	for _, category := range profile.ProfessionalSkills {
		sb.WriteString("\n" + category.SkillCategory)
		for _, skill := range category.SpecificSkills {
			sb.WriteString("\n" + skill.SkillName + "\n" + skill.ProficiencyDescription)
		}
	}
	return sb.String()
}
