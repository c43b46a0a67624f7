package validation

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// DomainUnknown is the domain inferred when no keyword matches. It never
// requires a regulatory framework.
const DomainUnknown = "unknown"

// Built-in domains, in inference priority order
const (
	DomainFinance      = "finance"
	DomainHR           = "hr"
	DomainLegal        = "legal"
	DomainConstruction = "construction"
	DomainIT           = "it"
)

// Filler phrases typical of bureaucratic task wording
var fillerPhrases = []string{
	"в соответствии с",
	"обеспечение соблюдения",
	"подготовка к исполнению",
	"выполнение работ по",
	"осуществление деятельности",
	"обеспечение выполнения",
	"in accordance with",
	"ensuring compliance with",
	"ensure compliance with",
	"preparation of the execution of",
	"performance of work on",
	"conducting of activities",
	"ensuring the execution of",
}

// Connectives counted when a task enumerates items without commas
var connectives = []string{" и ", " или ", ": "}

// Stems marking a skill as interpersonal
var softSkillKeywords = []string{
	"коучинг", "лидерств", "коммуникац", "переговор", "влияни",
	"управление изменениями", "стейкхолдер", "команд", "презентац", "обучени",
	"coaching", "leadership", "communicat", "negotiat", "influenc",
	"change management", "stakeholder", "team", "presentation", "training",
}

// Named methodologies and generic method tokens
var methodologies = []string{
	"GROW", "CLEAR", "SBI", "BATNA", "Kotter", "ADKAR", "RACI", "SCARF", "Cialdini", "Win-Win",
	"framework", "model", "method", "approach", "technique",
	"фреймворк", "модел", "метод", "подход", "техник",
}

// DomainRule maps department keywords to a domain and the regulatory
// frameworks a profile in that domain is expected to reference.
type DomainRule struct {
	Domain     string   `yaml:"domain" json:"domain"`
	Stems      []string `yaml:"stems,omitempty" json:"stems,omitempty"`
	Words      []string `yaml:"words,omitempty" json:"words,omitempty"`
	Frameworks []string `yaml:"frameworks,omitempty" json:"frameworks"`
}

// Stems match as substrings; Words match whole tokens only ("it" must not match "security").
var domainRules = []DomainRule{
	{
		Domain:     DomainFinance,
		Stems:      []string{"финанс", "бухгалтер", "казначей", "налог", "экономическ", "financ", "accounting", "treasury"},
		Words:      []string{"tax"},
		Frameworks: []string{"МСФО", "IFRS", "РСБУ", "GAAP", "НК РФ", "Налоговый кодекс", "Tax Code"},
	},
	{
		Domain:     DomainHR,
		Stems:      []string{"персонал", "кадр", "подбор", "human resources", "talent", "recruit"},
		Words:      []string{"hr"},
		Frameworks: []string{"ТК РФ", "Трудовой кодекс", "Labor Code", "Labour Code", "152-ФЗ", "персональных данных", "GDPR", "Data Protection"},
	},
	{
		Domain:     DomainLegal,
		Stems:      []string{"юрид", "юрист", "правов", "legal"},
		Words:      []string{"law"},
		Frameworks: []string{"ГК РФ", "Гражданский кодекс", "Civil Code"},
	},
	{
		Domain:     DomainConstruction,
		Stems:      []string{"строител", "строительн", "архитектур", "проектирован", "construction", "architect", "building"},
		Frameworks: []string{"СНиП", "ГОСТ", "Градостроительный кодекс", "Building Code", "Eurocode"},
	},
	{
		Domain:     DomainIT,
		Stems:      []string{"информационн", "цифров", "разработк", "software", "digital"},
		Words:      []string{"it", "ит", "ict", "devops"},
		Frameworks: []string{"REST", "microservice", "микросервис", "OWASP", "ISO 27001", "ISO/IEC 27001", "SOLID", "TOGAF", "ITIL"},
	},
}

// Ruleset holds the reference tables the checkers match against.
// A Ruleset is not modified once a Validator has been built from it.
type Ruleset struct {
	FillerPhrases     []string     `yaml:"filler_phrases"`
	Connectives       []string     `yaml:"connectives"`
	SoftSkillKeywords []string     `yaml:"soft_skill_keywords"`
	Methodologies     []string     `yaml:"methodologies"`
	Domains           []DomainRule `yaml:"domains"`
}

// DefaultRuleset returns a fresh copy of the built-in tables
func DefaultRuleset() *Ruleset {
	builtin := Ruleset{
		FillerPhrases:     fillerPhrases,
		Connectives:       connectives,
		SoftSkillKeywords: softSkillKeywords,
		Methodologies:     methodologies,
		Domains:           domainRules,
	}
	return builtin.clone()
}

// LoadRuleset reads a YAML ruleset file and appends its entries to the
// built-in tables. Frameworks and keywords for an existing domain extend that
// domain; new domains are matched after the built-in ones.
func LoadRuleset(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileReadError{
			Message: fmt.Sprintf("failed to read ruleset file: %s", path),
			Cause:   err,
		}
	}
	return ParseRuleset(data)
}

// ParseRuleset parses YAML ruleset content and merges it into the defaults
func ParseRuleset(data []byte) (*Ruleset, error) {
	var ext Ruleset
	if err := yaml.Unmarshal(data, &ext); err != nil {
		return nil, &RulesetError{Message: "failed to parse ruleset YAML", Cause: err}
	}

	rs := DefaultRuleset()
	if err := rs.Extend(&ext); err != nil {
		return nil, err
	}
	return rs, nil
}

// Extend appends the entries of ext to the ruleset
func (rs *Ruleset) Extend(ext *Ruleset) error {
	if ext == nil {
		return nil
	}

	rs.FillerPhrases = appendUnique(rs.FillerPhrases, ext.FillerPhrases...)
	rs.Connectives = appendUnique(rs.Connectives, ext.Connectives...)
	rs.SoftSkillKeywords = appendUnique(rs.SoftSkillKeywords, ext.SoftSkillKeywords...)
	rs.Methodologies = appendUnique(rs.Methodologies, ext.Methodologies...)

	for _, rule := range ext.Domains {
		name := normalizeDomain(rule.Domain)
		if name == "" {
			return &RulesetError{Message: "domain rule without a domain name"}
		}
		if name == DomainUnknown {
			return &RulesetError{Message: fmt.Sprintf("domain %q is reserved", DomainUnknown)}
		}

		if existing := rs.domain(name); existing != nil {
			existing.Stems = appendUnique(existing.Stems, rule.Stems...)
			existing.Words = appendUnique(existing.Words, rule.Words...)
			existing.Frameworks = appendUnique(existing.Frameworks, rule.Frameworks...)
			continue
		}

		added := rule.clone()
		added.Domain = name
		rs.Domains = append(rs.Domains, added)
	}
	return nil
}

// DomainNames returns the domain names in inference priority order
func (rs *Ruleset) DomainNames() []string {
	names := make([]string, 0, len(rs.Domains))
	for _, rule := range rs.Domains {
		names = append(names, rule.Domain)
	}
	return names
}

// HasDomain reports whether name is a configured domain or "unknown"
func (rs *Ruleset) HasDomain(name string) bool {
	name = normalizeDomain(name)
	return name == DomainUnknown || rs.domain(name) != nil
}

// YAML renders the ruleset in the same format LoadRuleset reads
func (rs *Ruleset) YAML() ([]byte, error) {
	return yaml.Marshal(rs)
}

func (rs *Ruleset) clone() *Ruleset {
	c := &Ruleset{
		FillerPhrases:     slices.Clone(rs.FillerPhrases),
		Connectives:       slices.Clone(rs.Connectives),
		SoftSkillKeywords: slices.Clone(rs.SoftSkillKeywords),
		Methodologies:     slices.Clone(rs.Methodologies),
		Domains:           make([]DomainRule, 0, len(rs.Domains)),
	}
	for _, rule := range rs.Domains {
		c.Domains = append(c.Domains, rule.clone())
	}
	return c
}

func (rs *Ruleset) domain(name string) *DomainRule {
	for i := range rs.Domains {
		if rs.Domains[i].Domain == name {
			return &rs.Domains[i]
		}
	}
	return nil
}

func (r DomainRule) clone() DomainRule {
	return DomainRule{
		Domain:     r.Domain,
		Stems:      slices.Clone(r.Stems),
		Words:      slices.Clone(r.Words),
		Frameworks: slices.Clone(r.Frameworks),
	}
}

func normalizeDomain(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// appendUnique appends values that are not already present (case-insensitive)
func appendUnique(list []string, values ...string) []string {
	seen := make(map[string]bool, len(list))
	for _, v := range list {
		seen[strings.ToLower(v)] = true
	}
	for _, v := range values {
		key := strings.ToLower(v)
		if strings.TrimSpace(v) == "" || seen[key] {
			continue
		}
		seen[key] = true
		list = append(list, v)
	}
	return list
}
