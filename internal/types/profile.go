// Package types provides type definitions for structured data used throughout the profile validator.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Field names of the generated job-profile document. They are owned by the
// generation subsystem and must not be renamed here.
const (
	fieldDepartment          = "department"
	fieldResponsibilityAreas = "responsibilityAreas"
	fieldProfessionalSkills  = "professionalSkills"
)

// ProfileDocument is a generated job profile. Only the fields the validator reads
// are typed; everything else in the document is kept in Extra so the whole
// document can be re-serialized.
type ProfileDocument struct {
	Department          string               `json:"department"`
	ResponsibilityAreas []ResponsibilityArea `json:"responsibilityAreas"`
	ProfessionalSkills  []SkillCategory      `json:"professionalSkills"`

	Extra map[string]json.RawMessage `json:"-"`
}

// ResponsibilityArea groups the tasks of one area of responsibility
type ResponsibilityArea struct {
	Area  string   `json:"area"`
	Tasks []string `json:"tasks"`
}

// SkillCategory groups skills under a category heading
type SkillCategory struct {
	SkillCategory  string  `json:"skillCategory"`
	SpecificSkills []Skill `json:"specificSkills"`
}

// Skill is a single professional skill with its proficiency level (1..4)
type Skill struct {
	SkillName              string           `json:"skillName"`
	ProficiencyLevel       ProficiencyLevel `json:"proficiencyLevel"`
	ProficiencyDescription string           `json:"proficiencyDescription"`
}

// ProficiencyLevel accepts either a JSON number or a numeric string.
// Anything else decodes as 0.
type ProficiencyLevel int

// UnmarshalJSON implements json.Unmarshaler
func (l *ProficiencyLevel) UnmarshalJSON(data []byte) error {
	*l = 0

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*l = ProficiencyLevel(int(n))
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			*l = ProficiencyLevel(v)
		}
	}
	return nil
}

// ParseProfileDocument decodes a profile document from JSON.
// Only a root that is not a JSON object is an error; wrong shapes below the root
// degrade to empty values.
func ParseProfileDocument(data []byte) (*ProfileDocument, error) {
	var doc ProfileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// UnmarshalJSON implements json.Unmarshaler with lenient field decoding
func (p *ProfileDocument) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("profile document must be a JSON object: %w", err)
	}

	*p = ProfileDocument{}

	if v, ok := raw[fieldDepartment]; ok {
		_ = json.Unmarshal(v, &p.Department)
		delete(raw, fieldDepartment)
	}

	if v, ok := raw[fieldResponsibilityAreas]; ok {
		p.ResponsibilityAreas = decodeList[ResponsibilityArea](v)
		delete(raw, fieldResponsibilityAreas)
	}

	if v, ok := raw[fieldProfessionalSkills]; ok {
		p.ProfessionalSkills = decodeList[SkillCategory](v)
		delete(raw, fieldProfessionalSkills)
	}

	if len(raw) > 0 {
		p.Extra = raw
	}
	return nil
}

// MarshalJSON writes the typed fields together with the preserved extra fields
func (p ProfileDocument) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extra)+3)
	for k, v := range p.Extra {
		out[k] = decodeExtra(v)
	}
	out[fieldDepartment] = p.Department
	out[fieldResponsibilityAreas] = emptyIfNil(p.ResponsibilityAreas)
	out[fieldProfessionalSkills] = emptyIfNil(p.ProfessionalSkills)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// decodeExtra turns a preserved raw value into plain Go values so that escaped
// strings ("\u0422\u041a") are written back as text. Numbers keep their literal form.
func decodeExtra(raw json.RawMessage) any {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return raw
	}
	return v
}

// UnmarshalJSON implements json.Unmarshaler; tasks that are not strings are skipped
func (a *ResponsibilityArea) UnmarshalJSON(data []byte) error {
	var raw struct {
		Area  json.RawMessage   `json:"area"`
		Tasks []json.RawMessage `json:"tasks"`
	}
	*a = ResponsibilityArea{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	_ = json.Unmarshal(raw.Area, &a.Area)
	for _, t := range raw.Tasks {
		var task *string
		if err := json.Unmarshal(t, &task); err == nil && task != nil {
			a.Tasks = append(a.Tasks, *task)
		}
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler with lenient skill decoding
func (c *SkillCategory) UnmarshalJSON(data []byte) error {
	var raw struct {
		SkillCategory  json.RawMessage `json:"skillCategory"`
		SpecificSkills json.RawMessage `json:"specificSkills"`
	}
	*c = SkillCategory{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	_ = json.Unmarshal(raw.SkillCategory, &c.SkillCategory)
	if len(raw.SpecificSkills) > 0 {
		c.SpecificSkills = decodeList[Skill](raw.SpecificSkills)
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler; fields with the wrong type are left empty
func (s *Skill) UnmarshalJSON(data []byte) error {
	var raw struct {
		SkillName              json.RawMessage  `json:"skillName"`
		ProficiencyLevel       ProficiencyLevel `json:"proficiencyLevel"`
		ProficiencyDescription json.RawMessage  `json:"proficiencyDescription"`
	}
	*s = Skill{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	_ = json.Unmarshal(raw.SkillName, &s.SkillName)
	_ = json.Unmarshal(raw.ProficiencyDescription, &s.ProficiencyDescription)
	s.ProficiencyLevel = raw.ProficiencyLevel
	return nil
}

// Skills returns every skill of every category in document order
func (p *ProfileDocument) Skills() []Skill {
	if p == nil {
		return nil
	}
	var skills []Skill
	for _, category := range p.ProfessionalSkills {
		skills = append(skills, category.SpecificSkills...)
	}
	return skills
}

// TaskCount returns the number of tasks across all responsibility areas
func (p *ProfileDocument) TaskCount() int {
	if p == nil {
		return 0
	}
	count := 0
	for _, area := range p.ResponsibilityAreas {
		count += len(area.Tasks)
	}
	return count
}

// ExtraKeys returns the preserved top-level keys in sorted order
func (p *ProfileDocument) ExtraKeys() []string {
	if p == nil {
		return nil
	}
	keys := make([]string, 0, len(p.Extra))
	for k := range p.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// decodeList decodes a JSON array element by element, dropping elements that
// are not objects. A value that is not an array yields nil.
func decodeList[T any](data json.RawMessage) []T {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}

	result := make([]T, 0, len(items))
	for _, item := range items {
		trimmed := bytes.TrimSpace(item)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			continue
		}
		var v T
		if err := json.Unmarshal(trimmed, &v); err != nil {
			continue
		}
		result = append(result, v)
	}
	return result
}

func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
