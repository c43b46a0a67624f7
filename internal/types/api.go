package types

import "encoding/json"

// ValidateProfileRequest is the request to validate one profile document.
// Profile is kept raw so it can be schema-checked before lenient decoding.
type ValidateProfileRequest struct {
	Profile json.RawMessage `json:"profile" validate:"required"`
	Domain  string          `json:"domain,omitempty" validate:"omitempty,known_domain"`
}

// ValidateProfileResponse carries a report and any advisory schema findings
type ValidateProfileResponse struct {
	ID           string            `json:"id"`
	Report       *ValidationReport `json:"report"`
	SchemaErrors []string          `json:"schema_errors"`
}

// BatchValidateRequest is the request to validate several profiles at once
type BatchValidateRequest struct {
	Profiles []json.RawMessage `json:"profiles" validate:"required,min=1,dive,required"`
	Domain   string            `json:"domain,omitempty" validate:"omitempty,known_domain"`
}

// BatchValidateResponse holds reports in request order
type BatchValidateResponse struct {
	Reports []*ValidationReport `json:"reports"`
	Count   int                 `json:"count"`
}

// CheckTaskRequest is the request to check a single task.
// The task must be present; an empty task is checked like any other.
type CheckTaskRequest struct {
	Task *string `json:"task" validate:"required"`
}

// CheckSkillRequest is the request to check a single skill
type CheckSkillRequest struct {
	SkillName              string           `json:"skillName" validate:"required"`
	ProficiencyLevel       ProficiencyLevel `json:"proficiencyLevel"`
	ProficiencyDescription string           `json:"proficiencyDescription"`
}

// Skill converts the request to a Skill
func (r CheckSkillRequest) Skill() Skill {
	return Skill{
		SkillName:              r.SkillName,
		ProficiencyLevel:       r.ProficiencyLevel,
		ProficiencyDescription: r.ProficiencyDescription,
	}
}

// DomainInfo describes a domain and the frameworks it requires
type DomainInfo struct {
	Domain             string   `json:"domain"`
	ExpectedFrameworks []string `json:"expected_frameworks"`
}

// DomainsResponse lists the configured domains in inference priority order
type DomainsResponse struct {
	Domains []DomainInfo `json:"domains"`
}
