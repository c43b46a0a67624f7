package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/yshishenya/a101-hr-profile-generator-sub002/internal/schemas"
	"github.com/yshishenya/a101-hr-profile-generator-sub002/internal/types"
	"github.com/yshishenya/a101-hr-profile-generator-sub002/internal/validation"
)

// maxBodyBytes bounds request bodies; a batch of large profiles fits comfortably
const maxBodyBytes = 10 << 20

// handleValidateProfile validates a single profile document
func (s *Server) handleValidateProfile(w http.ResponseWriter, r *http.Request) {
	var req types.ValidateProfileRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	profile, err := decodeProfile(req.Profile, -1)
	if err != nil {
		s.writeError(w, err)
		return
	}

	schemaErrors := schemas.Messages(schemas.ValidateProfileDocument(req.Profile))
	if len(schemaErrors) > 0 {
		s.logger.Debug("profile does not match schema", "errors", len(schemaErrors))
	}

	report := s.validator.ValidateProfile(profile, &validation.Options{Domain: req.Domain})
	s.metrics.ObserveReport(report)

	s.jsonResponse(w, http.StatusOK, types.ValidateProfileResponse{
		ID:           uuid.NewString(),
		Report:       report,
		SchemaErrors: schemaErrors,
	})
}

// handleValidateBatch validates several profiles concurrently
func (s *Server) handleValidateBatch(w http.ResponseWriter, r *http.Request) {
	var req types.BatchValidateRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	if len(req.Profiles) > s.cfg.MaxBatchSize {
		s.writeError(w, &ErrBatchTooLarge{Size: len(req.Profiles), Max: s.cfg.MaxBatchSize})
		return
	}

	profiles := make([]*types.ProfileDocument, len(req.Profiles))
	for i, raw := range req.Profiles {
		profile, err := decodeProfile(raw, i)
		if err != nil {
			s.writeError(w, err)
			return
		}
		profiles[i] = profile
	}

	reports, err := s.validator.ValidateBatch(r.Context(), profiles, &validation.Options{Domain: req.Domain}, s.cfg.Concurrency)
	if err != nil {
		s.logger.Warn("batch validation aborted", "error", err, "profiles", len(profiles))
		s.errorResponse(w, http.StatusServiceUnavailable, "batch validation aborted: "+err.Error())
		return
	}

	for _, report := range reports {
		s.metrics.ObserveReport(report)
	}

	s.jsonResponse(w, http.StatusOK, types.BatchValidateResponse{
		Reports: reports,
		Count:   len(reports),
	})
}

// handleCheckTask runs the concreteness check on one task
func (s *Server) handleCheckTask(w http.ResponseWriter, r *http.Request) {
	var req types.CheckTaskRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	s.jsonResponse(w, http.StatusOK, s.validator.CheckTask(*req.Task))
}

// handleCheckSkill runs the methodology check on one skill
func (s *Server) handleCheckSkill(w http.ResponseWriter, r *http.Request) {
	var req types.CheckSkillRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	s.jsonResponse(w, http.StatusOK, s.validator.CheckSkillMethodology(req.Skill()))
}

// handleListDomains lists domains in inference priority order
func (s *Server) handleListDomains(w http.ResponseWriter, _ *http.Request) {
	names := s.validator.Ruleset().DomainNames()

	resp := types.DomainsResponse{Domains: make([]types.DomainInfo, 0, len(names))}
	for _, name := range names {
		resp.Domains = append(resp.Domains, types.DomainInfo{
			Domain:             name,
			ExpectedFrameworks: s.validator.ExpectedFrameworks(name),
		})
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleInferDomain infers the domain of a department name
func (s *Server) handleInferDomain(w http.ResponseWriter, r *http.Request) {
	department := strings.TrimSpace(r.URL.Query().Get("department"))
	if department == "" {
		s.writeError(w, &ErrValidation{Field: "department", Message: "required"})
		return
	}

	domain := s.validator.InferDomain(department)
	s.jsonResponse(w, http.StatusOK, types.DomainInfo{
		Domain:             domain,
		ExpectedFrameworks: s.validator.ExpectedFrameworks(domain),
	})
}

// decodeRequest decodes and validates a JSON request body.
// It writes the error response and returns false on failure.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}

	if err := s.requests.Struct(dst); err != nil {
		s.writeError(w, extractValidationErrors(err))
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.errorResponse(w, HTTPStatus(err), err.Error())
}

// decodeProfile decodes a raw profile, requiring a JSON object at the root.
// index is the position in a batch, or -1 for a single profile.
func decodeProfile(raw json.RawMessage, index int) (*types.ProfileDocument, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &ErrInvalidProfile{Index: index, Cause: errors.New("expected an object")}
	}

	profile, err := types.ParseProfileDocument(trimmed)
	if err != nil {
		return nil, &ErrInvalidProfile{Index: index, Cause: err}
	}
	return profile, nil
}
