package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yshishenya/a101-hr-profile-generator-sub002/internal/server/ratelimit"
	"github.com/yshishenya/a101-hr-profile-generator-sub002/internal/types"
)

const (
	// unknown domain, nothing to check
	cleanProfile = `{"department": "Security office", "responsibilityAreas": [], "professionalSkills": []}`
	// HR profile without any labor-law reference
	hrProfile = `{"department": "Отдел подбора персонала", "responsibilityAreas": [], "professionalSkills": []}`
)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	if cfg.RateLimit == nil {
		cfg.RateLimit = &ratelimit.Config{Enabled: false}
	}
	s := New(cfg, nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, Config{})

	w := doRequest(t, s.Handler(), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	resp := decodeBody[map[string]string](t, w)
	assert.Equal(t, "ok", resp["status"])
}

func TestValidateProfile(t *testing.T) {
	s := newTestServer(t, Config{})

	t.Run("clean profile", func(t *testing.T) {
		w := doRequest(t, s.Handler(), http.MethodPost, "/api/v1/profiles/validate",
			`{"profile": `+cleanProfile+`}`)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decodeBody[types.ValidateProfileResponse](t, w)
		assert.NotEmpty(t, resp.ID)
		require.NotNil(t, resp.Report)
		assert.True(t, resp.Report.Valid)
		assert.Equal(t, 10.0, resp.Report.QualityScore)
		assert.Equal(t, "unknown", resp.Report.Domain)
		assert.Empty(t, resp.SchemaErrors)
	})

	t.Run("missing regulatory framework", func(t *testing.T) {
		w := doRequest(t, s.Handler(), http.MethodPost, "/api/v1/profiles/validate",
			`{"profile": `+hrProfile+`}`)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decodeBody[types.ValidateProfileResponse](t, w)
		assert.False(t, resp.Report.Valid)
		assert.Equal(t, "hr", resp.Report.Domain)
		assert.Equal(t, 8.0, resp.Report.QualityScore)
		assert.Equal(t, 1, resp.Report.Summary.TotalIssues)
	})

	t.Run("domain override", func(t *testing.T) {
		w := doRequest(t, s.Handler(), http.MethodPost, "/api/v1/profiles/validate",
			`{"profile": `+hrProfile+`, "domain": "unknown"}`)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decodeBody[types.ValidateProfileResponse](t, w)
		assert.True(t, resp.Report.Valid)
		assert.Equal(t, "unknown", resp.Report.Domain)
	})

	t.Run("schema findings are advisory", func(t *testing.T) {
		w := doRequest(t, s.Handler(), http.MethodPost, "/api/v1/profiles/validate",
			`{"profile": {"department": "Security office"}}`)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decodeBody[types.ValidateProfileResponse](t, w)
		assert.True(t, resp.Report.Valid)
		assert.NotEmpty(t, resp.SchemaErrors)
	})
}

func TestValidateProfile_BadRequests(t *testing.T) {
	s := newTestServer(t, Config{})

	tests := []struct {
		name     string
		body     string
		contains string
	}{
		{name: "malformed JSON", body: `{"profile": `, contains: "Invalid request body"},
		{name: "missing profile", body: `{}`, contains: "profile"},
		{name: "unregistered domain", body: `{"profile": {}, "domain": "marketing"}`, contains: "domain"},
		{name: "profile is an array", body: `{"profile": []}`, contains: "not a JSON object"},
		{name: "profile is null", body: `{"profile": null}`, contains: "profile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, s.Handler(), http.MethodPost, "/api/v1/profiles/validate", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeBody[map[string]string](t, w)
			assert.Contains(t, resp["error"], tt.contains)
		})
	}
}

func TestValidateBatch(t *testing.T) {
	s := newTestServer(t, Config{MaxBatchSize: 3, Concurrency: 2})

	t.Run("reports in request order", func(t *testing.T) {
		body := `{"profiles": [` + cleanProfile + `,` + hrProfile + `,` + cleanProfile + `]}`
		w := doRequest(t, s.Handler(), http.MethodPost, "/api/v1/profiles/validate/batch", body)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decodeBody[types.BatchValidateResponse](t, w)
		require.Equal(t, 3, resp.Count)
		require.Len(t, resp.Reports, 3)
		assert.Equal(t, "unknown", resp.Reports[0].Domain)
		assert.Equal(t, "hr", resp.Reports[1].Domain)
		assert.False(t, resp.Reports[1].Valid)
		assert.Equal(t, "unknown", resp.Reports[2].Domain)
	})

	t.Run("domain applies to every profile", func(t *testing.T) {
		body := `{"profiles": [` + hrProfile + `,` + hrProfile + `], "domain": "unknown"}`
		w := doRequest(t, s.Handler(), http.MethodPost, "/api/v1/profiles/validate/batch", body)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decodeBody[types.BatchValidateResponse](t, w)
		for _, report := range resp.Reports {
			assert.True(t, report.Valid)
		}
	})

	t.Run("too many profiles", func(t *testing.T) {
		body := `{"profiles": [{}, {}, {}, {}]}`
		w := doRequest(t, s.Handler(), http.MethodPost, "/api/v1/profiles/validate/batch", body)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		resp := decodeBody[map[string]string](t, w)
		assert.Contains(t, resp["error"], "exceeds maximum of 3")
	})

	t.Run("empty batch", func(t *testing.T) {
		w := doRequest(t, s.Handler(), http.MethodPost, "/api/v1/profiles/validate/batch", `{"profiles": []}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("non-object entry", func(t *testing.T) {
		body := `{"profiles": [{}, "text"]}`
		w := doRequest(t, s.Handler(), http.MethodPost, "/api/v1/profiles/validate/batch", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeBody[map[string]string](t, w)
		assert.Contains(t, resp["error"], "profile 1")
	})
}

func TestCheckTask(t *testing.T) {
	s := newTestServer(t, Config{})

	w := doRequest(t, s.Handler(), http.MethodPost, "/api/v1/tasks/check",
		`{"task": "Разработка API, интеграция с CRM, настройка CI/CD"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	check := decodeBody[types.TaskCheck](t, w)
	assert.True(t, check.Valid)
	assert.Equal(t, 3, check.ConcreteElements)

	w = doRequest(t, s.Handler(), http.MethodPost, "/api/v1/tasks/check",
		`{"task": "Обеспечение выполнения"}`)
	require.Equal(t, http.StatusOK, w.Code)
	check = decodeBody[types.TaskCheck](t, w)
	assert.False(t, check.Valid)
	assert.Len(t, check.Issues, 2)

	// an empty task is checked, failing only on concreteness
	w = doRequest(t, s.Handler(), http.MethodPost, "/api/v1/tasks/check", `{"task": ""}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	check = decodeBody[types.TaskCheck](t, w)
	assert.False(t, check.Valid)
	assert.Equal(t, 0, check.ConcreteElements)
	assert.Zero(t, check.FillerRatio)
	assert.Equal(t, []string{"insufficient concrete elements: 0 < 2"}, check.Issues)

	for _, body := range []string{`{}`, `{"task": null}`} {
		w = doRequest(t, s.Handler(), http.MethodPost, "/api/v1/tasks/check", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestCheckSkill(t *testing.T) {
	s := newTestServer(t, Config{})

	tests := []struct {
		name  string
		body  string
		valid bool
		soft  bool
	}{
		{
			name:  "soft skill without methodology",
			body:  `{"skillName": "Коучинг команды", "proficiencyLevel": 3, "proficiencyDescription": "Проводит встречи"}`,
			valid: false,
			soft:  true,
		},
		{
			name:  "soft skill with methodology",
			body:  `{"skillName": "Коучинг", "proficiencyLevel": "3", "proficiencyDescription": "Использует GROW"}`,
			valid: true,
			soft:  true,
		},
		{
			name:  "technical skill",
			body:  `{"skillName": "PostgreSQL", "proficiencyLevel": 2}`,
			valid: true,
			soft:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, s.Handler(), http.MethodPost, "/api/v1/skills/check", tt.body)

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			check := decodeBody[types.SkillMethodologyCheck](t, w)
			assert.Equal(t, tt.valid, check.Valid)
			assert.Equal(t, tt.soft, check.IsSoftSkill)
		})
	}
}

func TestDomains(t *testing.T) {
	s := newTestServer(t, Config{})

	w := doRequest(t, s.Handler(), http.MethodGet, "/api/v1/domains", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[types.DomainsResponse](t, w)

	var names []string
	for _, d := range resp.Domains {
		names = append(names, d.Domain)
		assert.NotEmpty(t, d.ExpectedFrameworks, d.Domain)
	}
	assert.Equal(t, []string{"finance", "hr", "legal", "construction", "it"}, names)
}

func TestInferDomain(t *testing.T) {
	s := newTestServer(t, Config{})

	w := doRequest(t, s.Handler(), http.MethodGet, "/api/v1/domains/infer?department="+url.QueryEscape("Финансовый отдел"), "")
	require.Equal(t, http.StatusOK, w.Code)
	info := decodeBody[types.DomainInfo](t, w)
	assert.Equal(t, "finance", info.Domain)
	assert.Contains(t, info.ExpectedFrameworks, "МСФО")

	w = doRequest(t, s.Handler(), http.MethodGet, "/api/v1/domains/infer?department=Security+office", "")
	require.Equal(t, http.StatusOK, w.Code)
	info = decodeBody[types.DomainInfo](t, w)
	assert.Equal(t, "unknown", info.Domain)
	assert.Empty(t, info.ExpectedFrameworks)

	w = doRequest(t, s.Handler(), http.MethodGet, "/api/v1/domains/infer", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, Config{})

	w := doRequest(t, s.Handler(), http.MethodPost, "/api/v1/profiles/validate", `{"profile": `+hrProfile+`}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, s.Handler(), http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `profile_validator_validations_total{domain="hr",outcome="invalid"} 1`)
	assert.Contains(t, body, `profile_validator_http_requests_total{code="200",route="/api/v1/profiles/validate"} 1`)
}

func TestRateLimiting(t *testing.T) {
	s := newTestServer(t, Config{RateLimit: &ratelimit.Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		CleanupInterval: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/api/v1/tasks/check", Method: "POST", Limit: 1, Window: time.Minute, Burst: 1},
		},
	}})

	body := `{"task": "Разработка API, интеграция с CRM"}`
	w := doRequest(t, s.Handler(), http.MethodPost, "/api/v1/tasks/check", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = doRequest(t, s.Handler(), http.MethodPost, "/api/v1/tasks/check", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	resp := decodeBody[map[string]any](t, w)
	assert.Equal(t, "rate_limit_exceeded", resp["error"])

	// other endpoints have their own bucket
	w = doRequest(t, s.Handler(), http.MethodGet, "/api/v1/domains", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestBodyTooLarge(t *testing.T) {
	s := newTestServer(t, Config{})

	body := `{"task": "` + strings.Repeat("a", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks/check", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestExtractClientID(t *testing.T) {
	s := newTestServer(t, Config{TrustedProxies: []string{"10.0.0.0/8", "192.168.1.10", "not-an-ip"}})

	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		realIP     string
		expected   string
	}{
		{name: "untrusted peer ignores forwarded headers", remoteAddr: "203.0.113.7:5000", xff: "198.51.100.1", realIP: "198.51.100.2", expected: "203.0.113.7"},
		{name: "untrusted peer without headers", remoteAddr: "203.0.113.7:5000", expected: "203.0.113.7"},
		{name: "trusted peer uses forwarded client", remoteAddr: "10.1.2.3:5000", xff: "198.51.100.1", expected: "198.51.100.1"},
		{name: "trusted hops are skipped from the right", remoteAddr: "10.1.2.3:5000", xff: "198.51.100.1, 192.168.1.10, 10.9.9.9", expected: "198.51.100.1"},
		{name: "spoofed left entry is not used", remoteAddr: "10.1.2.3:5000", xff: "1.2.3.4, 198.51.100.1", expected: "198.51.100.1"},
		{name: "trusted peer falls back to X-Real-IP", remoteAddr: "192.168.1.10:5000", realIP: "198.51.100.9", expected: "198.51.100.9"},
		{name: "trusted peer without headers", remoteAddr: "10.1.2.3:5000", expected: "10.1.2.3"},
		{name: "remote addr without port", remoteAddr: "203.0.113.7", xff: "198.51.100.1", expected: "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			assert.Equal(t, tt.expected, s.extractClientID(req))
		})
	}
}

func TestRateLimiting_ForwardedHeadersFromUntrustedPeer(t *testing.T) {
	limited := &ratelimit.Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		CleanupInterval: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/api/v1/tasks/check", Method: "POST", Limit: 1, Window: time.Minute, Burst: 1},
		},
	}
	body := `{"task": "Разработка API, интеграция с CRM"}`

	send := func(s *Server, remoteAddr, forwardedFor string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks/check", strings.NewReader(body))
		req.RemoteAddr = remoteAddr
		req.Header.Set("X-Forwarded-For", forwardedFor)
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		return w.Code
	}

	t.Run("rotating the header does not reset the bucket", func(t *testing.T) {
		s := newTestServer(t, Config{RateLimit: limited})

		assert.Equal(t, http.StatusOK, send(s, "203.0.113.7:4000", "198.51.100.1"))
		assert.Equal(t, http.StatusTooManyRequests, send(s, "203.0.113.7:4000", "198.51.100.2"))
	})

	t.Run("trusted proxy forwards distinct clients", func(t *testing.T) {
		s := newTestServer(t, Config{RateLimit: limited, TrustedProxies: []string{"10.0.0.0/8"}})

		assert.Equal(t, http.StatusOK, send(s, "10.0.0.5:4000", "198.51.100.1"))
		assert.Equal(t, http.StatusOK, send(s, "10.0.0.5:4000", "198.51.100.2"))
		assert.Equal(t, http.StatusTooManyRequests, send(s, "10.0.0.5:4000", "198.51.100.1"))
	})

	t.Run("blacklist cannot be bypassed with a header", func(t *testing.T) {
		cfg := *limited
		cfg.Blacklist = map[string]bool{"203.0.113.66": true}
		s := newTestServer(t, Config{RateLimit: &cfg})

		assert.Equal(t, http.StatusTooManyRequests, send(s, "203.0.113.66:4000", "198.51.100.1"))
	})
}
