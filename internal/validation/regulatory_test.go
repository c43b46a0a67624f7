package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yshishenya/a101-hr-profile-generator-sub002/internal/types"
)

func TestInferDomain(t *testing.T) {
	testCases := []struct {
		department string
		expected   string
	}{
		{"HR department", DomainHR},
		{"Департамент персонала", DomainHR},
		{"Управление по подбору", DomainHR},
		{"Финансовый департамент", DomainFinance},
		{"Legal & Compliance within Finance", DomainFinance},
		{"Юридический отдел", DomainLegal},
		{"Legal department", DomainLegal},
		{"Архитектурное бюро", DomainConstruction},
		{"Construction supervision", DomainConstruction},
		{"IT department", DomainIT},
		{"Департамент информационных технологий", DomainIT},
		{"Security office", DomainUnknown},
		{"Отдел продаж", DomainUnknown},
		{"", DomainUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.department, func(t *testing.T) {
			assert.Equal(t, tc.expected, Default().InferDomain(tc.department))
		})
	}
}

func TestExpectedFrameworks_UnknownDomainExpectsNone(t *testing.T) {
	assert.Empty(t, Default().ExpectedFrameworks(DomainUnknown))
	assert.Empty(t, Default().ExpectedFrameworks("marketing"))
	assert.Contains(t, Default().ExpectedFrameworks("HR"), "Трудовой кодекс")
}

func TestCheckRegulatoryFrameworks_HRWithoutFramework(t *testing.T) {
	profile := &types.ProfileDocument{
		Department: "HR department",
		ResponsibilityAreas: []types.ResponsibilityArea{
			{Area: "Recruiting", Tasks: []string{"Screen candidates, schedule interviews"}},
		},
	}

	check := Default().CheckRegulatoryFrameworks(profile, "")

	assert.Equal(t, DomainHR, check.Domain)
	assert.True(t, check.Required)
	assert.False(t, check.HasFramework)
	assert.False(t, check.Valid)
	assert.Contains(t, check.ExpectedFrameworks, "Labor Code")
	assert.Contains(t, check.ExpectedFrameworks, "152-ФЗ")
	require.Len(t, check.Issues, 1)
	assert.Contains(t, check.Issues[0], "domain hr")
}

func TestCheckRegulatoryFrameworks_HRWithFramework(t *testing.T) {
	testCases := []struct {
		name     string
		task     string
		expected string
	}{
		{"labor code", "Оформление документов по ТК РФ, ведение кадрового учета", "ТК РФ"},
		{"data protection", "Handle employee records under GDPR, audit access", "GDPR"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			profile := &types.ProfileDocument{
				Department: "HR department",
				ResponsibilityAreas: []types.ResponsibilityArea{
					{Area: "Administration", Tasks: []string{tc.task}},
				},
			}

			check := Default().CheckRegulatoryFrameworks(profile, "")
			assert.True(t, check.Valid)
			assert.True(t, check.HasFramework)
			assert.Contains(t, check.FoundFrameworks, tc.expected)
			assert.Empty(t, check.Issues)
		})
	}
}

func TestCheckRegulatoryFrameworks_ScansSkillDescriptions(t *testing.T) {
	profile := &types.ProfileDocument{
		Department: "Финансовый департамент",
		ProfessionalSkills: []types.SkillCategory{{
			SkillCategory: "Отчетность",
			SpecificSkills: []types.Skill{
				{SkillName: "Консолидация", ProficiencyLevel: 3, ProficiencyDescription: "Готовит отчетность по МСФО"},
			},
		}},
	}

	check := Default().CheckRegulatoryFrameworks(profile, "")
	assert.Equal(t, DomainFinance, check.Domain)
	assert.Equal(t, []string{"МСФО"}, check.FoundFrameworks)
	assert.True(t, check.Valid)
}

func TestCheckRegulatoryFrameworks_ScansExtraFields(t *testing.T) {
	profile, err := types.ParseProfileDocument([]byte(`{
		"department": "HR department",
		"careerPaths": {"next": "HRBP with deep knowledge of the Labor Code"}
	}`))
	require.NoError(t, err)

	check := Default().CheckRegulatoryFrameworks(profile, "")
	assert.True(t, check.Valid)
	assert.Equal(t, []string{"Labor Code"}, check.FoundFrameworks)
}

func TestCheckRegulatoryFrameworks_EscapedExtraFields(t *testing.T) {
	tests := []struct {
		name     string
		document string
		found    []string
	}{
		{
			name:     "escaped labor code in career paths",
			document: `{"department": "HR department", "careerPaths": ["\u0422\u041a \u0420\u0424"]}`,
			found:    []string{"ТК РФ"},
		},
		{
			name:     "escaped IFRS in nested KPI object",
			document: `{"department": "Finance department", "kpi": {"reporting": "\u041c\u0421\u0424\u041e", "weight": 0.25}}`,
			found:    []string{"МСФО"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := types.ParseProfileDocument([]byte(tt.document))
			require.NoError(t, err)

			check := Default().CheckRegulatoryFrameworks(profile, "")
			assert.True(t, check.Valid)
			assert.Equal(t, tt.found, check.FoundFrameworks)
		})
	}
}

func TestCheckRegulatoryFrameworks_DomainHint(t *testing.T) {
	profile := &types.ProfileDocument{Department: "HR department"}

	t.Run("unknown hint is never required", func(t *testing.T) {
		check := Default().CheckRegulatoryFrameworks(profile, "unknown")
		assert.Equal(t, DomainUnknown, check.Domain)
		assert.False(t, check.Required)
		assert.True(t, check.Valid)
		assert.Empty(t, check.ExpectedFrameworks)
	})

	t.Run("hint overrides inference", func(t *testing.T) {
		check := Default().CheckRegulatoryFrameworks(profile, " Finance ")
		assert.Equal(t, DomainFinance, check.Domain)
		assert.Contains(t, check.ExpectedFrameworks, "IFRS")
		assert.False(t, check.Valid)
	})

	t.Run("unregistered hint expects nothing", func(t *testing.T) {
		check := Default().CheckRegulatoryFrameworks(profile, "marketing")
		assert.Equal(t, "marketing", check.Domain)
		assert.False(t, check.Required)
		assert.True(t, check.Valid)
	})
}

func TestCheckRegulatoryFrameworks_NilProfile(t *testing.T) {
	check := Default().CheckRegulatoryFrameworks(nil, "")

	assert.Equal(t, DomainUnknown, check.Domain)
	assert.True(t, check.Valid)
}
