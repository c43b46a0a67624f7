package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/yshishenya/a101-hr-profile-generator-sub002/internal/types"
	"github.com/yshishenya/a101-hr-profile-generator-sub002/internal/validation"
)

func TestCheckTask(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, checkTask(&out, "", "Обеспечение выполнения"))

	var check types.TaskCheck
	require.NoError(t, json.Unmarshal(out.Bytes(), &check))
	assert.False(t, check.Valid)
	assert.Equal(t, 1, check.ConcreteElements)
	assert.Equal(t, []string{"обеспечение выполнения"}, check.FillerPhrases)
}

func TestInferDomain(t *testing.T) {
	tests := []struct {
		department string
		domain     string
	}{
		{department: "Управление персоналом", domain: "hr"},
		{department: "Legal & Compliance within Finance", domain: "finance"},
		{department: "Security office", domain: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.department, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, inferDomain(&out, "", tt.department))

			var info types.DomainInfo
			require.NoError(t, json.Unmarshal(out.Bytes(), &info))
			assert.Equal(t, tt.domain, info.Domain)
		})
	}
}

func TestCheckSchema(t *testing.T) {
	t.Run("embedded schema passes", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, checkSchema(&out, itProfile, ""))
		assert.Contains(t, out.String(), "Schema validation passed")
	})

	t.Run("embedded schema fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"department": ""}`), 0644))

		var out bytes.Buffer
		err := checkSchema(&out, path, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema validation failed")
		assert.Contains(t, out.String(), "  - ")
	})

	t.Run("explicit schema file", func(t *testing.T) {
		schema := filepath.Join(t.TempDir(), "schema.json")
		require.NoError(t, os.WriteFile(schema, []byte(`{"type": "object", "required": ["salary"]}`), 0644))

		var out bytes.Buffer
		err := checkSchema(&out, itProfile, schema)
		require.Error(t, err)
		assert.Contains(t, out.String(), "salary")
	})

	t.Run("missing input", func(t *testing.T) {
		var out bytes.Buffer
		err := checkSchema(&out, "/nonexistent/profile.json", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read profile file")
	})
}

func TestPrintRules(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, printRules(&out, ""))

		var rs validation.Ruleset
		require.NoError(t, yaml.Unmarshal(out.Bytes(), &rs))
		assert.Equal(t, validation.DefaultRuleset().DomainNames(), rs.DomainNames())
	})

	t.Run("extended", func(t *testing.T) {
		rules := filepath.Join(t.TempDir(), "rules.yaml")
		require.NoError(t, os.WriteFile(rules, []byte("domains:\n  - domain: marketing\n    stems: [маркетинг]\n    frameworks: [ФЗ О рекламе]\n"), 0644))

		var out bytes.Buffer
		require.NoError(t, printRules(&out, rules))
		assert.Contains(t, out.String(), "marketing")
		assert.Contains(t, out.String(), "ФЗ О рекламе")
	})
}

func TestRootCommand_Registered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"validate", "check-task", "infer-domain", "check-schema", "rules", "serve"} {
		assert.True(t, names[want], want)
	}
}
