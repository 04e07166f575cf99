package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maumlabs/anbu/internal/core/model"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.NotEmpty(t, cfg.Risk.HealthEmergency)
	assert.NotEmpty(t, cfg.Prompts.Health)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[server]
port = "9090"

[risk]
safety_risk = ["누수"]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"누수"}, cfg.Risk.SafetyRisk)
	// Sections absent from the file keep their defaults.
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.NotEmpty(t, cfg.Risk.HealthEmergency)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("LLM_MODEL", "gpt-4o-mini")
	t.Setenv("PORT", "7070")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "7070", cfg.Server.Port)
}

func TestRiskKeywordsByAlertType(t *testing.T) {
	cfg := Default()
	tables := cfg.Risk.Keywords()

	assert.Len(t, tables, 3)
	assert.Contains(t, tables[model.AlertHealthEmergency], "넘어졌")
	assert.Contains(t, tables[model.AlertMentalCrisis], "외롭")
	_, hasNoResponse := tables[model.AlertNoResponse]
	assert.False(t, hasNoResponse, "no-response detection is not keyword driven")
}
