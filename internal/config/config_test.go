package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[llm]
provider = "openai"
model = "gpt-4o"

[research]
max_hops = 2
concurrency = 4

[planner]
queries = "plan %s %s %s"
`)

	cfg, err := Load(path)

	assert.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, 2, cfg.Research.MaxHops)
	assert.Equal(t, 4, cfg.Research.Concurrency)
	assert.Equal(t, "plan %s %s %s", cfg.Planner.Queries)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))

	assert.NoError(t, err)
	assert.Equal(t, 3, cfg.Research.MaxHops)
	assert.Equal(t, 5, cfg.Research.TopKPerQuery)
	assert.Equal(t, 6, cfg.Research.MaxQueries)
	assert.Equal(t, 1, cfg.Research.Concurrency)
	assert.Equal(t, "config/checklist.json", cfg.Research.ChecklistPath)
	assert.Equal(t, 120, cfg.LLM.TimeoutSeconds)
	assert.Equal(t, "Compliance Report", cfg.Report.Title)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadInvalidTOML(t *testing.T) {
	_, err := Load(writeConfig(t, "[llm\nbroken"))
	assert.Error(t, err)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "claude")
	t.Setenv("LLM_API_KEY", "secret")
	t.Setenv("MEMGRAPH_URI", "bolt://memgraph:7687")
	t.Setenv("YDC_API_KEY", "you-key")
	t.Setenv("CHECKLIST_PATH", "/etc/dossier/checklist.json")

	cfg, err := Load(writeConfig(t, `
[llm]
provider = "openai"
`))
	assert.NoError(t, err)

	cfg.ApplyEnvOverrides()

	assert.Equal(t, "claude", cfg.LLM.Provider)
	assert.Equal(t, "secret", cfg.LLM.APIKey)
	assert.Equal(t, "bolt://memgraph:7687", cfg.Corpus.URI)
	assert.Equal(t, "you-key", cfg.WebSearch.APIKey)
	assert.Equal(t, "/etc/dossier/checklist.json", cfg.Research.ChecklistPath)
}
