package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type PlannerPrompts struct {
	Queries string `toml:"queries"`
}

type EvaluationPrompts struct {
	Sufficiency string `toml:"sufficiency"`
}

type SynthesisPrompts struct {
	Section    string `toml:"section"`
	BestEffort string `toml:"best_effort"`
}

type LLMConfig struct {
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	EmbeddingModel string `toml:"embedding_model"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxRetries     int    `toml:"max_retries"`
}

type CorpusConfig struct {
	URI            string  `toml:"uri"`
	User           string  `toml:"user"`
	Password       string  `toml:"password"`
	GroupID        string  `toml:"group_id"`
	ScoreThreshold float64 `toml:"score_threshold"`
}

type WebSearchConfig struct {
	APIKey         string  `toml:"api_key"`
	BaseURL        string  `toml:"base_url"`
	ResultsPerTerm int     `toml:"results_per_term"`
	RatePerSecond  float64 `toml:"rate_per_second"`
}

type ResearchConfig struct {
	MaxHops       int    `toml:"max_hops"`
	TopKPerQuery  int    `toml:"top_k_per_query"`
	MaxQueries    int    `toml:"max_queries"`
	Concurrency   int    `toml:"concurrency"`
	EvidenceCap   int    `toml:"evidence_cap"`
	SnippetCap    int    `toml:"snippet_cap"`
	SearchRetries int    `toml:"search_retries"`
	ChecklistPath string `toml:"checklist_path"`
}

type ReportConfig struct {
	DBPath string `toml:"db_path"`
	Title  string `toml:"title"`
}

type Config struct {
	LLM        LLMConfig         `toml:"llm"`
	Corpus     CorpusConfig      `toml:"corpus"`
	WebSearch  WebSearchConfig   `toml:"websearch"`
	Research   ResearchConfig    `toml:"research"`
	Report     ReportConfig      `toml:"report"`
	Planner    PlannerPrompts    `toml:"planner"`
	Evaluation EvaluationPrompts `toml:"evaluation"`
	Synthesis  SynthesisPrompts  `toml:"synthesis"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Research.MaxHops <= 0 {
		c.Research.MaxHops = 3
	}
	if c.Research.TopKPerQuery <= 0 {
		c.Research.TopKPerQuery = 5
	}
	if c.Research.MaxQueries <= 0 {
		c.Research.MaxQueries = 6
	}
	if c.Research.Concurrency <= 0 {
		c.Research.Concurrency = 1
	}
	if c.Research.EvidenceCap <= 0 {
		c.Research.EvidenceCap = 20
	}
	if c.Research.SnippetCap <= 0 {
		c.Research.SnippetCap = 500
	}
	if c.Research.SearchRetries <= 0 {
		c.Research.SearchRetries = 3
	}
	if c.Research.ChecklistPath == "" {
		c.Research.ChecklistPath = "config/checklist.json"
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = 120
	}
	if c.LLM.MaxRetries <= 0 {
		c.LLM.MaxRetries = 2
	}
	if c.WebSearch.ResultsPerTerm <= 0 {
		c.WebSearch.ResultsPerTerm = 3
	}
	if c.WebSearch.RatePerSecond <= 0 {
		c.WebSearch.RatePerSecond = 1
	}
	if c.Report.Title == "" {
		c.Report.Title = "Compliance Report"
	}
}

// ApplyEnvOverrides replaces selected config values with environment
// variables when set. Keeps container deployments config-file free.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LLM_EMBEDDING_MODEL"); v != "" {
		c.LLM.EmbeddingModel = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("MEMGRAPH_URI"); v != "" {
		c.Corpus.URI = v
	}
	if v := os.Getenv("MEMGRAPH_USER"); v != "" {
		c.Corpus.User = v
	}
	if v := os.Getenv("MEMGRAPH_PASSWORD"); v != "" {
		c.Corpus.Password = v
	}
	if v := os.Getenv("YDC_API_KEY"); v != "" {
		c.WebSearch.APIKey = v
	}
	if v := os.Getenv("CHECKLIST_PATH"); v != "" {
		c.Research.ChecklistPath = v
	}
}
