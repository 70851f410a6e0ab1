package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/agenthands/dossier/internal/checklist"
	"github.com/agenthands/dossier/internal/config"
	"github.com/agenthands/dossier/internal/core"
	"github.com/agenthands/dossier/internal/core/evaluation"
	"github.com/agenthands/dossier/internal/core/hydration"
	"github.com/agenthands/dossier/internal/core/model"
	"github.com/agenthands/dossier/internal/core/planner"
	"github.com/agenthands/dossier/internal/core/retrieval"
	"github.com/agenthands/dossier/internal/core/synthesis"
	"github.com/agenthands/dossier/internal/corpus"
	"github.com/agenthands/dossier/internal/driver"
	"github.com/agenthands/dossier/internal/llm"
	"github.com/agenthands/dossier/internal/report"
	"github.com/agenthands/dossier/internal/websearch"
)

// App wires the research components from configuration. Both the CLI and
// the HTTP server build from here.
type App struct {
	Config     *config.Config
	Researcher *core.Researcher
	Corpus     *corpus.Store
	Checklist  []model.ChecklistItem
	Store      *report.Store

	graphDriver driver.GraphDriver
}

func Load(ctx context.Context, configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()

	items, err := checklist.Load(cfg.Research.ChecklistPath)
	if err != nil {
		return nil, err
	}

	graphDriver, err := driver.NewMemgraphDriver(cfg.Corpus.URI, cfg.Corpus.User, cfg.Corpus.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Memgraph: %w", err)
	}

	llmClient, embedderClient, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		graphDriver.Close(ctx)
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	drafting := llm.WithRetry(llmClient, time.Duration(cfg.LLM.TimeoutSeconds)*time.Second, cfg.LLM.MaxRetries)

	corpusStore := corpus.NewStore(graphDriver, embedderClient, cfg.Corpus.GroupID, cfg.Corpus.ScoreThreshold)

	youClient := websearch.NewClient(cfg.WebSearch.APIKey, cfg.WebSearch.BaseURL,
		cfg.WebSearch.ResultsPerTerm, cfg.WebSearch.RatePerSecond)

	judge := evaluation.NewLLMJudge(drafting, cfg.Evaluation.Sufficiency,
		cfg.Research.EvidenceCap, cfg.Research.SnippetCap)

	researcher := core.NewResearcher(
		planner.NewPlanner(drafting, cfg.Planner.Queries, cfg.Research.MaxQueries),
		retrieval.NewRetriever(corpusStore, cfg.Research.TopKPerQuery, cfg.Research.SearchRetries),
		evaluation.NewEvaluator(judge, cfg.Research.MaxHops),
		hydration.NewHydrator(youClient),
		synthesis.NewSynthesizer(drafting, cfg.Synthesis.Section, cfg.Synthesis.BestEffort, cfg.Research.EvidenceCap),
	)
	researcher.MaxHops = cfg.Research.MaxHops
	researcher.MaxQueries = cfg.Research.MaxQueries
	researcher.Concurrency = cfg.Research.Concurrency

	var runStore *report.Store
	if cfg.Report.DBPath != "" {
		runStore, err = report.NewStore(cfg.Report.DBPath)
		if err != nil {
			log.Printf("Warning: report store unavailable, runs will not be persisted: %v", err)
		}
	}

	return &App{
		Config:      cfg,
		Researcher:  researcher,
		Corpus:      corpusStore,
		Checklist:   items,
		Store:       runStore,
		graphDriver: graphDriver,
	}, nil
}

func (a *App) Close(ctx context.Context) {
	if a.Store != nil {
		a.Store.Close()
	}
	if a.graphDriver != nil {
		a.graphDriver.Close(ctx)
	}
}
