package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/dossier/internal/core/common"
	"github.com/agenthands/dossier/internal/core/model"
	"github.com/agenthands/dossier/internal/llm"
)

// PlanningError means no usable retrieval queries could be produced for an
// item. The orchestrator skips the item with a stub section.
type PlanningError struct {
	ItemID string
	Cause  error
}

func (e *PlanningError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("planning failed for item %s", e.ItemID)
	}
	return fmt.Sprintf("planning failed for item %s: %v", e.ItemID, e.Cause)
}

func (e *PlanningError) Unwrap() error { return e.Cause }

// Planner decomposes one checklist item into a bounded, ordered set of
// retrieval queries. Queries are generated once per item; they are never
// regenerated across hops, which keeps retrieval reproducible.
type Planner struct {
	LLM        llm.LLMClient
	Prompt     string
	MaxQueries int
}

func NewPlanner(llmClient llm.LLMClient, prompt string, maxQueries int) *Planner {
	if maxQueries <= 0 {
		maxQueries = 6
	}
	return &Planner{
		LLM:        llmClient,
		Prompt:     prompt,
		MaxQueries: maxQueries,
	}
}

type plannedQueries struct {
	Queries []string `json:"queries"`
}

func (p *Planner) Plan(ctx context.Context, item model.ChecklistItem) ([]string, error) {
	prompt := fmt.Sprintf(p.Prompt, item.ID, item.Title, item.Description)

	response, err := p.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, &PlanningError{ItemID: item.ID, Cause: err}
	}

	result, err := common.ParseJSON[plannedQueries](response)
	if err != nil {
		// Some models return a bare array instead of the requested object.
		list, listErr := common.ParseJSONList[string](response)
		if listErr != nil {
			return nil, &PlanningError{ItemID: item.ID, Cause: err}
		}
		result.Queries = list
	}

	queries := Dedupe(result.Queries, p.MaxQueries)
	if len(queries) == 0 {
		return nil, &PlanningError{ItemID: item.ID, Cause: fmt.Errorf("no queries produced")}
	}
	return queries, nil
}

// Dedupe trims, drops empty and verbatim-duplicate queries, and caps the
// result at limit while preserving order.
func Dedupe(queries []string, limit int) []string {
	seen := make(map[string]struct{}, len(queries))
	var out []string
	for _, q := range queries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
