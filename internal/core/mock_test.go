package core

import (
	"context"
	"sync"

	"github.com/agenthands/dossier/internal/core/evaluation"
	"github.com/agenthands/dossier/internal/core/model"
)

type MockPlanner struct {
	mu      sync.Mutex
	Queries []string
	Errs    map[string]error // per item ID
	OnPlan  func(ctx context.Context, item model.ChecklistItem)
	Calls   []string
}

func (m *MockPlanner) Plan(ctx context.Context, item model.ChecklistItem) ([]string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, item.ID)
	m.mu.Unlock()
	if m.OnPlan != nil {
		m.OnPlan(ctx, item)
	}
	if err := m.Errs[item.ID]; err != nil {
		return nil, err
	}
	queries := m.Queries
	if queries == nil {
		queries = []string{"query for " + item.ID}
	}
	return queries, nil
}

type MockRetriever struct {
	mu     sync.Mutex
	Chunks []model.EvidenceChunk // offered on every hop; exclude filters repeats
	Err    error
	Calls  [][]string // query snapshot per hop, across all items
}

func (m *MockRetriever) Retrieve(ctx context.Context, queries []string, exclude map[model.ChunkKey]struct{}) ([]model.EvidenceChunk, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, append([]string(nil), queries...))
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []model.EvidenceChunk
	for _, chunk := range m.Chunks {
		if _, old := exclude[chunk.Key()]; old {
			continue
		}
		out = append(out, chunk)
	}
	return out, nil
}

// MockEvaluator pops one scripted decision per call for each item; the last
// decision repeats once the script runs out.
type MockEvaluator struct {
	mu        sync.Mutex
	Scripts   map[string][]evaluation.Decision // per item ID
	HopCounts map[string][]int                 // hopCount observed per call
}

func (m *MockEvaluator) Evaluate(ctx context.Context, item model.ChecklistItem, evidence []model.EvidenceChunk, hopCount int, hydration []model.HydrationNote) evaluation.Decision {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.HopCounts == nil {
		m.HopCounts = make(map[string][]int)
	}
	m.HopCounts[item.ID] = append(m.HopCounts[item.ID], hopCount)

	script := m.Scripts[item.ID]
	if len(script) == 0 {
		return evaluation.Decision{Verdict: model.VerdictSufficient}
	}
	decision := script[0]
	if len(script) > 1 {
		m.Scripts[item.ID] = script[1:]
	}
	return decision
}

type MockHydrator struct {
	mu    sync.Mutex
	Calls [][]string
}

func (m *MockHydrator) Hydrate(ctx context.Context, terms []string) []model.HydrationNote {
	m.mu.Lock()
	m.Calls = append(m.Calls, append([]string(nil), terms...))
	m.mu.Unlock()
	notes := make([]model.HydrationNote, 0, len(terms))
	for _, term := range terms {
		notes = append(notes, model.HydrationNote{Term: term, Definition: "definition of " + term})
	}
	return notes
}

type synthCall struct {
	ItemID     string
	Evidence   []model.EvidenceChunk
	Hydration  []model.HydrationNote
	BestEffort bool
}

type MockSynthesizer struct {
	mu          sync.Mutex
	Errs        map[string]error // per item ID
	OnSynthesis func(item model.ChecklistItem)
	Calls       []synthCall
}

func (m *MockSynthesizer) Synthesize(ctx context.Context, item model.ChecklistItem, evidence []model.EvidenceChunk, hydration []model.HydrationNote, bestEffort bool) (string, error) {
	if m.OnSynthesis != nil {
		m.OnSynthesis(item)
	}
	m.mu.Lock()
	m.Calls = append(m.Calls, synthCall{
		ItemID:     item.ID,
		Evidence:   append([]model.EvidenceChunk(nil), evidence...),
		Hydration:  append([]model.HydrationNote(nil), hydration...),
		BestEffort: bestEffort,
	})
	m.mu.Unlock()
	if err := m.Errs[item.ID]; err != nil {
		return "", err
	}
	return "draft for " + item.ID, nil
}

func (m *MockSynthesizer) callFor(itemID string) (synthCall, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, call := range m.Calls {
		if call.ItemID == itemID {
			return call, true
		}
	}
	return synthCall{}, false
}
