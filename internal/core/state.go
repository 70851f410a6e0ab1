package core

import (
	"fmt"
	"strings"

	"github.com/agenthands/dossier/internal/core/model"
)

// Phase is the per-item research state.
type Phase string

const (
	PhasePlanned      Phase = "planned"
	PhaseRetrieving   Phase = "retrieving"
	PhaseEvaluating   Phase = "evaluating"
	PhaseHydrating    Phase = "hydrating"
	PhaseSynthesizing Phase = "synthesizing"
	PhaseDone         Phase = "done"
)

// validTransitions is the exhaustive transition table of the research loop.
// Hydrating loops back to Evaluating without passing through Retrieving, so
// hydration never consumes a hop.
var validTransitions = map[Phase][]Phase{
	PhasePlanned:      {PhaseRetrieving},
	PhaseRetrieving:   {PhaseEvaluating},
	PhaseEvaluating:   {PhaseRetrieving, PhaseHydrating, PhaseSynthesizing},
	PhaseHydrating:    {PhaseEvaluating},
	PhaseSynthesizing: {PhaseDone},
	PhaseDone:         {},
}

func ValidateTransition(from, to Phase) error {
	for _, next := range validTransitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("invalid phase transition %s -> %s", from, to)
}

// ItemState is the mutable research record for one checklist item. It is
// owned exclusively by the Researcher for the lifetime of that item; the
// components only ever see value snapshots of its fields.
type ItemState struct {
	Item       model.ChecklistItem
	Queries    []string
	Evidence   []model.EvidenceChunk
	HopCount   int
	Hydration  []model.HydrationNote
	Verdict    model.Verdict
	BestEffort bool
	Draft      string
	Phase      Phase

	seen         map[model.ChunkKey]struct{}
	hydrated     map[string]struct{}
	pendingTerms []string
}

func newItemState(item model.ChecklistItem) *ItemState {
	return &ItemState{
		Item:     item,
		Verdict:  model.VerdictPending,
		Phase:    PhasePlanned,
		seen:     make(map[model.ChunkKey]struct{}),
		hydrated: make(map[string]struct{}),
	}
}

func (s *ItemState) transition(to Phase) error {
	if err := ValidateTransition(s.Phase, to); err != nil {
		return err
	}
	s.Phase = to
	return nil
}

// admit appends chunks whose key has not been seen this item. Evidence only
// ever grows; a chunk admitted once is never dropped or re-admitted.
func (s *ItemState) admit(chunks []model.EvidenceChunk) int {
	added := 0
	for _, chunk := range chunks {
		key := chunk.Key()
		if _, dup := s.seen[key]; dup {
			continue
		}
		s.seen[key] = struct{}{}
		s.Evidence = append(s.Evidence, chunk)
		added++
	}
	return added
}

// addQueries appends follow-up queries without disturbing the planner's
// original set, keeping the live query list within limit.
func (s *ItemState) addQueries(queries []string, limit int) {
	for _, q := range queries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		if limit > 0 && len(s.Queries) >= limit {
			return
		}
		dup := false
		for _, existing := range s.Queries {
			if existing == q {
				dup = true
				break
			}
		}
		if !dup {
			s.Queries = append(s.Queries, q)
		}
	}
}

// addHydration records the notes and marks their terms attempted so the
// same term is never looked up twice within this item.
func (s *ItemState) addHydration(notes []model.HydrationNote) {
	for _, note := range notes {
		s.hydrated[strings.ToLower(strings.TrimSpace(note.Term))] = struct{}{}
		s.Hydration = append(s.Hydration, note)
	}
}

func (s *ItemState) unhydratedTerms(terms []string) []string {
	var out []string
	for _, term := range terms {
		key := strings.ToLower(strings.TrimSpace(term))
		if key == "" {
			continue
		}
		if _, done := s.hydrated[key]; done {
			continue
		}
		out = append(out, term)
	}
	return out
}

// ReportState is the run-scoped aggregate. Only the Researcher mutates it;
// completed sections are always in checklist order.
type ReportState struct {
	RunID             string
	CompletedSections []model.Section
	CurrentItemIndex  int
}
