package core

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/agenthands/dossier/internal/core/evaluation"
	"github.com/agenthands/dossier/internal/core/model"
)

type QueryPlanner interface {
	Plan(ctx context.Context, item model.ChecklistItem) ([]string, error)
}

type EvidenceRetriever interface {
	Retrieve(ctx context.Context, queries []string, exclude map[model.ChunkKey]struct{}) ([]model.EvidenceChunk, error)
}

type SufficiencyEvaluator interface {
	Evaluate(ctx context.Context, item model.ChecklistItem, evidence []model.EvidenceChunk, hopCount int, hydration []model.HydrationNote) evaluation.Decision
}

type TermHydrator interface {
	Hydrate(ctx context.Context, terms []string) []model.HydrationNote
}

type SectionSynthesizer interface {
	Synthesize(ctx context.Context, item model.ChecklistItem, evidence []model.EvidenceChunk, hydration []model.HydrationNote, bestEffort bool) (string, error)
}

// Researcher drives the per-item research state machine and the outer loop
// over the checklist, accumulating drafted sections into the report.
type Researcher struct {
	Planner     QueryPlanner
	Retriever   EvidenceRetriever
	Evaluator   SufficiencyEvaluator
	Hydrator    TermHydrator
	Synthesizer SectionSynthesizer

	MaxHops     int
	MaxQueries  int
	Concurrency int
}

// maxHydrationRounds bounds hydration/evaluation cycles within one item, so
// a judge that keeps inventing new terms cannot stall the loop. Hops are
// bounded separately by MaxHops.
const maxHydrationRounds = 3

func NewResearcher(planner QueryPlanner, retriever EvidenceRetriever, evaluator SufficiencyEvaluator, hydrator TermHydrator, synthesizer SectionSynthesizer) *Researcher {
	return &Researcher{
		Planner:     planner,
		Retriever:   retriever,
		Evaluator:   evaluator,
		Hydrator:    hydrator,
		Synthesizer: synthesizer,
		MaxHops:     evaluation.DefaultMaxHops,
		MaxQueries:  6,
		Concurrency: 1,
	}
}

// Run researches every checklist item and returns the accumulated report.
// Items are processed with at most Concurrency in flight; completed sections
// are appended in checklist order regardless of completion order. One event
// is sent on progress per completed item, then a final done event; Run
// closes progress before returning. On cancellation Run stops starting new
// items, keeps the sections already produced, and returns the partial
// report together with the context error.
func (r *Researcher) Run(ctx context.Context, items []model.ChecklistItem, progress chan<- model.ProgressEvent) (*ReportState, error) {
	if progress != nil {
		defer close(progress)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("no checklist items to research")
	}

	report := &ReportState{RunID: uuid.New().String()}
	results := make([]*model.Section, len(items))

	concurrency := r.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)

	var wg sync.WaitGroup
	var mu sync.Mutex
	processed := 0

	for i, item := range items {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func(i int, item model.ChecklistItem) {
			defer wg.Done()
			defer func() { <-sem }()

			section := r.researchItem(ctx, item)

			mu.Lock()
			results[i] = &section
			processed++
			count := processed
			mu.Unlock()

			if progress != nil {
				progress <- model.ProgressEvent{
					ProcessedCount: count,
					TotalCount:     len(items),
					CurrentItemID:  item.ID,
				}
			}
		}(i, item)
	}

	wg.Wait()

	for _, section := range results {
		if section != nil {
			report.CompletedSections = append(report.CompletedSections, *section)
		}
	}
	report.CurrentItemIndex = len(report.CompletedSections)

	runErr := ctx.Err()
	if progress != nil {
		event := model.ProgressEvent{
			ProcessedCount: len(report.CompletedSections),
			TotalCount:     len(items),
			Done:           true,
		}
		if runErr != nil {
			event.Err = runErr.Error()
		}
		progress <- event
	}

	return report, runErr
}

// researchItem runs the state machine for one item. Every failure below
// this point is contained here: the item degrades to a stub section and the
// run moves on.
func (r *Researcher) researchItem(ctx context.Context, item model.ChecklistItem) (section model.Section) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("Research for item %s panicked: %v", item.ID, p)
			section = stubSection(item, fmt.Sprintf("internal error: %v", p))
		}
	}()

	maxHops := r.MaxHops
	if maxHops <= 0 {
		maxHops = evaluation.DefaultMaxHops
	}

	state := newItemState(item)

	queries, err := r.Planner.Plan(ctx, item)
	if err != nil {
		log.Printf("Planning failed for item %s: %v", item.ID, err)
		return stubSection(item, "no retrieval queries could be planned")
	}
	state.Queries = queries

	hydrationRounds := 0

	for state.Phase != PhaseDone {
		if err := ctx.Err(); err != nil {
			return stubSection(item, "run cancelled: "+err.Error())
		}

		switch state.Phase {
		case PhasePlanned:
			if err := state.transition(PhaseRetrieving); err != nil {
				return stubSection(item, err.Error())
			}

		case PhaseRetrieving:
			chunks, err := r.Retriever.Retrieve(ctx, state.Queries, state.seen)
			if err != nil {
				return stubSection(item, "run cancelled during retrieval")
			}
			added := state.admit(chunks)
			state.HopCount++
			log.Printf("Item %s: hop %d admitted %d new chunks (%d total)",
				item.ID, state.HopCount, added, len(state.Evidence))
			if err := state.transition(PhaseEvaluating); err != nil {
				return stubSection(item, err.Error())
			}

		case PhaseEvaluating:
			decision := r.Evaluator.Evaluate(ctx, item, state.Evidence, state.HopCount, state.Hydration)
			state.Verdict = decision.Verdict
			state.BestEffort = state.BestEffort || decision.BestEffort

			if decision.Verdict == model.VerdictNeedWeb && hydrationRounds >= maxHydrationRounds {
				decision.Verdict = model.VerdictNeedMore
			}

			switch decision.Verdict {
			case model.VerdictNeedMore:
				// The evaluator forces sufficiency at the bound; re-check it
				// here anyway so the invariant holds even against a
				// misbehaving evaluator implementation.
				if state.HopCount >= maxHops {
					state.BestEffort = true
					if err := state.transition(PhaseSynthesizing); err != nil {
						return stubSection(item, err.Error())
					}
					continue
				}
				state.addQueries(decision.FollowUpQueries, r.maxQueries())
				if err := state.transition(PhaseRetrieving); err != nil {
					return stubSection(item, err.Error())
				}

			case model.VerdictNeedWeb:
				state.pendingTerms = decision.UnfamiliarTerms
				if err := state.transition(PhaseHydrating); err != nil {
					return stubSection(item, err.Error())
				}

			default:
				if err := state.transition(PhaseSynthesizing); err != nil {
					return stubSection(item, err.Error())
				}
			}

		case PhaseHydrating:
			terms := state.unhydratedTerms(state.pendingTerms)
			state.pendingTerms = nil
			if len(terms) > 0 {
				state.addHydration(r.Hydrator.Hydrate(ctx, terms))
			}
			hydrationRounds++
			if err := state.transition(PhaseEvaluating); err != nil {
				return stubSection(item, err.Error())
			}

		case PhaseSynthesizing:
			draft, err := r.Synthesizer.Synthesize(ctx, item, state.Evidence, state.Hydration, state.BestEffort)
			if err != nil {
				log.Printf("Synthesis failed for item %s: %v", item.ID, err)
				return stubSection(item, "synthesis failed")
			}
			state.Draft = draft
			if err := state.transition(PhaseDone); err != nil {
				return stubSection(item, err.Error())
			}

		default:
			return stubSection(item, fmt.Sprintf("unknown research phase %q", state.Phase))
		}
	}

	return model.Section{
		ItemID:     item.ID,
		Title:      item.Title,
		Draft:      state.Draft,
		BestEffort: state.BestEffort,
	}
}

func (r *Researcher) maxQueries() int {
	if r.MaxQueries <= 0 {
		return 6
	}
	return r.MaxQueries
}

func stubSection(item model.ChecklistItem, reason string) model.Section {
	return model.Section{
		ItemID:   item.ID,
		Title:    item.Title,
		Draft:    fmt.Sprintf("Insufficient evidence for item %s (%s).", item.ID, item.Title),
		Degraded: true,
		Reason:   reason,
	}
}
