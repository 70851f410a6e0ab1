package evaluation

import (
	"context"
	"log"
	"strings"

	"github.com/agenthands/dossier/internal/core/model"
)

// Judge renders an unconstrained opinion on whether the evidence answers the
// item. It is the single non-deterministic decision point of the system, so
// it sits behind this narrow interface and is swapped for a deterministic
// stub in tests.
type Judge interface {
	Judge(ctx context.Context, item model.ChecklistItem, evidence []model.EvidenceChunk, hydration []model.HydrationNote) (Judgment, error)
}

// Judgment is the judge's raw opinion, before policy is applied.
type Judgment struct {
	Verdict         model.Verdict
	UnfamiliarTerms []string
	FollowUpQueries []string
	Details         string
}

// Decision is the evaluator's policy-constrained output.
type Decision struct {
	Verdict         model.Verdict
	UnfamiliarTerms []string // terms still needing hydration when Verdict is need_web
	FollowUpQueries []string // additive queries for later hops
	BestEffort      bool     // sufficiency was forced at the hop bound
	Details         string
}

const DefaultMaxHops = 3

// Evaluator subordinates the judge's opinion to a fixed escalation priority:
//
//  1. at the hop bound, sufficiency is forced regardless of content quality;
//  2. unfamiliar terms not yet hydrated this item escalate to the web;
//  3. a coverage gap requests another retrieval hop;
//  4. otherwise the evidence stands.
//
// The ordering guarantees hydration is attempted at most once per
// unresolved-term set before another hop, so hydration and retrieval cannot
// oscillate past the bound.
type Evaluator struct {
	Judge   Judge
	MaxHops int
}

func NewEvaluator(judge Judge, maxHops int) *Evaluator {
	if maxHops <= 0 {
		maxHops = DefaultMaxHops
	}
	return &Evaluator{Judge: judge, MaxHops: maxHops}
}

func (e *Evaluator) Evaluate(ctx context.Context, item model.ChecklistItem, evidence []model.EvidenceChunk, hopCount int, hydration []model.HydrationNote) Decision {
	judgment, err := e.Judge.Judge(ctx, item, evidence, hydration)
	if err != nil {
		// A broken judge must never loop or abort the item.
		log.Printf("Evaluation: judge failed for item %s, degrading to sufficient: %v", item.ID, err)
		return Decision{Verdict: model.VerdictSufficient, BestEffort: true, Details: err.Error()}
	}

	terms := unhydrated(judgment.UnfamiliarTerms, hydration)

	if hopCount >= e.MaxHops {
		return Decision{
			Verdict:    model.VerdictSufficient,
			BestEffort: judgment.Verdict != model.VerdictSufficient,
			Details:    judgment.Details,
		}
	}

	if len(terms) > 0 {
		return Decision{
			Verdict:         model.VerdictNeedWeb,
			UnfamiliarTerms: terms,
			FollowUpQueries: judgment.FollowUpQueries,
			Details:         judgment.Details,
		}
	}

	if judgment.Verdict == model.VerdictNeedMore {
		return Decision{
			Verdict:         model.VerdictNeedMore,
			FollowUpQueries: judgment.FollowUpQueries,
			Details:         judgment.Details,
		}
	}

	return Decision{Verdict: model.VerdictSufficient, Details: judgment.Details}
}

// unhydrated filters out terms already attempted this item, whether or not
// the lookup succeeded.
func unhydrated(terms []string, hydration []model.HydrationNote) []string {
	done := make(map[string]struct{}, len(hydration))
	for _, note := range hydration {
		done[strings.ToLower(strings.TrimSpace(note.Term))] = struct{}{}
	}

	seen := make(map[string]struct{}, len(terms))
	var out []string
	for _, term := range terms {
		t := strings.TrimSpace(term)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, ok := done[key]; ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}
