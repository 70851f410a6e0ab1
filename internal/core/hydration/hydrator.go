package hydration

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/agenthands/dossier/internal/core/model"
)

// TermSearcher is the external web-lookup collaborator. This is the only
// path by which the research core reaches the open web.
type TermSearcher interface {
	LookupTerm(ctx context.Context, term string) (definition string, sourceURL string, err error)
}

// HydrationError records a single failed term lookup. Per-term failures are
// non-fatal: the term still gets a note, with an empty definition.
type HydrationError struct {
	Term  string
	Cause error
}

func (e *HydrationError) Error() string {
	return fmt.Sprintf("hydration failed for term %q: %v", e.Term, e.Cause)
}

func (e *HydrationError) Unwrap() error { return e.Cause }

// Hydrator resolves unfamiliar terms to definitional notes, one external
// lookup per distinct term.
type Hydrator struct {
	Search TermSearcher
}

func NewHydrator(search TermSearcher) *Hydrator {
	return &Hydrator{Search: search}
}

// Hydrate returns one note per distinct term. A failed or cancelled lookup
// degrades that term's note rather than aborting the batch; marking the term
// attempted is what prevents it from being re-queried later in the item's
// lifecycle.
func (h *Hydrator) Hydrate(ctx context.Context, terms []string) []model.HydrationNote {
	seen := make(map[string]struct{}, len(terms))
	var notes []model.HydrationNote

	for _, term := range terms {
		t := strings.TrimSpace(term)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if err := ctx.Err(); err != nil {
			notes = append(notes, model.HydrationNote{Term: t, Err: err.Error()})
			continue
		}

		definition, sourceURL, err := h.Search.LookupTerm(ctx, t)
		if err != nil {
			hErr := &HydrationError{Term: t, Cause: err}
			log.Printf("Hydration: %v", hErr)
			notes = append(notes, model.HydrationNote{Term: t, Err: err.Error()})
			continue
		}

		notes = append(notes, model.HydrationNote{
			Term:       t,
			Definition: definition,
			SourceURL:  sourceURL,
		})
	}

	return notes
}
