package synthesis

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/dossier/internal/core/model"
	"github.com/agenthands/dossier/internal/llm"
)

// SynthesisError means no draft could be produced for an item. The
// orchestrator downgrades the section to a stub.
type SynthesisError struct {
	ItemID string
	Cause  error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesis failed for item %s: %v", e.ItemID, e.Cause)
}

func (e *SynthesisError) Unwrap() error { return e.Cause }

// Synthesizer drafts the item's prose section. The prompt is built from
// exactly the evidence and hydration notes passed in, nothing else, so the
// draft cannot cite material the research loop did not admit.
type Synthesizer struct {
	LLM            llm.LLMClient
	Prompt         string
	BestEffortNote string // appended instruction when the hop bound forced sufficiency
	EvidenceCap    int
}

func NewSynthesizer(llmClient llm.LLMClient, prompt, bestEffortNote string, evidenceCap int) *Synthesizer {
	if evidenceCap <= 0 {
		evidenceCap = 20
	}
	return &Synthesizer{
		LLM:            llmClient,
		Prompt:         prompt,
		BestEffortNote: bestEffortNote,
		EvidenceCap:    evidenceCap,
	}
}

func (s *Synthesizer) Synthesize(ctx context.Context, item model.ChecklistItem, evidence []model.EvidenceChunk, hydration []model.HydrationNote, bestEffort bool) (string, error) {
	var ev strings.Builder
	for i, chunk := range evidence {
		if i >= s.EvidenceCap {
			break
		}
		fmt.Fprintf(&ev, "[Source: %s]\n%s\n\n", chunk.Provenance, chunk.Text)
	}

	var defs strings.Builder
	for _, note := range hydration {
		if note.Definition != "" {
			fmt.Fprintf(&defs, "- %s: %s\n", note.Term, note.Definition)
		}
	}

	prompt := fmt.Sprintf(s.Prompt, item.ID, item.Title, item.Description, ev.String(), defs.String())
	if bestEffort && s.BestEffortNote != "" {
		prompt += "\n" + s.BestEffortNote
	}

	draft, err := s.LLM.Generate(ctx, prompt)
	if err != nil {
		return "", &SynthesisError{ItemID: item.ID, Cause: err}
	}

	draft = strings.TrimSpace(draft)
	if draft == "" {
		return "", &SynthesisError{ItemID: item.ID, Cause: fmt.Errorf("empty draft")}
	}
	return draft, nil
}
