package evaluation

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/dossier/internal/core/common"
	"github.com/agenthands/dossier/internal/core/model"
	"github.com/agenthands/dossier/internal/llm"
)

// LLMJudge asks the drafting model whether the evidence covers the item.
type LLMJudge struct {
	LLM         llm.LLMClient
	Prompt      string
	EvidenceCap int // max chunks included in the judging context
	SnippetCap  int // max chars of each chunk's text
}

func NewLLMJudge(llmClient llm.LLMClient, prompt string, evidenceCap, snippetCap int) *LLMJudge {
	if evidenceCap <= 0 {
		evidenceCap = 15
	}
	if snippetCap <= 0 {
		snippetCap = 500
	}
	return &LLMJudge{
		LLM:         llmClient,
		Prompt:      prompt,
		EvidenceCap: evidenceCap,
		SnippetCap:  snippetCap,
	}
}

type judgeResponse struct {
	Verdict         string   `json:"verdict"`
	Details         string   `json:"details"`
	UnfamiliarTerms []string `json:"unfamiliar_terms"`
	FollowUpQueries []string `json:"follow_up_queries"`
}

func (j *LLMJudge) Judge(ctx context.Context, item model.ChecklistItem, evidence []model.EvidenceChunk, hydration []model.HydrationNote) (Judgment, error) {
	var sb strings.Builder
	for i, chunk := range evidence {
		if i >= j.EvidenceCap {
			break
		}
		text := chunk.Text
		if len(text) > j.SnippetCap {
			text = text[:j.SnippetCap]
		}
		fmt.Fprintf(&sb, "[%s] %s\n\n", chunk.Provenance, text)
	}

	var defs strings.Builder
	for _, note := range hydration {
		if note.Definition != "" {
			fmt.Fprintf(&defs, "- %s: %s\n", note.Term, note.Definition)
		}
	}

	prompt := fmt.Sprintf(j.Prompt, item.ID, item.Title, item.Description, sb.String(), defs.String())

	raw, err := j.LLM.Generate(ctx, prompt)
	if err != nil {
		return Judgment{}, fmt.Errorf("failed to generate judgment: %w", err)
	}

	parsed, err := common.ParseJSON[judgeResponse](raw)
	if err != nil {
		// An unparseable judgment defaults to sufficient rather than looping.
		return Judgment{Verdict: model.VerdictSufficient, Details: raw}, nil
	}

	return Judgment{
		Verdict:         normalizeVerdict(parsed.Verdict),
		UnfamiliarTerms: parsed.UnfamiliarTerms,
		FollowUpQueries: parsed.FollowUpQueries,
		Details:         parsed.Details,
	}, nil
}

func normalizeVerdict(raw string) model.Verdict {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(model.VerdictNeedMore):
		return model.VerdictNeedMore
	case string(model.VerdictNeedWeb):
		return model.VerdictNeedWeb
	default:
		return model.VerdictSufficient
	}
}
