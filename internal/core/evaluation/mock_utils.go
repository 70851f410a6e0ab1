package evaluation

import (
	"context"

	"github.com/agenthands/dossier/internal/core/model"
)

type MockLLMClient struct {
	Response string
	Err      error
	Prompt   string
}

func (m *MockLLMClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.Prompt = prompt
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

type MockJudge struct {
	Judgment Judgment
	Err      error
}

func (m *MockJudge) Judge(ctx context.Context, item model.ChecklistItem, evidence []model.EvidenceChunk, hydration []model.HydrationNote) (Judgment, error) {
	if m.Err != nil {
		return Judgment{}, m.Err
	}
	return m.Judgment, nil
}
