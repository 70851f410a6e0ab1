package synthesis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

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

const sectionPrompt = "write %s %s %s\nEVIDENCE:\n%s\nDEFS:\n%s"

func testItem() model.ChecklistItem {
	return model.ChecklistItem{ID: "17a", Title: "Outcomes and estimation", Description: "Results for each group."}
}

func TestSynthesize(t *testing.T) {
	mockLLM := &MockLLMClient{Response: "The primary outcome was reported for both groups."}
	s := NewSynthesizer(mockLLM, sectionPrompt, "reduced confidence note", 20)

	evidence := []model.EvidenceChunk{{Provenance: "results.pdf p.9", Text: "hazard ratio 0.82"}}
	hydration := []model.HydrationNote{{Term: "hazard ratio", Definition: "a relative event rate"}}

	draft, err := s.Synthesize(context.Background(), testItem(), evidence, hydration, false)

	assert.NoError(t, err)
	assert.Equal(t, "The primary outcome was reported for both groups.", draft)
	assert.Contains(t, mockLLM.Prompt, "results.pdf p.9")
	assert.Contains(t, mockLLM.Prompt, "hazard ratio 0.82")
	assert.Contains(t, mockLLM.Prompt, "hazard ratio: a relative event rate")
	assert.NotContains(t, mockLLM.Prompt, "reduced confidence note")
}

func TestSynthesizeBestEffortAppendsNote(t *testing.T) {
	mockLLM := &MockLLMClient{Response: "draft"}
	s := NewSynthesizer(mockLLM, sectionPrompt, "reduced confidence note", 20)

	_, err := s.Synthesize(context.Background(), testItem(), nil, nil, true)

	assert.NoError(t, err)
	assert.Contains(t, mockLLM.Prompt, "reduced confidence note")
}

func TestSynthesizeFailedHydrationNotesAreOmitted(t *testing.T) {
	mockLLM := &MockLLMClient{Response: "draft"}
	s := NewSynthesizer(mockLLM, sectionPrompt, "", 20)

	hydration := []model.HydrationNote{{Term: "minimisation", Err: "no results"}}
	_, err := s.Synthesize(context.Background(), testItem(), nil, hydration, false)

	assert.NoError(t, err)
	assert.NotContains(t, mockLLM.Prompt, "minimisation")
}

func TestSynthesizeEvidenceCap(t *testing.T) {
	mockLLM := &MockLLMClient{Response: "draft"}
	s := NewSynthesizer(mockLLM, sectionPrompt, "", 1)

	evidence := []model.EvidenceChunk{
		{Provenance: "a", Text: "kept"},
		{Provenance: "b", Text: "dropped"},
	}
	_, err := s.Synthesize(context.Background(), testItem(), evidence, nil, false)

	assert.NoError(t, err)
	assert.Contains(t, mockLLM.Prompt, "kept")
	assert.NotContains(t, mockLLM.Prompt, "dropped")
}

func TestSynthesizeLLMError(t *testing.T) {
	mockLLM := &MockLLMClient{Err: errors.New("provider down")}
	s := NewSynthesizer(mockLLM, sectionPrompt, "", 20)

	_, err := s.Synthesize(context.Background(), testItem(), nil, nil, false)

	var sErr *SynthesisError
	assert.True(t, errors.As(err, &sErr))
	assert.Equal(t, "17a", sErr.ItemID)
}

func TestSynthesizeEmptyDraft(t *testing.T) {
	mockLLM := &MockLLMClient{Response: "   \n"}
	s := NewSynthesizer(mockLLM, sectionPrompt, "", 20)

	_, err := s.Synthesize(context.Background(), testItem(), nil, nil, false)

	var sErr *SynthesisError
	assert.True(t, errors.As(err, &sErr))
}
