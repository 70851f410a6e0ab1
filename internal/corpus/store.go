package corpus

import (
	"context"
	"fmt"

	"github.com/agenthands/dossier/internal/core/model"
	"github.com/agenthands/dossier/internal/driver"
	"github.com/agenthands/dossier/internal/llm"
)

// Store answers corpus queries: the query text is embedded with the same
// model used at ingestion time, then matched against the vector index. The
// corpus is read-only from here.
type Store struct {
	Driver         driver.GraphDriver
	Embedder       llm.EmbedderClient
	GroupID        string
	ScoreThreshold float64
}

func NewStore(d driver.GraphDriver, embedder llm.EmbedderClient, groupID string, scoreThreshold float64) *Store {
	return &Store{
		Driver:         d,
		Embedder:       embedder,
		GroupID:        groupID,
		ScoreThreshold: scoreThreshold,
	}
}

func (s *Store) Search(ctx context.Context, query string, topK int) ([]model.EvidenceChunk, error) {
	if s.Embedder == nil {
		return nil, fmt.Errorf("corpus search requires an embedding-capable llm provider")
	}

	vec, err := s.Embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	params := map[string]interface{}{
		"embedding":       vec,
		"top_k":           topK,
		"group_id":        s.GroupID,
		"score_threshold": s.ScoreThreshold,
	}

	result, err := s.Driver.ExecuteQuery(ctx, driver.SearchChunksQuery, params)
	if err != nil {
		return nil, err
	}

	var chunks []model.EvidenceChunk
	for _, record := range result.Records {
		sourceID, _ := record.Get("source_id")
		text, _ := record.Get("text")
		provenance, _ := record.Get("provenance")
		score, _ := record.Get("score")

		chunk := model.EvidenceChunk{}
		if v, ok := sourceID.(string); ok {
			chunk.SourceID = v
		}
		if v, ok := text.(string); ok {
			chunk.Text = v
		}
		if v, ok := provenance.(string); ok {
			chunk.Provenance = v
		}
		if v, ok := score.(float64); ok {
			chunk.Score = v
		}
		if chunk.Text == "" {
			continue
		}
		chunks = append(chunks, chunk)
	}

	return chunks, nil
}
