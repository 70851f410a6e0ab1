package retrieval

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/agenthands/dossier/internal/core/model"
)

// SearchClient is the read-only corpus query collaborator.
type SearchClient interface {
	Search(ctx context.Context, query string, topK int) ([]model.EvidenceChunk, error)
}

// RetrievalError wraps a transient search failure that survived all retries.
// It is logged, never propagated: an exhausted query contributes an empty
// result and the loop decides whether to escalate or terminate.
type RetrievalError struct {
	Query string
	Cause error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval failed for query %q: %v", e.Query, e.Cause)
}

func (e *RetrievalError) Unwrap() error { return e.Cause }

// Retriever issues the item's queries against the corpus and merges the
// results into a deduplicated, score-ordered evidence batch.
type Retriever struct {
	Corpus       SearchClient
	TopKPerQuery int
	MaxRetries   int
	RetryDelay   time.Duration
}

func NewRetriever(corpus SearchClient, topKPerQuery, maxRetries int) *Retriever {
	if topKPerQuery <= 0 {
		topKPerQuery = 5
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Retriever{
		Corpus:       corpus,
		TopKPerQuery: topKPerQuery,
		MaxRetries:   maxRetries,
		RetryDelay:   time.Second,
	}
}

// Retrieve runs every query, drops chunks whose key is in exclude or already
// merged this call, and sorts survivors by descending score. Each hop
// therefore contributes only new evidence. The returned error is non-nil
// only on cancellation; transient search failures degrade to an empty
// contribution for that query.
func (r *Retriever) Retrieve(ctx context.Context, queries []string, exclude map[model.ChunkKey]struct{}) ([]model.EvidenceChunk, error) {
	seen := make(map[model.ChunkKey]struct{})
	var merged []model.EvidenceChunk

	for _, q := range queries {
		if err := ctx.Err(); err != nil {
			return merged, err
		}

		results, err := r.searchWithRetry(ctx, q)
		if err != nil {
			if ctx.Err() != nil {
				return merged, ctx.Err()
			}
			log.Printf("Retrieval: %v", err)
			continue
		}

		for _, chunk := range results {
			key := chunk.Key()
			if _, old := exclude[key]; old {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, chunk)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	return merged, nil
}

func (r *Retriever) searchWithRetry(ctx context.Context, query string) ([]model.EvidenceChunk, error) {
	var lastErr error
	delay := r.RetryDelay

	for attempt := 0; attempt < r.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		chunks, err := r.Corpus.Search(ctx, query, r.TopKPerQuery)
		if err == nil {
			return chunks, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return nil, &RetrievalError{Query: query, Cause: lastErr}
}
