package model

import (
	"crypto/sha256"
	"encoding/hex"
)

// EvidenceChunk is one passage retrieved from the document corpus.
type EvidenceChunk struct {
	SourceID   string  `json:"source_id"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
	Provenance string  `json:"provenance"` // e.g. "protocol.pdf p.12"
}

// ChunkKey is the deduplication identity of a chunk: same source, same text.
type ChunkKey struct {
	SourceID string
	TextHash string
}

func (c EvidenceChunk) Key() ChunkKey {
	sum := sha256.Sum256([]byte(c.Text))
	return ChunkKey{SourceID: c.SourceID, TextHash: hex.EncodeToString(sum[:])}
}
