package driver

// SearchChunksQuery runs vector similarity search over the ingested corpus
// via Memgraph's MAGE vector_search module. The embedding index is created
// by the ingestion pipeline; this core only reads.
const SearchChunksQuery = `
	CALL vector_search.search("chunk_embedding_index", $top_k, $embedding)
	YIELD node, similarity
	WHERE node.group_id = $group_id AND similarity >= $score_threshold
	RETURN node.source_id AS source_id,
	       node.text AS text,
	       node.provenance AS provenance,
	       similarity AS score
	ORDER BY score DESC
`
