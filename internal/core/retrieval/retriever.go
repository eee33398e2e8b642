package retrieval

import (
	"context"
	"fmt"
	"log"

	"github.com/subramaniyam22/Analyzer/internal/models"
)

// DefaultTopK is the number of chunks retrieved when the caller does not
// ask for a specific count.
const DefaultTopK = 5

// QueryEmbedder embeds a single query string.
type QueryEmbedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// ChunkSearcher is the nearest-neighbor read side of the chunk store.
type ChunkSearcher interface {
	SearchProjectChunks(ctx context.Context, projectID string, queryVec []float32, limit int) ([]models.ScoredChunk, error)
}

// Result carries the ranked chunks for a query. Unavailable is set when
// the query could not be embedded; callers are expected to degrade to a
// non-grounded answer rather than fail.
type Result struct {
	Chunks      []models.ScoredChunk
	Unavailable bool
}

// Retriever embeds a free-text query and returns the nearest chunks
// across a project's documents. Ranking is entirely the store's; no
// re-ranking happens here.
type Retriever struct {
	embedder QueryEmbedder
	store    ChunkSearcher
}

func NewRetriever(embedder QueryEmbedder, store ChunkSearcher) *Retriever {
	return &Retriever{embedder: embedder, store: store}
}

// Retrieve returns up to k chunks ordered by ascending distance to the
// query. An embedding failure yields Unavailable instead of an error; a
// store failure is a real error. A project with no ingested documents
// yields an empty, available result.
func (r *Retriever) Retrieve(ctx context.Context, projectID, query string, k int) (*Result, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	vec, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		log.Printf("retrieval: embed query for project %s: %v", projectID, err)
		return &Result{Unavailable: true}, nil
	}

	chunks, err := r.store.SearchProjectChunks(ctx, projectID, vec, k)
	if err != nil {
		return nil, fmt.Errorf("search project %s: %w", projectID, err)
	}

	return &Result{Chunks: chunks}, nil
}
