package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subramaniyam22/Analyzer/internal/models"
)

// testQueryEmbedder implements QueryEmbedder.
type testQueryEmbedder struct {
	vec         []float32
	shouldError bool
}

func (e *testQueryEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if e.shouldError {
		return nil, errors.New("embedder down")
	}
	return e.vec, nil
}

// testSearcher implements ChunkSearcher, recording the call.
type testSearcher struct {
	results     []models.ScoredChunk
	shouldError bool

	gotProjectID string
	gotVec       []float32
	gotLimit     int
}

func (s *testSearcher) SearchProjectChunks(ctx context.Context, projectID string, queryVec []float32, limit int) ([]models.ScoredChunk, error) {
	s.gotProjectID = projectID
	s.gotVec = queryVec
	s.gotLimit = limit
	if s.shouldError {
		return nil, errors.New("store down")
	}
	return s.results, nil
}

func scored(id string, dist float64) models.ScoredChunk {
	return models.ScoredChunk{
		Chunk:    models.DocumentChunk{ID: id, Text: "chunk " + id},
		Distance: dist,
	}
}

func TestRetrieveReturnsRankedChunks(t *testing.T) {
	searcher := &testSearcher{results: []models.ScoredChunk{
		scored("a", 0.1), scored("b", 0.2), scored("c", 0.2),
	}}
	r := NewRetriever(&testQueryEmbedder{vec: []float32{1, 2, 3}}, searcher)

	res, err := r.Retrieve(context.Background(), "proj-1", "what is revenue?", 3)
	require.NoError(t, err)

	assert.False(t, res.Unavailable)
	require.Len(t, res.Chunks, 3)
	assert.Equal(t, "a", res.Chunks[0].Chunk.ID)
	assert.Equal(t, "proj-1", searcher.gotProjectID)
	assert.Equal(t, []float32{1, 2, 3}, searcher.gotVec)
	assert.Equal(t, 3, searcher.gotLimit)
}

func TestRetrieveDefaultsTopK(t *testing.T) {
	searcher := &testSearcher{}
	r := NewRetriever(&testQueryEmbedder{vec: []float32{1}}, searcher)

	_, err := r.Retrieve(context.Background(), "proj-1", "query", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTopK, searcher.gotLimit)

	_, err = r.Retrieve(context.Background(), "proj-1", "query", -3)
	require.NoError(t, err)
	assert.Equal(t, DefaultTopK, searcher.gotLimit)
}

func TestRetrieveEmbedFailureDegrades(t *testing.T) {
	searcher := &testSearcher{}
	r := NewRetriever(&testQueryEmbedder{shouldError: true}, searcher)

	res, err := r.Retrieve(context.Background(), "proj-1", "query", 5)
	require.NoError(t, err)

	assert.True(t, res.Unavailable)
	assert.Empty(t, res.Chunks)
	// The store is never consulted without a query vector.
	assert.Empty(t, searcher.gotProjectID)
}

func TestRetrieveStoreFailureIsAnError(t *testing.T) {
	r := NewRetriever(&testQueryEmbedder{vec: []float32{1}}, &testSearcher{shouldError: true})

	_, err := r.Retrieve(context.Background(), "proj-1", "query", 5)
	assert.Error(t, err)
}

func TestRetrieveEmptyProject(t *testing.T) {
	r := NewRetriever(&testQueryEmbedder{vec: []float32{1}}, &testSearcher{})

	res, err := r.Retrieve(context.Background(), "proj-empty", "query", 5)
	require.NoError(t, err)

	assert.False(t, res.Unavailable)
	assert.Empty(t, res.Chunks)
}
