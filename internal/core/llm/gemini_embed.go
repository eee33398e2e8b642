package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"

	"github.com/subramaniyam22/Analyzer/internal/core"
)

// GeminiEmbedder maps text to dense vectors through the Gemini embedding
// API. The service is treated as unreliable: every call is retried with
// exponential backoff, and exhausting the budget surfaces as
// core.ErrEmbeddingUnavailable rather than a zero vector.
type GeminiEmbedder struct {
	client      *genai.Client
	modelName   string
	dim         int
	batchSize   int
	maxAttempts int
	baseDelay   time.Duration
}

// NewGeminiEmbedder builds the embedding provider. dim is the expected
// vector dimensionality; every returned embedding is checked against it
// because the vector column is sized to exactly that dimension and a
// mismatched model would otherwise fail opaquely at insert time.
func NewGeminiEmbedder(ctx context.Context, apiKey, modelName string, dim, batchSize, maxAttempts int) (*GeminiEmbedder, error) {
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = "gemini-embedding-001"
	}
	if batchSize <= 0 {
		batchSize = 16
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &GeminiEmbedder{
		client:      cl,
		modelName:   modelName,
		dim:         dim,
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
		baseDelay:   time.Second,
	}, nil
}

func (g *GeminiEmbedder) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// EmbedText embeds a single text.
func (g *GeminiEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vecs, err := g.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedTexts embeds all texts in order, splitting them into bounded
// batches embedded with limited concurrency.
func (g *GeminiEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, len(texts))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(4) // Bound concurrency to avoid tripping rate limits.

	for start := 0; start < len(texts); start += g.batchSize {
		start := start
		end := min(start+g.batchSize, len(texts))
		eg.Go(func() error {
			return g.embedBatch(gctx, texts[start:end], out[start:end])
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *GeminiEmbedder) embedBatch(ctx context.Context, batch []string, out [][]float32) error {
	em := g.client.EmbeddingModel(g.modelName)

	b := em.NewBatch()
	for _, t := range batch {
		// Embedding models are sensitive to literal newlines.
		b.AddContent(genai.Text(strings.ReplaceAll(t, "\n", " ")))
	}

	var resp *genai.BatchEmbedContentsResponse
	err := retryWithBackoff(ctx, func() error {
		var err error
		resp, err = em.BatchEmbedContents(ctx, b)
		return err
	}, transient, g.maxAttempts, g.baseDelay)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrEmbeddingUnavailable, err)
	}
	if len(resp.Embeddings) != len(batch) {
		return fmt.Errorf("%w: got %d embeddings for %d texts", core.ErrEmbeddingUnavailable, len(resp.Embeddings), len(batch))
	}

	for i, e := range resp.Embeddings {
		if err := checkDim(g.modelName, g.dim, e.Values); err != nil {
			return err
		}
		out[i] = e.Values
	}
	return nil
}

// checkDim rejects vectors whose dimensionality does not match the
// configured one. A mismatch is a configuration error (wrong model for
// EMBED_DIM), not a transient outage, so it is not retried.
func checkDim(modelName string, dim int, values []float32) error {
	if dim > 0 && len(values) != dim {
		return fmt.Errorf("embedding dimension mismatch: model %s returned %d values, configured for %d", modelName, len(values), dim)
	}
	return nil
}

var _ core.EmbeddingProvider = (*GeminiEmbedder)(nil)
