package ingest

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/subramaniyam22/Analyzer/internal/core"
	"github.com/subramaniyam22/Analyzer/internal/core/extract"
	"github.com/subramaniyam22/Analyzer/internal/models"
)

// Ingestor schedules and runs document ingestion jobs.
type Ingestor interface {
	Enqueue(docID string) error
	ProcessOne(ctx context.Context, docID string) error
}

// Store is the slice of persistence the ingestion job needs. All worker
// coordination goes through these records; workers share no other state.
type Store interface {
	GetDocumentByID(ctx context.Context, id string) (*models.Document, error)
	UpdateDocumentStatus(ctx context.Context, id string, status string) error
	ReplaceDocumentChunks(ctx context.Context, documentID string, chunks []models.DocumentChunk) error
	DeleteDocumentChunks(ctx context.Context, documentID string) error
}

// ObjectStore fetches raw document bytes from object storage.
type ObjectStore interface {
	GetFile(ctx context.Context, bucket, key string) ([]byte, error)
}

// TextExtractor converts raw file bytes into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, contentType, filename string) (*extract.Result, error)
}

// Config tunes the ingestion worker pool.
type Config struct {
	Bucket     string
	Workers    int
	JobTimeout time.Duration
}

// DocumentIngestor drives Extract → Split → Embed → Replace for each
// enqueued document, moving its status pending → processing →
// completed/failed. Jobs are delivered at least once; the single atomic
// chunk replace makes duplicate deliveries safe, with the last run to
// finish winning.
type DocumentIngestor struct {
	db        Store
	obj       ObjectStore
	embedder  core.EmbeddingProvider
	extractor TextExtractor
	splitter  *Splitter
	cfg       Config
	pool      *ants.Pool
}

func NewDocumentIngestor(db Store, obj ObjectStore, emb core.EmbeddingProvider, ext TextExtractor, splitter *Splitter, cfg Config) (*DocumentIngestor, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 5 * time.Minute
	}

	pool, err := ants.NewPool(cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("ingest worker pool: %w", err)
	}

	return &DocumentIngestor{
		db: db, obj: obj, embedder: emb, extractor: ext,
		splitter: splitter, cfg: cfg, pool: pool,
	}, nil
}

// Enqueue schedules a document for ingestion on the worker pool. Each job
// runs under its own wall-clock timeout so a stuck extraction or embed
// call cannot pin a worker forever.
func (i *DocumentIngestor) Enqueue(docID string) error {
	return i.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), i.cfg.JobTimeout)
		defer cancel()

		if err := i.ProcessOne(ctx, docID); err != nil {
			log.Printf("ingest: document %s: %v", docID, err)
		}
	})
}

// Close releases the worker pool. Queued jobs that have not started are
// dropped; redelivery is the queue producer's concern.
func (i *DocumentIngestor) Close() {
	i.pool.Release()
}

// ProcessOne runs the full ingestion state machine for one document.
// A missing document aborts with no status mutation. Any failure after
// the document enters processing clears its chunk set before marking it
// failed, so readers never see a partial set.
func (i *DocumentIngestor) ProcessOne(ctx context.Context, docID string) error {
	doc, err := i.db.GetDocumentByID(ctx, docID)
	if err != nil {
		return fmt.Errorf("load document %s: %w", docID, err)
	}
	if doc == nil {
		return fmt.Errorf("%w: %s", core.ErrDocumentNotFound, docID)
	}

	if err := i.db.UpdateDocumentStatus(ctx, docID, models.StatusProcessing); err != nil {
		return fmt.Errorf("mark %s processing: %w", docID, err)
	}

	if err := i.run(ctx, doc); err != nil {
		i.rollback(docID)
		return err
	}

	return i.db.UpdateDocumentStatus(ctx, docID, models.StatusCompleted)
}

func (i *DocumentIngestor) run(ctx context.Context, doc *models.Document) error {
	data, err := i.obj.GetFile(ctx, i.cfg.Bucket, doc.StorageKey)
	if err != nil {
		return fmt.Errorf("fetch object %s: %w", doc.StorageKey, err)
	}

	res, err := i.extractor.Extract(ctx, data, doc.ContentType, doc.FileName)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	// Zero segments is a valid outcome (e.g. a scan whose OCR found
	// nothing); the document still completes, with an empty chunk set.
	segments := i.splitter.Split(res.Text)

	var vecs [][]float32
	if len(segments) > 0 {
		vecs, err = i.embedder.EmbedTexts(ctx, segments)
		if err != nil {
			return fmt.Errorf("embed: %w", err)
		}
		if len(vecs) != len(segments) {
			return fmt.Errorf("embed size mismatch: got %d want %d", len(vecs), len(segments))
		}
	}

	chunks := make([]models.DocumentChunk, len(segments))
	for pos := range segments {
		chunks[pos] = models.DocumentChunk{
			ID:         uuid.NewString(),
			DocumentID: doc.ID,
			Position:   pos,
			Text:       segments[pos],
			Embedding:  vecs[pos],
			Metadata: map[string]any{
				"page":     pos + 1,
				"filename": doc.FileName,
				"ocr":      res.UsedOCR,
			},
		}
	}

	if err := i.db.ReplaceDocumentChunks(ctx, doc.ID, chunks); err != nil {
		return fmt.Errorf("persist chunks: %w", err)
	}
	return nil
}

// rollback clears whatever chunk set exists for the document and marks it
// failed. It uses a fresh context: the job context may already be past
// its deadline, and a failed document must not keep stale chunks.
func (i *DocumentIngestor) rollback(docID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := i.db.DeleteDocumentChunks(ctx, docID); err != nil {
		log.Printf("ingest: clear chunks for %s: %v", docID, err)
	}
	if err := i.db.UpdateDocumentStatus(ctx, docID, models.StatusFailed); err != nil {
		log.Printf("ingest: mark %s failed: %v", docID, err)
	}
}

var _ Ingestor = (*DocumentIngestor)(nil)
