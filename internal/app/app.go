package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/subramaniyam22/Analyzer/internal/config"
	db "github.com/subramaniyam22/Analyzer/internal/core/database"
	"github.com/subramaniyam22/Analyzer/internal/core/extract"
	"github.com/subramaniyam22/Analyzer/internal/core/ingest"
	"github.com/subramaniyam22/Analyzer/internal/core/llm"
	objectclient "github.com/subramaniyam22/Analyzer/internal/core/object-client"
	"github.com/subramaniyam22/Analyzer/internal/core/retrieval"
	"github.com/subramaniyam22/Analyzer/internal/services"
)

type App struct {
	DBClient     *db.DatabaseClient
	ObjectClient *objectclient.S3Client
	Ingestor     *ingest.DocumentIngestor
	Server       *Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Database initialized and ready.")

	objClient, err := objectclient.NewS3Client(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Object client initialized and ready.")

	embedder, err := llm.NewGeminiEmbedder(appCtx, cfg.AIAPIKey, cfg.EmbedModel, cfg.EmbedDim, cfg.EmbedBatchSize, cfg.EmbedMaxRetries)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the embedder: %w", err)
	}

	llmProvider, err := llm.NewGeminiLLM(appCtx, cfg.AIAPIKey, cfg.GenModel)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the generator: %w", err)
	}

	extractor := extract.New(extract.NewTesseractOCR())
	splitter := ingest.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)

	ingestor, err := ingest.NewDocumentIngestor(dbClient, objClient, embedder, extractor, splitter, ingest.Config{
		Bucket:     cfg.BucketName,
		Workers:    cfg.IngestWorkers,
		JobTimeout: cfg.JobTimeout,
	})
	if err != nil {
		return nil, err
	}

	retriever := retrieval.NewRetriever(embedder, dbClient)
	chatService := services.NewChatService(dbClient, retriever, llmProvider)
	analysisService := services.NewAnalysisService(dbClient, llmProvider)

	server := NewServer(cfg, dbClient, objClient, ingestor, chatService, analysisService)

	return &App{
		DBClient:     dbClient,
		ObjectClient: objClient,
		Ingestor:     ingestor,
		Server:       server,
	}, nil
}

func (a *App) Close() {
	if a.Ingestor != nil {
		a.Ingestor.Close()
	}
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
