package core

import (
	"context"
	"io"

	"github.com/subramaniyam22/Analyzer/internal/models"
)

// DbClient defines all persistence operations the services need.
// It abstracts Postgres/pgvector so higher layers never depend on a
// specific DB.
type DbClient interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	CreateProject(ctx context.Context, project *models.Project) error
	GetProjectByID(ctx context.Context, id string) (*models.Project, error)
	ListProjectsByOwner(ctx context.Context, ownerID string) ([]models.Project, error)

	CreateOrganization(ctx context.Context, org *models.Organization) error
	ListOrganizationsByProject(ctx context.Context, projectID string) ([]models.Organization, error)

	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocumentByID(ctx context.Context, id string) (*models.Document, error)
	ListDocumentsByProject(ctx context.Context, projectID string) ([]models.Document, error)
	UpdateDocumentStatus(ctx context.Context, id string, status string) error

	// ReplaceDocumentChunks discards every chunk of the document and
	// inserts the new set in a single transaction. Idempotent reruns and
	// duplicate queue deliveries rely on this being the only chunk write.
	ReplaceDocumentChunks(ctx context.Context, documentID string, chunks []models.DocumentChunk) error
	DeleteDocumentChunks(ctx context.Context, documentID string) error
	GetChunksByDocument(ctx context.Context, documentID string) ([]models.DocumentChunk, error)

	// SearchProjectChunks returns up to limit chunks across the project's
	// documents ordered by ascending L2 distance to queryVec, ties broken
	// by chunk id.
	SearchProjectChunks(ctx context.Context, projectID string, queryVec []float32, limit int) ([]models.ScoredChunk, error)

	AddChatMessage(ctx context.Context, msg *models.ChatMessage) error
	ListChatMessagesByProject(ctx context.Context, projectID string) ([]models.ChatMessage, error)

	CreateAnalysisResult(ctx context.Context, result *models.AnalysisResult) error
	GetLatestAnalysisResult(ctx context.Context, projectID string) (*models.AnalysisResult, error)

	Close() error
}

// ObjectClient defines interactions with S3 or any object storage.
// It's abstract so AWS can be replaced with MinIO, GCP, etc. easily.
type ObjectClient interface {
	UploadFile(ctx context.Context, bucket, key string, data io.Reader, contentType string) error
	GetFile(ctx context.Context, bucket, key string) ([]byte, error)
	DeleteFile(ctx context.Context, bucket, key string) error
}
