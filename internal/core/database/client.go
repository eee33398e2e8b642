package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/subramaniyam22/Analyzer/internal/config"
	"github.com/subramaniyam22/Analyzer/internal/core"
	"github.com/subramaniyam22/Analyzer/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (*DatabaseClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	sqlDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Pool settings sized for an API service plus a small worker pool.
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, sqlDB, cfg.EmbedDim); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: sqlDB}, nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Users

func (c *DatabaseClient) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	const q = `
		INSERT INTO users (id, email, full_name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()))
	`
	_, err := c.db.ExecContext(ctx, q,
		user.ID, user.Email, user.FullName, user.PasswordHash, user.CreatedAt)
	return err
}

func (c *DatabaseClient) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const q = `
		SELECT id, email, full_name, password_hash, created_at
		FROM users WHERE email = $1
	`
	var u models.User
	err := c.db.QueryRowContext(ctx, q, email).Scan(
		&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Projects

func (c *DatabaseClient) CreateProject(ctx context.Context, project *models.Project) error {
	if project == nil {
		return errors.New("nil project")
	}
	const q = `
		INSERT INTO projects (id, owner_id, name, industry, region, created_at)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, now()))
	`
	_, err := c.db.ExecContext(ctx, q,
		project.ID, project.OwnerID, project.Name, project.Industry, project.Region, project.CreatedAt)
	return err
}

func (c *DatabaseClient) GetProjectByID(ctx context.Context, id string) (*models.Project, error) {
	const q = `
		SELECT id, owner_id, name, industry, region, created_at
		FROM projects WHERE id = $1
	`
	var p models.Project
	err := c.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Industry, &p.Region, &p.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *DatabaseClient) ListProjectsByOwner(ctx context.Context, ownerID string) ([]models.Project, error) {
	const q = `
		SELECT id, owner_id, name, industry, region, created_at
		FROM projects
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	rows, err := c.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Industry, &p.Region, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Organizations

func (c *DatabaseClient) CreateOrganization(ctx context.Context, org *models.Organization) error {
	if org == nil {
		return errors.New("nil organization")
	}
	const q = `
		INSERT INTO organizations (id, project_id, name, is_base)
		VALUES ($1, $2, $3, $4)
	`
	_, err := c.db.ExecContext(ctx, q, org.ID, org.ProjectID, org.Name, org.IsBase)
	return err
}

func (c *DatabaseClient) ListOrganizationsByProject(ctx context.Context, projectID string) ([]models.Organization, error) {
	const q = `
		SELECT id, project_id, name, is_base
		FROM organizations
		WHERE project_id = $1
		ORDER BY is_base DESC, name ASC
	`
	rows, err := c.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Organization
	for rows.Next() {
		var o models.Organization
		if err := rows.Scan(&o.ID, &o.ProjectID, &o.Name, &o.IsBase); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Documents

func (c *DatabaseClient) CreateDocument(ctx context.Context, doc *models.Document) error {
	if doc == nil {
		return errors.New("nil document")
	}
	const q = `
		INSERT INTO documents
			(id, project_id, organization_id, file_name, content_type, size_bytes, storage_key, status, created_at, updated_at)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, now()), COALESCE($10, now()))
	`
	_, err := c.db.ExecContext(ctx, q,
		doc.ID, doc.ProjectID, doc.OrganizationID, doc.FileName, doc.ContentType,
		doc.SizeBytes, doc.StorageKey, doc.Status, doc.CreatedAt, doc.UpdatedAt)
	return err
}

func (c *DatabaseClient) GetDocumentByID(ctx context.Context, id string) (*models.Document, error) {
	const q = `
		SELECT id, project_id, organization_id, file_name, content_type, size_bytes, storage_key, status, created_at, updated_at
		FROM documents
		WHERE id = $1
	`
	var d models.Document
	err := c.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.ProjectID, &d.OrganizationID, &d.FileName, &d.ContentType,
		&d.SizeBytes, &d.StorageKey, &d.Status, &d.CreatedAt, &d.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *DatabaseClient) ListDocumentsByProject(ctx context.Context, projectID string) ([]models.Document, error) {
	const q = `
		SELECT id, project_id, organization_id, file_name, content_type, size_bytes, storage_key, status, created_at, updated_at
		FROM documents
		WHERE project_id = $1
		ORDER BY created_at DESC
	`
	rows, err := c.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(
			&d.ID, &d.ProjectID, &d.OrganizationID, &d.FileName, &d.ContentType,
			&d.SizeBytes, &d.StorageKey, &d.Status, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) UpdateDocumentStatus(ctx context.Context, id string, status string) error {
	const q = `
		UPDATE documents
		SET status = $2, updated_at = now()
		WHERE id = $1
	`
	res, err := c.db.ExecContext(ctx, q, id, status)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: %s", core.ErrDocumentNotFound, id)
	}
	return nil
}

// Chunks

// ReplaceDocumentChunks discards the document's existing chunk set and
// inserts the new one in a single transaction. This is the only chunk
// write in the system, which is what makes duplicate job deliveries and
// reprocessing safe.
func (c *DatabaseClient) ReplaceDocumentChunks(ctx context.Context, documentID string, chunks []models.DocumentChunk) error {
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: begin: %v", core.ErrStoreFailure, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM document_chunks WHERE document_id = $1`, documentID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: delete old chunks: %v", core.ErrStoreFailure, err)
	}

	const q = `
		INSERT INTO document_chunks
			(id, document_id, position, text, embedding, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, now()))
	`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: prepare insert: %v", core.ErrStoreFailure, err)
	}
	defer stmt.Close()

	for i := range chunks {
		ch := &chunks[i]

		meta, err := json.Marshal(ch.Metadata)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: marshal metadata: %v", core.ErrStoreFailure, err)
		}

		vec := pgvector.NewVector(ch.Embedding)
		if _, err := stmt.ExecContext(ctx,
			ch.ID, documentID, ch.Position, ch.Text, vec, meta, ch.CreatedAt,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: insert chunk %d: %v", core.ErrStoreFailure, ch.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", core.ErrStoreFailure, err)
	}
	return nil
}

func (c *DatabaseClient) DeleteDocumentChunks(ctx context.Context, documentID string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM document_chunks WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("%w: delete chunks: %v", core.ErrStoreFailure, err)
	}
	return nil
}

func (c *DatabaseClient) GetChunksByDocument(ctx context.Context, documentID string) ([]models.DocumentChunk, error) {
	const q = `
		SELECT id, document_id, position, text, embedding, metadata, created_at
		FROM document_chunks
		WHERE document_id = $1
		ORDER BY position ASC
	`
	rows, err := c.db.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.DocumentChunk
	for rows.Next() {
		var (
			ch   models.DocumentChunk
			emb  pgvector.Vector
			meta []byte
		)
		if err := rows.Scan(&ch.ID, &ch.DocumentID, &ch.Position, &ch.Text, &emb, &meta, &ch.CreatedAt); err != nil {
			return nil, err
		}
		ch.Embedding = emb.Slice()
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &ch.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal metadata for chunk %s: %w", ch.ID, err)
			}
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}

// SearchProjectChunks finds the top-k chunks across a project's documents
// by L2 distance to the query embedding, ties broken by chunk id so the
// ordering is deterministic.
func (c *DatabaseClient) SearchProjectChunks(ctx context.Context, projectID string, queryVec []float32, limit int) ([]models.ScoredChunk, error) {
	const q = `
		SELECT c.id, c.document_id, c.position, c.text, c.metadata, c.embedding <-> $2 AS distance
		FROM document_chunks c
		JOIN documents d ON d.id = c.document_id
		WHERE d.project_id = $1
		ORDER BY distance ASC, c.id ASC
		LIMIT $3
	`
	vec := pgvector.NewVector(queryVec)
	rows, err := c.db.QueryContext(ctx, q, projectID, vec, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ScoredChunk
	for rows.Next() {
		var (
			sc   models.ScoredChunk
			meta []byte
		)
		if err := rows.Scan(&sc.Chunk.ID, &sc.Chunk.DocumentID, &sc.Chunk.Position, &sc.Chunk.Text, &meta, &sc.Distance); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &sc.Chunk.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal metadata for chunk %s: %w", sc.Chunk.ID, err)
			}
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// Chat

func (c *DatabaseClient) AddChatMessage(ctx context.Context, msg *models.ChatMessage) error {
	if msg == nil {
		return errors.New("nil chat message")
	}
	const q = `
		INSERT INTO chat_messages (id, project_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()))
	`
	_, err := c.db.ExecContext(ctx, q, msg.ID, msg.ProjectID, msg.Role, msg.Content, msg.CreatedAt)
	return err
}

func (c *DatabaseClient) ListChatMessagesByProject(ctx context.Context, projectID string) ([]models.ChatMessage, error) {
	const q = `
		SELECT id, project_id, role, content, created_at
		FROM chat_messages
		WHERE project_id = $1
		ORDER BY created_at ASC
	`
	rows, err := c.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Analysis results

func (c *DatabaseClient) CreateAnalysisResult(ctx context.Context, result *models.AnalysisResult) error {
	if result == nil {
		return errors.New("nil analysis result")
	}

	resultsJSON, err := json.Marshal(result.Results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	constraintsJSON, err := json.Marshal(result.Constraints)
	if err != nil {
		return fmt.Errorf("marshal constraints: %w", err)
	}

	const q = `
		INSERT INTO analysis_results (id, project_id, version, results_json, constraints, created_at)
		VALUES (
			$1, $2,
			(SELECT COALESCE(MAX(version), 0) + 1 FROM analysis_results WHERE project_id = $2),
			$3, $4, COALESCE($5, now())
		)
		RETURNING version
	`
	return c.db.QueryRowContext(ctx, q,
		result.ID, result.ProjectID, resultsJSON, constraintsJSON, result.CreatedAt,
	).Scan(&result.Version)
}

func (c *DatabaseClient) GetLatestAnalysisResult(ctx context.Context, projectID string) (*models.AnalysisResult, error) {
	const q = `
		SELECT id, project_id, version, results_json, constraints, created_at
		FROM analysis_results
		WHERE project_id = $1
		ORDER BY version DESC
		LIMIT 1
	`
	var (
		r           models.AnalysisResult
		results     []byte
		constraints []byte
	)
	err := c.db.QueryRowContext(ctx, q, projectID).Scan(
		&r.ID, &r.ProjectID, &r.Version, &results, &constraints, &r.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(results, &r.Results); err != nil {
		return nil, fmt.Errorf("unmarshal results: %w", err)
	}
	if len(constraints) > 0 {
		if err := json.Unmarshal(constraints, &r.Constraints); err != nil {
			return nil, fmt.Errorf("unmarshal constraints: %w", err)
		}
	}
	return &r, nil
}

var _ core.DbClient = (*DatabaseClient)(nil)
