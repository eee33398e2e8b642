package models

import (
	"time"
)

// Document ingestion states. A document is created as StatusPending by the
// upload handler and only the ingestion worker moves it afterwards.
// StatusCompleted and StatusFailed are terminal; reprocessing is a fresh
// run that replaces the chunk set, not a resume.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// User represents an authenticated user of the system.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	FullName     string    `db:"full_name" json:"full_name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Project groups the organizations and documents of one analysis.
type Project struct {
	ID        string    `db:"id" json:"id"`
	OwnerID   string    `db:"owner_id" json:"owner_id"`
	Name      string    `db:"name" json:"name"`
	Industry  string    `db:"industry" json:"industry"`
	Region    string    `db:"region" json:"region"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Organization is a company under a project. One organization per project
// is the base; the rest are competitors.
type Organization struct {
	ID        string `db:"id" json:"id"`
	ProjectID string `db:"project_id" json:"project_id"`
	Name      string `db:"name" json:"name"`
	IsBase    bool   `db:"is_base" json:"is_base"`
}

// Document is an uploaded file record. The pipeline mutates only Status;
// everything else is written once at upload time.
type Document struct {
	ID             string    `db:"id" json:"id"`
	ProjectID      string    `db:"project_id" json:"project_id"`
	OrganizationID string    `db:"organization_id" json:"organization_id"`
	FileName       string    `db:"file_name" json:"file_name"`
	ContentType    string    `db:"content_type" json:"content_type"`
	SizeBytes      int64     `db:"size_bytes" json:"size_bytes"`
	StorageKey     string    `db:"storage_key" json:"storage_key"`
	Status         string    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// DocumentChunk is one text segment of a document with its embedding.
// Chunks are written as a single batch per ingestion run and never mutated
// individually; a rerun replaces the whole set.
type DocumentChunk struct {
	ID         string         `db:"id" json:"id"`
	DocumentID string         `db:"document_id" json:"document_id"`
	Position   int            `db:"position" json:"position"`
	Text       string         `db:"text" json:"text"`
	Embedding  []float32      `db:"embedding" json:"-"`
	Metadata   map[string]any `db:"metadata" json:"metadata"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}

// ScoredChunk pairs a retrieved chunk with its L2 distance to the query
// vector. Smaller is closer.
type ScoredChunk struct {
	Chunk    DocumentChunk `json:"chunk"`
	Distance float64       `json:"distance"`
}

// ChatMessage is one turn of a project chat (role "user" or "assistant").
type ChatMessage struct {
	ID        string    `db:"id" json:"id"`
	ProjectID string    `db:"project_id" json:"project_id"`
	Role      string    `db:"role" json:"role"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AnalysisResult is one versioned analysis run for a project. Results and
// constraints are free-form JSON produced by and for the LLM layer.
type AnalysisResult struct {
	ID          string         `db:"id" json:"id"`
	ProjectID   string         `db:"project_id" json:"project_id"`
	Version     int            `db:"version" json:"version"`
	Results     map[string]any `db:"results_json" json:"results"`
	Constraints map[string]any `db:"constraints" json:"constraints"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}
