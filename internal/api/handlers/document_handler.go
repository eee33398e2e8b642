package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	middleware "github.com/subramaniyam22/Analyzer/internal/api/middlewares"
	"github.com/subramaniyam22/Analyzer/internal/core"
	"github.com/subramaniyam22/Analyzer/internal/core/ingest"
	"github.com/subramaniyam22/Analyzer/internal/models"
)

// Upload size cap, 50 MiB.
const maxUploadBytes = 50 << 20

type DocumentHandler struct {
	dbclient  core.DbClient
	objclient core.ObjectClient
	ingestor  ingest.Ingestor
	bucket    string
}

func NewDocumentHandler(dbclient core.DbClient, objclient core.ObjectClient, ingestor ingest.Ingestor, bucket string) *DocumentHandler {
	return &DocumentHandler{
		dbclient:  dbclient,
		objclient: objclient,
		ingestor:  ingestor,
		bucket:    bucket,
	}
}

// UploadDocument stores the file, records the document as pending and
// queues it for ingestion. Extraction and embedding happen async; poll
// the document status to observe completion.
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	projectID := chi.URLParam(r, "projectID")
	orgID := chi.URLParam(r, "orgID")
	if ownedProject(r.Context(), w, h.dbclient, projectID, userID) == nil {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	docID := uuid.NewString()
	key := fmt.Sprintf("%s/%s/%s_%s", projectID, orgID, docID, header.Filename)
	contentType := header.Header.Get("Content-Type")

	if err := h.objclient.UploadFile(r.Context(), h.bucket, key, file, contentType); err != nil {
		log.Printf("upload document %s: %v", docID, err)
		http.Error(w, "could not store file", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	doc := &models.Document{
		ID:             docID,
		ProjectID:      projectID,
		OrganizationID: orgID,
		FileName:       header.Filename,
		ContentType:    contentType,
		SizeBytes:      header.Size,
		StorageKey:     key,
		Status:         models.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := h.dbclient.CreateDocument(r.Context(), doc); err != nil {
		http.Error(w, "could not record document", http.StatusInternalServerError)
		return
	}

	if err := h.ingestor.Enqueue(docID); err != nil {
		// The document stays pending; a later reprocess call picks it up.
		log.Printf("enqueue document %s: %v", docID, err)
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	projectID := chi.URLParam(r, "projectID")
	if ownedProject(r.Context(), w, h.dbclient, projectID, userID) == nil {
		return
	}

	docs, err := h.dbclient.ListDocumentsByProject(r.Context(), projectID)
	if err != nil {
		http.Error(w, "could not list documents", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, docs)
}

func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	projectID := chi.URLParam(r, "projectID")
	if ownedProject(r.Context(), w, h.dbclient, projectID, userID) == nil {
		return
	}

	doc, err := h.dbclient.GetDocumentByID(r.Context(), chi.URLParam(r, "documentID"))
	if err != nil {
		http.Error(w, "could not load document", http.StatusInternalServerError)
		return
	}
	if doc == nil || doc.ProjectID != projectID {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// ReprocessDocument re-queues an already uploaded document. Useful after
// a failed run; the ingestion replaces any previous chunk set.
func (h *DocumentHandler) ReprocessDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	projectID := chi.URLParam(r, "projectID")
	if ownedProject(r.Context(), w, h.dbclient, projectID, userID) == nil {
		return
	}

	docID := chi.URLParam(r, "documentID")
	doc, err := h.dbclient.GetDocumentByID(r.Context(), docID)
	if err != nil {
		http.Error(w, "could not load document", http.StatusInternalServerError)
		return
	}
	if doc == nil || doc.ProjectID != projectID {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}

	if err := h.ingestor.Enqueue(docID); err != nil {
		http.Error(w, "could not queue document", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
