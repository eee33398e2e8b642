package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	middleware "github.com/subramaniyam22/Analyzer/internal/api/middlewares"
	"github.com/subramaniyam22/Analyzer/internal/core"
	"github.com/subramaniyam22/Analyzer/internal/models"
)

type ProjectHandler struct {
	dbclient core.DbClient
}

func NewProjectHandler(dbclient core.DbClient) *ProjectHandler {
	return &ProjectHandler{dbclient: dbclient}
}

type createProjectRequest struct {
	Name     string `json:"name"`
	Industry string `json:"industry"`
	Region   string `json:"region"`
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "project name required", http.StatusBadRequest)
		return
	}

	project := &models.Project{
		ID:        uuid.NewString(),
		OwnerID:   userID,
		Name:      req.Name,
		Industry:  req.Industry,
		Region:    req.Region,
		CreatedAt: time.Now(),
	}
	if err := h.dbclient.CreateProject(r.Context(), project); err != nil {
		http.Error(w, "could not create project", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	projects, err := h.dbclient.ListProjectsByOwner(r.Context(), userID)
	if err != nil {
		http.Error(w, "could not list projects", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, projects)
}

type createOrganizationRequest struct {
	Name   string `json:"name"`
	IsBase bool   `json:"is_base"`
}

func (h *ProjectHandler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	projectID := chi.URLParam(r, "projectID")
	if ownedProject(r.Context(), w, h.dbclient, projectID, userID) == nil {
		return
	}

	var req createOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "organization name required", http.StatusBadRequest)
		return
	}

	org := &models.Organization{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Name:      req.Name,
		IsBase:    req.IsBase,
	}
	if err := h.dbclient.CreateOrganization(r.Context(), org); err != nil {
		http.Error(w, "could not create organization", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, org)
}

func (h *ProjectHandler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	projectID := chi.URLParam(r, "projectID")
	if ownedProject(r.Context(), w, h.dbclient, projectID, userID) == nil {
		return
	}

	orgs, err := h.dbclient.ListOrganizationsByProject(r.Context(), projectID)
	if err != nil {
		http.Error(w, "could not list organizations", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, orgs)
}
