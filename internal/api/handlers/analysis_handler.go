package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	middleware "github.com/subramaniyam22/Analyzer/internal/api/middlewares"
	"github.com/subramaniyam22/Analyzer/internal/core"
	"github.com/subramaniyam22/Analyzer/internal/services"
)

type AnalysisHandler struct {
	dbclient core.DbClient
	analysis *services.AnalysisService
}

func NewAnalysisHandler(dbclient core.DbClient, analysis *services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{dbclient: dbclient, analysis: analysis}
}

type runAnalysisRequest struct {
	Constraints map[string]any `json:"constraints"`
}

func (h *AnalysisHandler) RunAnalysis(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	projectID := chi.URLParam(r, "projectID")
	if ownedProject(r.Context(), w, h.dbclient, projectID, userID) == nil {
		return
	}

	var req runAnalysisRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid body", http.StatusBadRequest)
			return
		}
	}

	result, err := h.analysis.Run(r.Context(), projectID, req.Constraints)
	if err != nil {
		log.Printf("analysis for project %s: %v", projectID, err)
		http.Error(w, "could not run analysis", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *AnalysisHandler) GetLatestAnalysis(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	projectID := chi.URLParam(r, "projectID")
	if ownedProject(r.Context(), w, h.dbclient, projectID, userID) == nil {
		return
	}

	result, err := h.analysis.Latest(r.Context(), projectID)
	if err != nil {
		http.Error(w, "could not load analysis", http.StatusInternalServerError)
		return
	}
	if result == nil {
		http.Error(w, "no analysis yet", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
