package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/subramaniyam22/Analyzer/internal/core"
	"github.com/subramaniyam22/Analyzer/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ownedProject loads a project and checks the caller owns it. Writes the
// error response itself and returns nil when the check fails.
func ownedProject(ctx context.Context, w http.ResponseWriter, dbclient core.DbClient, projectID, userID string) *models.Project {
	project, err := dbclient.GetProjectByID(ctx, projectID)
	if err != nil {
		http.Error(w, "could not load project", http.StatusInternalServerError)
		return nil
	}
	if project == nil {
		http.Error(w, "project not found", http.StatusNotFound)
		return nil
	}
	if project.OwnerID != userID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return nil
	}
	return project
}
