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

type ChatHandler struct {
	dbclient core.DbClient
	chat     *services.ChatService
}

func NewChatHandler(dbclient core.DbClient, chat *services.ChatService) *ChatHandler {
	return &ChatHandler{dbclient: dbclient, chat: chat}
}

type chatRequest struct {
	Message string `json:"message"`
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	projectID := chi.URLParam(r, "projectID")
	if ownedProject(r.Context(), w, h.dbclient, projectID, userID) == nil {
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		http.Error(w, "message required", http.StatusBadRequest)
		return
	}

	answer, err := h.chat.Ask(r.Context(), projectID, req.Message)
	if err != nil {
		log.Printf("chat for project %s: %v", projectID, err)
		http.Error(w, "could not generate answer", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, answer)
}

func (h *ChatHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	projectID := chi.URLParam(r, "projectID")
	if ownedProject(r.Context(), w, h.dbclient, projectID, userID) == nil {
		return
	}

	history, err := h.chat.History(r.Context(), projectID)
	if err != nil {
		http.Error(w, "could not load history", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, history)
}
