package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/subramaniyam22/Analyzer/internal/core"
	"github.com/subramaniyam22/Analyzer/internal/core/retrieval"
	"github.com/subramaniyam22/Analyzer/internal/models"
)

const chatSystemPrompt = `You are an assistant answering questions about a competitive analysis
project. Ground your answers in the provided document context and the
latest analysis when present. If the context does not contain the answer,
say so instead of guessing.`

// Shown to the model in place of document context when the query
// embedding could not be produced.
const contextUnavailableNote = "Context unavailable due to AI service limit."

// Recent turns included in the prompt for conversational continuity.
const chatHistoryWindow = 10

// ChatService answers project questions grounded in retrieved chunks and
// keeps the per-project message history.
type ChatService struct {
	dbclient  core.DbClient
	retriever *retrieval.Retriever
	llm       core.LLMProvider
}

func NewChatService(dbclient core.DbClient, retriever *retrieval.Retriever, llm core.LLMProvider) *ChatService {
	return &ChatService{dbclient: dbclient, retriever: retriever, llm: llm}
}

// Ask retrieves the nearest chunks for the question, generates an answer
// and persists both turns. A retrieval outage degrades to a non-grounded
// answer instead of failing the request.
func (s *ChatService) Ask(ctx context.Context, projectID, question string) (*models.ChatMessage, error) {
	res, err := s.retriever.Retrieve(ctx, projectID, question, retrieval.DefaultTopK)
	if err != nil {
		return nil, err
	}

	docContext := contextUnavailableNote
	if !res.Unavailable {
		var sb strings.Builder
		for _, sc := range res.Chunks {
			fmt.Fprintf(&sb, "- %s\n", sc.Chunk.Text)
		}
		docContext = sb.String()
		if docContext == "" {
			docContext = "No documents have been ingested for this project yet."
		}
	}

	system := fmt.Sprintf("%s\n\nDocument context:\n%s", chatSystemPrompt, docContext)

	if latest, err := s.dbclient.GetLatestAnalysisResult(ctx, projectID); err != nil {
		log.Printf("chat: load latest analysis for project %s: %v", projectID, err)
	} else if latest != nil {
		system = fmt.Sprintf("%s\n\nLatest analysis (version %d): %v", system, latest.Version, latest.Results)
	}

	history, err := s.dbclient.ListChatMessagesByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(history) > chatHistoryWindow {
		history = history[len(history)-chatHistoryWindow:]
	}

	var prompt strings.Builder
	for _, m := range history {
		fmt.Fprintf(&prompt, "%s: %s\n", m.Role, m.Content)
	}
	fmt.Fprintf(&prompt, "user: %s", question)

	answer, err := s.llm.Generate(ctx, system, prompt.String())
	if err != nil {
		return nil, fmt.Errorf("chat generation failed: %w", err)
	}

	// History replays in created_at order, so the assistant turn gets a
	// strictly later timestamp than the user turn it answers.
	now := time.Now()
	userMsg := &models.ChatMessage{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Role:      "user",
		Content:   question,
		CreatedAt: now,
	}
	if err := s.dbclient.AddChatMessage(ctx, userMsg); err != nil {
		return nil, err
	}

	assistantMsg := &models.ChatMessage{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Role:      "assistant",
		Content:   answer,
		CreatedAt: now.Add(time.Millisecond),
	}
	if err := s.dbclient.AddChatMessage(ctx, assistantMsg); err != nil {
		return nil, err
	}

	return assistantMsg, nil
}

// History returns the full ordered message history for a project.
func (s *ChatService) History(ctx context.Context, projectID string) ([]models.ChatMessage, error) {
	return s.dbclient.ListChatMessagesByProject(ctx, projectID)
}
