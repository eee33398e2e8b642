package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/subramaniyam22/Analyzer/internal/core"
	"github.com/subramaniyam22/Analyzer/internal/models"
)

const analysisSystemPrompt = `You are a competitive analysis engine. You are given extracted document
content for a base organization and its competitors. Produce a comparison
as a single JSON object with keys "summary" (string), "strengths" (object
mapping organization name to an array of strings), "weaknesses" (same
shape) and "recommendations" (array of strings). Respond with JSON only,
no surrounding prose.`

// Caps how much chunk text is stuffed into a single analysis prompt.
const maxContextChars = 60000

// AnalysisService runs versioned project-wide comparisons over the
// ingested document chunks.
type AnalysisService struct {
	dbclient core.DbClient
	llm      core.LLMProvider
}

func NewAnalysisService(dbclient core.DbClient, llm core.LLMProvider) *AnalysisService {
	return &AnalysisService{dbclient: dbclient, llm: llm}
}

// Run gathers every completed document's chunks grouped by organization,
// asks the model for a structured comparison and persists it as the next
// version for the project.
func (s *AnalysisService) Run(ctx context.Context, projectID string, constraints map[string]any) (*models.AnalysisResult, error) {
	orgs, err := s.dbclient.ListOrganizationsByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(orgs) == 0 {
		return nil, fmt.Errorf("project has no organizations to analyze")
	}

	docs, err := s.dbclient.ListDocumentsByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	docsByOrg := make(map[string][]models.Document)
	for _, d := range docs {
		if d.Status != models.StatusCompleted {
			continue
		}
		docsByOrg[d.OrganizationID] = append(docsByOrg[d.OrganizationID], d)
	}

	var sb strings.Builder
	for _, org := range orgs {
		role := "COMPETITOR"
		if org.IsBase {
			role = "BASE"
		}
		fmt.Fprintf(&sb, "=== %s ORGANIZATION: %s ===\n", role, org.Name)
		for _, doc := range docsByOrg[org.ID] {
			chunks, err := s.dbclient.GetChunksByDocument(ctx, doc.ID)
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(&sb, "--- Document: %s ---\n", doc.FileName)
			for _, c := range chunks {
				if sb.Len() > maxContextChars {
					break
				}
				sb.WriteString(c.Text)
				sb.WriteString("\n")
			}
		}
		sb.WriteString("\n")
	}

	userPrompt := sb.String()
	if len(constraints) > 0 {
		raw, err := json.Marshal(constraints)
		if err != nil {
			return nil, fmt.Errorf("marshal constraints: %w", err)
		}
		userPrompt = fmt.Sprintf("Constraints: %s\n\n%s", raw, userPrompt)
	}

	answer, err := s.llm.Generate(ctx, analysisSystemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("analysis generation failed: %w", err)
	}

	results, err := parseModelJSON(answer)
	if err != nil {
		log.Printf("analysis response was not valid JSON, storing raw text: %v", err)
		results = map[string]any{"raw": answer}
	}

	result := &models.AnalysisResult{
		ID:          uuid.NewString(),
		ProjectID:   projectID,
		Results:     results,
		Constraints: constraints,
		CreatedAt:   time.Now(),
	}
	if err := s.dbclient.CreateAnalysisResult(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Latest returns the newest stored analysis for the project, or nil when
// none has been run.
func (s *AnalysisService) Latest(ctx context.Context, projectID string) (*models.AnalysisResult, error) {
	return s.dbclient.GetLatestAnalysisResult(ctx, projectID)
}

// parseModelJSON tolerates markdown code fences around the JSON body.
func parseModelJSON(answer string) (map[string]any, error) {
	trimmed := strings.TrimSpace(answer)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var out map[string]any
	if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
		return nil, err
	}
	return out, nil
}
