package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subramaniyam22/Analyzer/internal/models"
)

func seedAnalysisProject(t *testing.T, db *fakeDB) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, db.CreateOrganization(ctx, &models.Organization{
		ID: "org-base", ProjectID: "proj-1", Name: "Acme", IsBase: true,
	}))
	require.NoError(t, db.CreateOrganization(ctx, &models.Organization{
		ID: "org-rival", ProjectID: "proj-1", Name: "Globex",
	}))

	require.NoError(t, db.CreateDocument(ctx, &models.Document{
		ID: "doc-1", ProjectID: "proj-1", OrganizationID: "org-base",
		FileName: "acme.pdf", Status: models.StatusCompleted,
	}))
	require.NoError(t, db.CreateDocument(ctx, &models.Document{
		ID: "doc-2", ProjectID: "proj-1", OrganizationID: "org-rival",
		FileName: "globex.pdf", Status: models.StatusFailed,
	}))

	require.NoError(t, db.ReplaceDocumentChunks(ctx, "doc-1", []models.DocumentChunk{
		{ID: "c1", DocumentID: "doc-1", Position: 0, Text: "Acme pricing undercuts the market."},
	}))
	require.NoError(t, db.ReplaceDocumentChunks(ctx, "doc-2", []models.DocumentChunk{
		{ID: "c2", DocumentID: "doc-2", Position: 0, Text: "Globex ships faster."},
	}))
}

func TestAnalysisRunStoresVersionedResult(t *testing.T) {
	db := newFakeDB()
	seedAnalysisProject(t, db)
	llm := &fakeLLM{answer: `{"summary": "Acme leads on price."}`}
	svc := NewAnalysisService(db, llm)

	result, err := svc.Run(context.Background(), "proj-1", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Version)
	assert.Equal(t, "Acme leads on price.", result.Results["summary"])

	// Only completed documents feed the prompt.
	assert.Contains(t, llm.gotUser, "Acme pricing undercuts the market.")
	assert.NotContains(t, llm.gotUser, "Globex ships faster.")
	assert.Contains(t, llm.gotUser, "BASE ORGANIZATION: Acme")
	assert.Contains(t, llm.gotUser, "COMPETITOR ORGANIZATION: Globex")

	second, err := svc.Run(context.Background(), "proj-1", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)

	latest, err := svc.Latest(context.Background(), "proj-1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 2, latest.Version)
}

func TestAnalysisRunPassesConstraints(t *testing.T) {
	db := newFakeDB()
	seedAnalysisProject(t, db)
	llm := &fakeLLM{answer: `{"summary": "ok"}`}
	svc := NewAnalysisService(db, llm)

	result, err := svc.Run(context.Background(), "proj-1", map[string]any{"focus": "pricing"})
	require.NoError(t, err)

	assert.Contains(t, llm.gotUser, `"focus":"pricing"`)
	assert.Equal(t, "pricing", result.Constraints["focus"])
}

func TestAnalysisRunNoOrganizations(t *testing.T) {
	db := newFakeDB()
	svc := NewAnalysisService(db, &fakeLLM{answer: "{}"})

	_, err := svc.Run(context.Background(), "proj-empty", nil)
	assert.Error(t, err)
}

func TestAnalysisRunTolerantOfFencedJSON(t *testing.T) {
	db := newFakeDB()
	seedAnalysisProject(t, db)
	llm := &fakeLLM{answer: "```json\n{\"summary\": \"fenced\"}\n```"}
	svc := NewAnalysisService(db, llm)

	result, err := svc.Run(context.Background(), "proj-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "fenced", result.Results["summary"])
}

func TestAnalysisRunKeepsRawTextOnBadJSON(t *testing.T) {
	db := newFakeDB()
	seedAnalysisProject(t, db)
	llm := &fakeLLM{answer: "Sorry, here is prose instead of JSON."}
	svc := NewAnalysisService(db, llm)

	result, err := svc.Run(context.Background(), "proj-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "Sorry, here is prose instead of JSON.", result.Results["raw"])
}
