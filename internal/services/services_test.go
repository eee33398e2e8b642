package services

import (
	"context"
	"errors"
	"sync"

	"github.com/subramaniyam22/Analyzer/internal/core"
	"github.com/subramaniyam22/Analyzer/internal/models"
)

// fakeDB is an in-memory core.DbClient for service tests.
type fakeDB struct {
	mu        sync.Mutex
	users     map[string]*models.User
	projects  map[string]*models.Project
	orgs      []models.Organization
	docs      []models.Document
	chunks    map[string][]models.DocumentChunk
	messages  []models.ChatMessage
	analyses  []models.AnalysisResult
	searchRes []models.ScoredChunk
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users:    map[string]*models.User{},
		projects: map[string]*models.Project{},
		chunks:   map[string][]models.DocumentChunk{},
	}
}

func (f *fakeDB) CreateUser(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	return nil
}

func (f *fakeDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeDB) CreateProject(ctx context.Context, project *models.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects[project.ID] = project
	return nil
}

func (f *fakeDB) GetProjectByID(ctx context.Context, id string) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.projects[id], nil
}

func (f *fakeDB) ListProjectsByOwner(ctx context.Context, ownerID string) ([]models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Project
	for _, p := range f.projects {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeDB) CreateOrganization(ctx context.Context, org *models.Organization) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orgs = append(f.orgs, *org)
	return nil
}

func (f *fakeDB) ListOrganizationsByProject(ctx context.Context, projectID string) ([]models.Organization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Organization
	for _, o := range f.orgs {
		if o.ProjectID == projectID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeDB) CreateDocument(ctx context.Context, doc *models.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs = append(f.docs, *doc)
	return nil
}

func (f *fakeDB) GetDocumentByID(ctx context.Context, id string) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.docs {
		if f.docs[i].ID == id {
			d := f.docs[i]
			return &d, nil
		}
	}
	return nil, nil
}

func (f *fakeDB) ListDocumentsByProject(ctx context.Context, projectID string) ([]models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Document
	for _, d := range f.docs {
		if d.ProjectID == projectID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDB) UpdateDocumentStatus(ctx context.Context, id string, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.docs {
		if f.docs[i].ID == id {
			f.docs[i].Status = status
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeDB) ReplaceDocumentChunks(ctx context.Context, documentID string, chunks []models.DocumentChunk) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chunks[documentID] = chunks
	return nil
}

func (f *fakeDB) DeleteDocumentChunks(ctx context.Context, documentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.chunks, documentID)
	return nil
}

func (f *fakeDB) GetChunksByDocument(ctx context.Context, documentID string) ([]models.DocumentChunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chunks[documentID], nil
}

func (f *fakeDB) SearchProjectChunks(ctx context.Context, projectID string, queryVec []float32, limit int) ([]models.ScoredChunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit > len(f.searchRes) {
		limit = len(f.searchRes)
	}
	return f.searchRes[:limit], nil
}

func (f *fakeDB) AddChatMessage(ctx context.Context, msg *models.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeDB) ListChatMessagesByProject(ctx context.Context, projectID string) ([]models.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ChatMessage
	for _, m := range f.messages {
		if m.ProjectID == projectID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeDB) CreateAnalysisResult(ctx context.Context, result *models.AnalysisResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	max := 0
	for _, a := range f.analyses {
		if a.ProjectID == result.ProjectID && a.Version > max {
			max = a.Version
		}
	}
	result.Version = max + 1
	f.analyses = append(f.analyses, *result)
	return nil
}

func (f *fakeDB) GetLatestAnalysisResult(ctx context.Context, projectID string) (*models.AnalysisResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *models.AnalysisResult
	for i := range f.analyses {
		a := &f.analyses[i]
		if a.ProjectID != projectID {
			continue
		}
		if latest == nil || a.Version > latest.Version {
			latest = a
		}
	}
	if latest == nil {
		return nil, nil
	}
	out := *latest
	return &out, nil
}

func (f *fakeDB) Close() error { return nil }

var _ core.DbClient = (*fakeDB)(nil)

// fakeLLM records the prompts it was called with.
type fakeLLM struct {
	answer      string
	shouldError bool

	gotSystem string
	gotUser   string
}

func (l *fakeLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	l.gotSystem = systemPrompt
	l.gotUser = userPrompt
	if l.shouldError {
		return "", errors.New("llm down")
	}
	return l.answer, nil
}

// fakeEmbedder satisfies retrieval.QueryEmbedder.
type fakeEmbedder struct {
	shouldError bool
}

func (e *fakeEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if e.shouldError {
		return nil, errors.New("quota exceeded")
	}
	return []float32{0.1, 0.2}, nil
}
