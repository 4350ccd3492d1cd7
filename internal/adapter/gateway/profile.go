package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"answer-hub/internal/domain"

	"github.com/google/uuid"
)

// ProfileGateway talks to the external document store holding user profiles.
// Implements domain.ProfileStore. The store enforces a unique index on userId;
// a conflicting create surfaces as domain.ErrProfileExists.
type ProfileGateway struct {
	baseURL      string
	projectID    string
	apiKey       string
	databaseID   string
	collectionID string
	client       *resilientClient
	logger       *slog.Logger
}

// NewProfileGateway creates a profile store client. apiKey authorizes
// server-side document access.
func NewProfileGateway(baseURL, projectID, apiKey, databaseID, collectionID string, cfg ClientConfig, logger *slog.Logger) *ProfileGateway {
	return &ProfileGateway{
		baseURL:      baseURL,
		projectID:    projectID,
		apiKey:       apiKey,
		databaseID:   databaseID,
		collectionID: collectionID,
		client:       newResilientClient(cfg, logger),
		logger:       logger,
	}
}

// wireDocument mirrors the store's document resource: an envelope ID plus the
// profile fields.
type wireDocument struct {
	ID             string `json:"id"`
	UserID         string `json:"userId"`
	Reputation     int    `json:"reputation"`
	Bio            string `json:"bio,omitempty"`
	AvatarID       string `json:"avatarId,omitempty"`
	QuestionsAsked int    `json:"questionsAsked"`
	AnswersGiven   int    `json:"answersGiven"`
}

type wireDocumentList struct {
	Total     int            `json:"total"`
	Documents []wireDocument `json:"documents"`
}

func (w wireDocument) toDomain() *domain.Profile {
	return &domain.Profile{
		ID:             w.ID,
		UserID:         w.UserID,
		Reputation:     w.Reputation,
		Bio:            w.Bio,
		AvatarID:       w.AvatarID,
		QuestionsAsked: w.QuestionsAsked,
		AnswersGiven:   w.AnswersGiven,
	}
}

// ProfileByUser queries documents filtered by userId. At most one document is
// expected; the store's unique index guarantees it.
func (g *ProfileGateway) ProfileByUser(ctx context.Context, userID string) (*domain.Profile, error) {
	query := url.Values{}
	query.Set("userId", userID)
	query.Set("limit", "1")

	path := fmt.Sprintf("%s?%s", g.documentsPath(), query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	g.setHeaders(req)

	resp, err := g.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: store returned status %d", domain.ErrStoreUnavailable, resp.StatusCode)
	}

	var list wireDocumentList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("%w: decode documents: %w", domain.ErrStoreUnavailable, err)
	}

	if len(list.Documents) == 0 {
		return nil, domain.ErrProfileNotFound
	}
	return list.Documents[0].toDomain(), nil
}

// CreateProfile creates a profile document with a client-generated ID.
func (g *ProfileGateway) CreateProfile(ctx context.Context, p domain.Profile) (*domain.Profile, error) {
	doc := wireDocument{
		ID:             uuid.NewString(),
		UserID:         p.UserID,
		Reputation:     p.Reputation,
		Bio:            p.Bio,
		AvatarID:       p.AvatarID,
		QuestionsAsked: p.QuestionsAsked,
		AnswersGiven:   p.AnswersGiven,
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.documentsPath(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	g.setHeaders(req)

	resp, err := g.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusOK:
		var created wireDocument
		if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
			return nil, fmt.Errorf("%w: decode document: %w", domain.ErrStoreUnavailable, err)
		}
		return created.toDomain(), nil
	case http.StatusConflict:
		return nil, domain.ErrProfileExists
	default:
		return nil, fmt.Errorf("%w: store returned status %d", domain.ErrStoreUnavailable, resp.StatusCode)
	}
}

func (g *ProfileGateway) documentsPath() string {
	return fmt.Sprintf("%s/databases/%s/collections/%s/documents", g.baseURL, g.databaseID, g.collectionID)
}

func (g *ProfileGateway) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(projectHeader, g.projectID)
	if g.apiKey != "" {
		req.Header.Set("X-Auth-Key", g.apiKey)
	}
}
