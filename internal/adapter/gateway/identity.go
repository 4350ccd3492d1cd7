package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"answer-hub/internal/domain"

	"github.com/google/uuid"
)

const projectHeader = "X-Auth-Project"

// IdentityGateway talks to the external identity provider's REST API.
// Implements domain.IdentityProvider.
type IdentityGateway struct {
	baseURL   string
	projectID string
	client    *resilientClient
	logger    *slog.Logger
}

// NewIdentityGateway creates an identity provider client. baseURL points at
// the provider's versioned API root, projectID scopes every call.
func NewIdentityGateway(baseURL, projectID string, cfg ClientConfig, logger *slog.Logger) *IdentityGateway {
	return &IdentityGateway{
		baseURL:   baseURL,
		projectID: projectID,
		client:    newResilientClient(cfg, logger),
		logger:    logger,
	}
}

// wireAccount mirrors the provider's account resource.
type wireAccount struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func (w wireAccount) toDomain() *domain.Account {
	return &domain.Account{
		ID:        w.ID,
		Email:     w.Email,
		Name:      w.Name,
		CreatedAt: w.CreatedAt,
	}
}

// wireSession mirrors the provider's session resource. Secret is only
// returned by session creation.
type wireSession struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Provider  string    `json:"provider"`
	Secret    string    `json:"secret"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (w wireSession) toDomain() *domain.Session {
	return &domain.Session{
		ID:        w.ID,
		UserID:    w.UserID,
		Provider:  w.Provider,
		Secret:    w.Secret,
		CreatedAt: w.CreatedAt,
		ExpiresAt: w.ExpiresAt,
	}
}

// CreateAccount registers a new account with a client-generated ID.
func (g *IdentityGateway) CreateAccount(ctx context.Context, email, password, name string) (*domain.Account, error) {
	body := map[string]string{
		"userId":   uuid.NewString(),
		"email":    email,
		"password": password,
		"name":     name,
	}

	resp, err := g.do(ctx, http.MethodPost, "/account", "", body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusOK:
		var acc wireAccount
		if err := json.NewDecoder(resp.Body).Decode(&acc); err != nil {
			return nil, fmt.Errorf("%w: decode account: %w", domain.ErrProviderUnavailable, err)
		}
		return acc.toDomain(), nil
	case http.StatusConflict:
		return nil, domain.ErrAccountExists
	default:
		return nil, fmt.Errorf("%w: provider returned status %d", domain.ErrProviderUnavailable, resp.StatusCode)
	}
}

// CreateSession performs an email/password login.
func (g *IdentityGateway) CreateSession(ctx context.Context, email, password string) (*domain.Session, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	resp, err := g.do(ctx, http.MethodPost, "/account/sessions/email", "", body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusOK:
		var s wireSession
		if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
			return nil, fmt.Errorf("%w: decode session: %w", domain.ErrProviderUnavailable, err)
		}
		return s.toDomain(), nil
	case http.StatusUnauthorized, http.StatusBadRequest:
		return nil, domain.ErrAuthFailed
	default:
		return nil, fmt.Errorf("%w: provider returned status %d", domain.ErrProviderUnavailable, resp.StatusCode)
	}
}

// Credentials derives the ambient cookie header for a session created by
// CreateSession.
func (g *IdentityGateway) Credentials(s *domain.Session) domain.Credentials {
	if s == nil || s.Secret == "" {
		return ""
	}
	return domain.Credentials(fmt.Sprintf("session_%s=%s", g.projectID, s.Secret))
}

// CurrentAccount forwards the ambient credentials to the provider's account
// endpoint. Any failure means unauthenticated.
func (g *IdentityGateway) CurrentAccount(ctx context.Context, creds domain.Credentials) (*domain.Account, error) {
	resp, err := g.do(ctx, http.MethodGet, "/account", creds, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var acc wireAccount
		if err := json.NewDecoder(resp.Body).Decode(&acc); err != nil {
			return nil, fmt.Errorf("%w: decode account: %w", domain.ErrProviderUnavailable, err)
		}
		return acc.toDomain(), nil
	case http.StatusUnauthorized:
		return nil, domain.ErrAuthFailed
	default:
		return nil, fmt.Errorf("%w: provider returned status %d", domain.ErrProviderUnavailable, resp.StatusCode)
	}
}

// GetSession fetches a session by ID; domain.CurrentSessionID addresses the
// session the credentials belong to.
func (g *IdentityGateway) GetSession(ctx context.Context, creds domain.Credentials, id string) (*domain.Session, error) {
	resp, err := g.do(ctx, http.MethodGet, "/account/sessions/"+id, creds, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var s wireSession
		if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
			return nil, fmt.Errorf("%w: decode session: %w", domain.ErrProviderUnavailable, err)
		}
		return s.toDomain(), nil
	case http.StatusUnauthorized:
		return nil, domain.ErrAuthFailed
	case http.StatusNotFound:
		return nil, domain.ErrSessionNotFound
	default:
		return nil, fmt.Errorf("%w: provider returned status %d", domain.ErrProviderUnavailable, resp.StatusCode)
	}
}

// DeleteSession revokes a session. Deleting an already-gone session maps to
// ErrSessionNotFound so compensations can treat it as settled.
func (g *IdentityGateway) DeleteSession(ctx context.Context, creds domain.Credentials, id string) error {
	resp, err := g.do(ctx, http.MethodDelete, "/account/sessions/"+id, creds, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		return domain.ErrAuthFailed
	case http.StatusNotFound:
		return domain.ErrSessionNotFound
	default:
		return fmt.Errorf("%w: provider returned status %d", domain.ErrProviderUnavailable, resp.StatusCode)
	}
}

// do builds and executes one provider request.
func (g *IdentityGateway) do(ctx context.Context, method, path string, creds domain.Credentials, body any) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(projectHeader, g.projectID)
	if creds != "" {
		req.Header.Set("Cookie", string(creds))
	}

	return g.client.Do(ctx, req)
}
