package handler

import (
	"net/http"
	"time"

	"answer-hub/internal/domain"
	"answer-hub/internal/usecase"

	"github.com/labstack/echo/v4"
)

// SessionHandler returns the current session snapshot as JSON.
type SessionHandler struct {
	state  *usecase.AuthState
	issuer domain.AssertionIssuer
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(state *usecase.AuthState, issuer domain.AssertionIssuer) *SessionHandler {
	return &SessionHandler{state: state, issuer: issuer}
}

// sessionUser represents the user object in the response.
type sessionUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// sessionInfo represents the session object in the response.
type sessionInfo struct {
	ID        string    `json:"id"`
	Provider  string    `json:"provider"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// sessionResponse represents the JSON response structure.
type sessionResponse struct {
	OK      bool        `json:"ok"`
	User    sessionUser `json:"user"`
	Session sessionInfo `json:"session"`
}

// Handle processes GET /session. The cached snapshot is revalidated with the
// identity provider before it is reported; a stale local copy is never
// treated as proof of authentication.
func (h *SessionHandler) Handle(c echo.Context) error {
	ctx := c.Request().Context()

	if !h.state.VerifySession(ctx) {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	account, session := h.state.Current()

	assertion, err := h.issuer.IssueAssertion(account, session.ID)
	if err != nil {
		return mapDomainError(err)
	}
	c.Response().Header().Set("X-Auth-Assertion", assertion)

	return c.JSON(http.StatusOK, sessionResponse{
		OK: true,
		User: sessionUser{
			ID:        account.ID,
			Email:     account.Email,
			Name:      account.Name,
			CreatedAt: account.CreatedAt,
		},
		Session: sessionInfo{
			ID:        session.ID,
			Provider:  session.Provider,
			ExpiresAt: session.ExpiresAt,
		},
	})
}
