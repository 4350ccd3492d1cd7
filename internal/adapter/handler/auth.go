package handler

import (
	"net/http"
	"net/mail"

	"answer-hub/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AuthHandler exposes registration, login and logout.
type AuthHandler struct {
	register *usecase.RegisterUser
	state    *usecase.AuthState
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(register *usecase.RegisterUser, state *usecase.AuthState) *AuthHandler {
	return &AuthHandler{register: register, state: state}
}

// registerRequest is the registration payload.
type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// loginRequest is the login payload.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister processes POST /auth/register through the registration saga.
func (h *AuthHandler) HandleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validateRegistration(req); err != nil {
		return err
	}

	result := h.register.Execute(c.Request().Context(), req.Email, req.Password, req.Name)
	if !result.Success {
		// The message already hides which stage failed.
		return c.JSON(http.StatusUnprocessableEntity, result)
	}
	return c.JSON(http.StatusCreated, result)
}

// HandleLogin processes POST /auth/login.
func (h *AuthHandler) HandleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	result := h.state.Login(c.Request().Context(), req.Email, req.Password)
	if !result.Success {
		return c.JSON(http.StatusUnauthorized, result)
	}
	return c.JSON(http.StatusOK, result)
}

// HandleLogout processes POST /auth/logout. Local state is always cleared,
// so logout never fails.
func (h *AuthHandler) HandleLogout(c echo.Context) error {
	result := h.state.Logout(c.Request().Context())
	return c.JSON(http.StatusOK, result)
}

// validateRegistration checks the registration payload shape. Policy checks
// (password strength, email ownership) belong to the identity provider.
func validateRegistration(req registerRequest) error {
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return errInvalidEmail
	}
	if len(req.Password) < 8 {
		return errWeakPassword
	}
	if req.Name == "" {
		return errMissingName
	}
	return nil
}

var (
	errInvalidEmail = echo.NewHTTPError(http.StatusBadRequest, "a valid email address is required")
	errWeakPassword = echo.NewHTTPError(http.StatusBadRequest, "password must be at least 8 characters")
	errMissingName  = echo.NewHTTPError(http.StatusBadRequest, "name is required")
)
