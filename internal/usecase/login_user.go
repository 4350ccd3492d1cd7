package usecase

import (
	"context"
	"errors"
	"log/slog"

	"answer-hub/internal/domain"
)

// User-facing login/logout messages. Login failures share one generic message
// regardless of cause so the endpoint cannot be used as an account-existence
// oracle.
const (
	MsgLoggedIn    = "Login successful."
	MsgLoginFailed = "Invalid email or password. Please try again."
	MsgLoggedOut   = "Logout successful."
)

// LoginOutcome carries the verified identity of a successful login.
type LoginOutcome struct {
	Account *domain.Account
	Session *domain.Session
	Result  Result
}

// LoginUser authenticates a returning user and lazily heals a missing profile
// document, compensating for accounts orphaned by an incomplete registration.
type LoginUser struct {
	provider domain.IdentityProvider
	profiles domain.ProfileStore
	logger   *slog.Logger
}

// NewLoginUser creates the login usecase.
func NewLoginUser(p domain.IdentityProvider, ps domain.ProfileStore, l *slog.Logger) *LoginUser {
	return &LoginUser{provider: p, profiles: ps, logger: l}
}

// Execute logs in with email and password. On success the account's profile
// is created if missing; the heal is opportunistic and never fails the login.
func (uc *LoginUser) Execute(ctx context.Context, email, password string) LoginOutcome {
	session, err := uc.provider.CreateSession(ctx, email, password)
	if err != nil {
		uc.logger.WarnContext(ctx, "login failed", "error", err)
		return LoginOutcome{Result: Result{Success: false, Message: MsgLoginFailed}}
	}

	creds := uc.provider.Credentials(session)

	account, err := uc.provider.CurrentAccount(ctx, creds)
	if err != nil {
		uc.logger.WarnContext(ctx, "account fetch after login failed", "error", err)
		// Best effort: do not leave a session behind for a login we report
		// as failed.
		if derr := uc.provider.DeleteSession(ctx, creds, session.ID); derr != nil && !errors.Is(derr, domain.ErrSessionNotFound) {
			uc.logger.WarnContext(ctx, "session cleanup after failed login failed", "error", derr)
		}
		return LoginOutcome{Result: Result{Success: false, Message: MsgLoginFailed}}
	}

	uc.ensureProfile(ctx, account.ID)

	return LoginOutcome{
		Account: account,
		Session: session,
		Result:  Result{Success: true, Message: MsgLoggedIn},
	}
}

// ensureProfile creates a default profile when none exists. Two concurrent
// logins may both observe a missing profile; the store's unique index on
// userId decides the race, and the loser's conflict is not an error.
func (uc *LoginUser) ensureProfile(ctx context.Context, userID string) {
	_, err := uc.profiles.ProfileByUser(ctx, userID)
	if err == nil {
		return
	}
	if !errors.Is(err, domain.ErrProfileNotFound) {
		uc.logger.WarnContext(ctx, "profile lookup failed, deferring heal to next login",
			"user_id", userID,
			"error", err)
		return
	}

	if _, err := uc.profiles.CreateProfile(ctx, domain.NewDefaultProfile(userID)); err != nil {
		if errors.Is(err, domain.ErrProfileExists) {
			return
		}
		uc.logger.WarnContext(ctx, "lazy profile creation failed, deferring heal to next login",
			"user_id", userID,
			"error", err)
	}
}
