package usecase

import (
	"context"
	"errors"
	"log/slog"

	"answer-hub/internal/domain"
)

// User-facing registration messages. Beyond the duplicate-email case, every
// failure maps to a generic message so callers cannot tell which stage broke.
const (
	MsgRegistered         = "Registration successful."
	MsgAccountExists      = "An account with this email already exists. Please login instead."
	MsgRegistrationFailed = "Registration failed. Please try again."
	MsgProfileFailed      = "Failed to create your profile. Please contact support."
)

// Result is the structured outcome of an auth operation. Errors never escape
// the usecase boundary; they are folded into Success and Message.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// SessionState is the slice of the client session cache the saga touches:
// adopting a fresh login on success, clearing leftovers on compensation.
type SessionState interface {
	Apply(account *domain.Account, session *domain.Session)
	Clear()
}

// sagaStep pairs a forward action with its compensating action. Compensations
// of completed steps run in reverse order when a later step fails.
type sagaStep struct {
	name       string
	run        func(ctx context.Context) error
	compensate func(ctx context.Context) error
}

// RegisterUser creates an account, a session and a profile document as one
// logical unit of work across two systems that offer no shared transaction.
type RegisterUser struct {
	provider domain.IdentityProvider
	profiles domain.ProfileStore
	state    SessionState
	logger   *slog.Logger
}

// NewRegisterUser creates the registration saga orchestrator.
func NewRegisterUser(p domain.IdentityProvider, ps domain.ProfileStore, state SessionState, l *slog.Logger) *RegisterUser {
	return &RegisterUser{provider: p, profiles: ps, state: state, logger: l}
}

// Execute runs the saga. On success the new session is adopted into the
// session state. On a profile-creation failure the session is deleted and the
// state cleared; the account itself is left in place and healed by the next
// login's lazy profile creation.
func (uc *RegisterUser) Execute(ctx context.Context, email, password, name string) Result {
	var (
		account *domain.Account
		session *domain.Session
	)

	steps := []sagaStep{
		{
			name: "create account",
			run: func(ctx context.Context) error {
				acc, err := uc.provider.CreateAccount(ctx, email, password, name)
				if err != nil {
					return err
				}
				account = acc
				return nil
			},
			// Accounts are not rolled back: an orphaned account is healed by
			// the login path's lazy profile creation.
			compensate: nil,
		},
		{
			name: "create session",
			run: func(ctx context.Context) error {
				s, err := uc.provider.CreateSession(ctx, email, password)
				if err != nil {
					return err
				}
				session = s
				return nil
			},
			compensate: func(ctx context.Context) error {
				creds := uc.provider.Credentials(session)
				return uc.provider.DeleteSession(ctx, creds, session.ID)
			},
		},
		{
			name: "create profile",
			run: func(ctx context.Context) error {
				_, err := uc.profiles.CreateProfile(ctx, domain.NewDefaultProfile(account.ID))
				return err
			},
			compensate: nil,
		},
	}

	for i, step := range steps {
		if err := step.run(ctx); err != nil {
			uc.logger.ErrorContext(ctx, "registration step failed",
				"step", step.name,
				"error", err)
			uc.compensate(ctx, steps[:i])
			return uc.failure(i, err)
		}
	}

	uc.state.Apply(account, session)
	return Result{Success: true, Message: MsgRegistered}
}

// compensate undoes completed steps in reverse order and clears any in-memory
// session state. Compensation errors are logged, never surfaced.
func (uc *RegisterUser) compensate(ctx context.Context, completed []sagaStep) {
	for i := len(completed) - 1; i >= 0; i-- {
		step := completed[i]
		if step.compensate == nil {
			continue
		}
		if err := step.compensate(ctx); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			uc.logger.ErrorContext(ctx, "registration compensation failed",
				"step", step.name,
				"error", err)
		}
	}
	uc.state.Clear()
}

// failure maps a failed step index to a user-facing message. Only the
// duplicate-email case gets a specific message.
func (uc *RegisterUser) failure(step int, err error) Result {
	if step == 0 && errors.Is(err, domain.ErrAccountExists) {
		return Result{Success: false, Message: MsgAccountExists}
	}
	if step == 2 {
		return Result{Success: false, Message: MsgProfileFailed}
	}
	return Result{Success: false, Message: MsgRegistrationFailed}
}
