package usecase

import (
	"context"
	"log/slog"
	"net/url"

	"answer-hub/internal/domain"
)

// DecisionAction is the outcome of a gateway evaluation.
type DecisionAction int

const (
	// ActionAllow lets the request through.
	ActionAllow DecisionAction = iota
	// ActionRedirect sends the caller to Decision.Target.
	ActionRedirect
)

// Decision is the gateway's per-request verdict. Account is set only when the
// request carried provider-verified credentials.
type Decision struct {
	Action  DecisionAction
	Target  string
	Account *domain.Account
}

// EvaluateRequest decides, per incoming request, whether to allow or redirect
// based on a server-validated session. It holds no state between requests and
// never trusts client cookies at face value.
type EvaluateRequest struct {
	provider  domain.IdentityProvider
	routes    *domain.RouteTable
	homePath  string
	loginPath string
	logger    *slog.Logger
}

// NewEvaluateRequest creates the gateway usecase. homePath and loginPath are
// the redirect targets of the decision table.
func NewEvaluateRequest(p domain.IdentityProvider, routes *domain.RouteTable, homePath, loginPath string, l *slog.Logger) *EvaluateRequest {
	return &EvaluateRequest{
		provider:  p,
		routes:    routes,
		homePath:  homePath,
		loginPath: loginPath,
		logger:    l,
	}
}

// Execute evaluates path with the ambient credentials taken from the request's
// cookie header. Provider failures of any kind resolve to unauthenticated:
// ambiguity always denies access, never grants it.
func (uc *EvaluateRequest) Execute(ctx context.Context, path string, creds domain.Credentials) Decision {
	class := uc.routes.Classify(path)

	// Public content needs no verification round-trip.
	if class == domain.RoutePublic {
		return Decision{Action: ActionAllow}
	}

	account := uc.verify(ctx, path, creds)

	if account != nil {
		if class == domain.RouteAuthPage {
			return Decision{Action: ActionRedirect, Target: uc.homePath, Account: account}
		}
		return Decision{Action: ActionAllow, Account: account}
	}

	if class == domain.RouteAuthPage {
		return Decision{Action: ActionAllow}
	}

	return Decision{Action: ActionRedirect, Target: uc.loginTarget(path)}
}

// verify resolves the credentials to an account, or nil when unauthenticated.
func (uc *EvaluateRequest) verify(ctx context.Context, path string, creds domain.Credentials) *domain.Account {
	// No cookies can never be a valid session; skip the network call.
	if creds == "" {
		return nil
	}

	account, err := uc.provider.CurrentAccount(ctx, creds)
	if err != nil {
		// Rejection, network error and timeout are indistinguishable to the
		// caller: all fail closed.
		uc.logger.WarnContext(ctx, "session verification failed",
			"path", path,
			"error", err)
		return nil
	}
	return account
}

// loginTarget builds the login redirect preserving the original destination.
func (uc *EvaluateRequest) loginTarget(originalPath string) string {
	q := url.Values{}
	q.Set("redirect", originalPath)
	return uc.loginPath + "?" + q.Encode()
}
