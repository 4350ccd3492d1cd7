package middleware

import (
	"net/http"
	"strings"

	"answer-hub/internal/domain"
	"answer-hub/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Headers stamped onto requests that pass the gate authenticated.
const (
	HeaderUserID    = "X-Auth-User-Id"
	HeaderUserEmail = "X-Auth-User-Email"
	HeaderAssertion = "X-Auth-Assertion"
)

// staticAssetSuffixes are never gated; they can carry no session semantics.
var staticAssetSuffixes = []string{
	".svg", ".png", ".jpg", ".jpeg", ".gif", ".webp",
	".ico", ".css", ".js",
}

// staticAssetPrefixes bypass the gate entirely.
var staticAssetPrefixes = []string{"/static/", "/assets/"}

// GateSkipper reports whether a path is exempt from session evaluation:
// static assets, the favicon and the health probe.
func GateSkipper(c echo.Context) bool {
	path := c.Request().URL.Path

	if path == "/favicon.ico" || path == "/health" {
		return true
	}
	for _, prefix := range staticAssetPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	for _, suffix := range staticAssetSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

// SessionGate evaluates every request against the route table and a
// server-validated session, redirecting or allowing per the gateway's
// decision. Requests that pass authenticated are stamped with identity
// headers and a signed assertion for upstream handlers.
func SessionGate(uc *usecase.EvaluateRequest, issuer domain.AssertionIssuer, skipper func(echo.Context) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper != nil && skipper(c) {
				return next(c)
			}

			req := c.Request()
			creds := domain.Credentials(req.Header.Get("Cookie"))

			decision := uc.Execute(req.Context(), req.URL.Path, creds)

			if decision.Action == usecase.ActionRedirect {
				return c.Redirect(http.StatusFound, decision.Target)
			}

			if decision.Account != nil {
				h := c.Response().Header()
				h.Set(HeaderUserID, decision.Account.ID)
				h.Set(HeaderUserEmail, decision.Account.Email)

				if issuer != nil {
					if assertion, err := issuer.IssueAssertion(decision.Account, ""); err == nil {
						h.Set(HeaderAssertion, assertion)
					}
				}
			}

			return next(c)
		}
	}
}
