package domain

import "strings"

// RouteClass categorizes a request path for the session verification gateway.
type RouteClass int

const (
	// RoutePublic paths are served without any session verification.
	RoutePublic RouteClass = iota
	// RouteAuthPage paths host login/registration surfaces; authenticated
	// users are redirected away from them.
	RouteAuthPage
	// RouteProtected paths require a provider-verified session.
	RouteProtected
)

// String returns the class name for logs.
func (c RouteClass) String() string {
	switch c {
	case RoutePublic:
		return "public"
	case RouteAuthPage:
		return "authPage"
	case RouteProtected:
		return "protected"
	default:
		return "unknown"
	}
}

// RouteRule matches a path either exactly or by prefix. Exact takes
// precedence when both are set.
type RouteRule struct {
	Exact  string
	Prefix string
	Class  RouteClass
}

func (r RouteRule) matches(path string) bool {
	if r.Exact != "" {
		return path == r.Exact
	}
	if r.Prefix != "" {
		return strings.HasPrefix(path, r.Prefix)
	}
	return false
}

// RouteTable is an ordered rule list evaluated once per request. First match
// wins; unmatched paths fall back to the fallback class. The table is static
// read-only configuration and safe for concurrent use.
type RouteTable struct {
	rules    []RouteRule
	fallback RouteClass
}

// NewRouteTable builds a table from rules with the given fallback class.
func NewRouteTable(rules []RouteRule, fallback RouteClass) *RouteTable {
	return &RouteTable{rules: rules, fallback: fallback}
}

// Classify maps path to its route class.
func (t *RouteTable) Classify(path string) RouteClass {
	for _, r := range t.rules {
		if r.matches(path) {
			return r.Class
		}
	}
	return t.fallback
}

// DefaultRouteTable mirrors the application's routing: the home page is
// public, login/registration surfaces are auth pages, everything else is
// protected.
func DefaultRouteTable() *RouteTable {
	return NewRouteTable([]RouteRule{
		{Exact: "/", Class: RoutePublic},
		{Prefix: "/login", Class: RouteAuthPage},
		{Prefix: "/register", Class: RouteAuthPage},
		{Prefix: "/auth/", Class: RouteAuthPage},
	}, RouteProtected)
}
