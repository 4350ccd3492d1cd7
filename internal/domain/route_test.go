package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRouteTable_Classify(t *testing.T) {
	table := DefaultRouteTable()

	tests := []struct {
		path string
		want RouteClass
	}{
		{path: "/", want: RoutePublic},
		{path: "/login", want: RouteAuthPage},
		{path: "/login/reset", want: RouteAuthPage},
		{path: "/register", want: RouteAuthPage},
		{path: "/auth/callback", want: RouteAuthPage},
		{path: "/questions/123", want: RouteProtected},
		{path: "/profile", want: RouteProtected},
		{path: "/ask-question", want: RouteProtected},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Classify(tt.path))
		})
	}
}

func TestRouteTable_FirstMatchWins(t *testing.T) {
	table := NewRouteTable([]RouteRule{
		{Exact: "/admin/login", Class: RouteAuthPage},
		{Prefix: "/admin", Class: RouteProtected},
	}, RoutePublic)

	assert.Equal(t, RouteAuthPage, table.Classify("/admin/login"))
	assert.Equal(t, RouteProtected, table.Classify("/admin/users"))
	assert.Equal(t, RoutePublic, table.Classify("/about"))
}

func TestRouteTable_ExactBeatsPrefixWithinRule(t *testing.T) {
	table := NewRouteTable([]RouteRule{
		{Exact: "/docs", Prefix: "/d", Class: RoutePublic},
	}, RouteProtected)

	assert.Equal(t, RoutePublic, table.Classify("/docs"))
	assert.Equal(t, RouteProtected, table.Classify("/docs/intro"), "exact rule does not match sub-paths")
}

func TestRouteClass_String(t *testing.T) {
	assert.Equal(t, "public", RoutePublic.String())
	assert.Equal(t, "authPage", RouteAuthPage.String())
	assert.Equal(t, "protected", RouteProtected.String())
	assert.Equal(t, "unknown", RouteClass(99).String())
}
