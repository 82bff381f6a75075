package auth

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_FirstMatchWins(t *testing.T) {
	p := NewPolicy([]Rule{
		{Method: http.MethodGet, Pattern: "/things/{id}/secret", Access: RequirePermission(GetUser)},
		{Method: http.MethodGet, Pattern: "/things/*", Access: Public()},
	})

	rule, ok := p.Match(http.MethodGet, "/things/1/secret")
	require.True(t, ok)
	assert.Equal(t, "/things/{id}/secret", rule.Pattern)

	rule, ok = p.Match(http.MethodGet, "/things/1")
	require.True(t, ok)
	assert.Equal(t, "/things/*", rule.Pattern)

	_, ok = p.Match(http.MethodPost, "/things/1")
	assert.False(t, ok)
}

func TestPolicy_EmptyMethodMatchesAny(t *testing.T) {
	p := NewPolicy([]Rule{{Pattern: "/proxy/*", Access: Authenticated()}})

	for _, m := range []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete} {
		_, ok := p.Match(m, "/proxy/a/b")
		assert.True(t, ok, m)
	}
}

func TestPolicy_Authorize(t *testing.T) {
	p := NewPolicy(DefaultRules())

	anonymous := (*Principal)(nil)
	member := NewPrincipal(1, "member@example.com", []string{
		string(GetReview), string(CreateReview), string(GetStaff), string(GetMovie), string(VotesMovie),
	})
	admin := NewPrincipal(2, "admin@example.com", func() []string {
		var names []string
		for _, perm := range AllPermissions() {
			names = append(names, string(perm))
		}
		return names
	}())

	tests := []struct {
		name      string
		method    string
		path      string
		principal *Principal
		want      error
	}{
		{"signin is public", http.MethodPost, "/api/v1/auth/signin", anonymous, nil},
		{"signup is public", http.MethodPost, "/api/v1/auth/signup", anonymous, nil},
		{"me needs a principal", http.MethodGet, "/api/v1/auth/me", anonymous, ErrUnauthorized},
		{"me with principal", http.MethodGet, "/api/v1/auth/me", member, nil},
		{"health is public", http.MethodGet, "/health", anonymous, nil},

		{"movie list is public", http.MethodGet, "/api/v1/movies", anonymous, nil},
		{"movie read is public", http.MethodGet, "/api/v1/movies/42", anonymous, nil},
		{"genres are public", http.MethodGet, "/api/v1/genres", anonymous, nil},
		{"staff read is public", http.MethodGet, "/api/v1/staff/3/movies", anonymous, nil},

		{"users list anonymous", http.MethodGet, "/api/v1/users", anonymous, ErrUnauthorized},
		{"users list without permission", http.MethodGet, "/api/v1/users", member, ErrForbidden},
		{"users list with permission", http.MethodGet, "/api/v1/users", admin, nil},
		{"user read without permission", http.MethodGet, "/api/v1/users/7", member, ErrForbidden},
		{"privileges edit needs EDIT_PRIVILEGE", http.MethodPut, "/api/v1/users/7/privileges", member, ErrForbidden},
		{"privileges edit with permission", http.MethodPut, "/api/v1/users/7/privileges", admin, nil},
		{"privilege catalogue protected", http.MethodGet, "/api/v1/privileges", member, ErrForbidden},

		{"movie create anonymous", http.MethodPost, "/api/v1/movies", anonymous, ErrUnauthorized},
		{"movie create without permission", http.MethodPost, "/api/v1/movies", member, ErrForbidden},
		{"movie bulk create with permission", http.MethodPost, "/api/v1/movies/list", admin, nil},
		{"movie delete by id without permission", http.MethodDelete, "/api/v1/movies/5", member, ErrForbidden},

		{"vote with permission", http.MethodPost, "/api/v1/movies/5/votes", member, nil},
		{"vote anonymous", http.MethodPost, "/api/v1/movies/5/votes", anonymous, ErrUnauthorized},
		{"voters need GET_MOVIE", http.MethodGet, "/api/v1/movies/5/votes", member, nil},

		{"review create with permission", http.MethodPost, "/api/v1/movies/5/reviews", member, nil},
		{"review list anonymous", http.MethodGet, "/api/v1/movies/5/reviews", anonymous, ErrUnauthorized},
		{"review edit without permission", http.MethodPut, "/api/v1/movies/reviews", member, ErrForbidden},
		{"review delete without permission", http.MethodDelete, "/api/v1/movies/5/reviews", member, ErrForbidden},
		{"review author lookup", http.MethodGet, "/api/v1/movies/reviews/9/authors", member, nil},

		{"staff movies edit without permission", http.MethodPut, "/api/v1/staff/3/movies", member, ErrForbidden},
		{"staff delete with permission", http.MethodDelete, "/api/v1/staff/3", admin, nil},

		{"proxy anonymous", http.MethodGet, "/proxy/anything", anonymous, ErrUnauthorized},
		{"proxy with principal", http.MethodPatch, "/proxy/anything?x=1", member, nil},

		{"unmatched anonymous", http.MethodGet, "/internal/debug", anonymous, ErrUnauthorized},
		{"unmatched authenticated", http.MethodGet, "/internal/debug", admin, ErrForbidden},
		{"unmatched method", http.MethodPatch, "/api/v1/movies", admin, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Authorize(tt.method, tt.path, tt.principal)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDefaultRules_PermissionsAreKnown(t *testing.T) {
	for _, r := range DefaultRules() {
		if perm, ok := r.Access.Permission(); ok {
			assert.True(t, IsKnownPermission(string(perm)), r.String())
		}
	}
}

func TestPrincipal(t *testing.T) {
	p := NewPrincipal(5, "bob@example.com", []string{"GET_MOVIE"})
	assert.Equal(t, int64(5), p.UserID())
	assert.Equal(t, "bob@example.com", p.Email())
	assert.True(t, p.Has(GetMovie))
	assert.False(t, p.Has(EditMovie))
	assert.Equal(t, []Permission{GetMovie}, p.Permissions())

	var nilPrincipal *Principal
	assert.False(t, nilPrincipal.Has(GetMovie))
}
