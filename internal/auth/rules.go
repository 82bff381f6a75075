package auth

import "net/http"

// DefaultRules is the route rule table served by the API. Order matters:
// specific review and vote routes precede the general movie routes, and
// the public catalog read rule comes after every protected GET.
func DefaultRules() []Rule {
	return []Rule{
		// Account endpoints
		{Method: http.MethodPost, Pattern: "/api/v1/auth/signin", Access: Public()},
		{Method: http.MethodPost, Pattern: "/api/v1/auth/signup", Access: Public()},
		{Method: http.MethodGet, Pattern: "/api/v1/auth/me", Access: Authenticated()},

		// Operations
		{Method: http.MethodGet, Pattern: "/health", Access: Public()},
		{Method: http.MethodGet, Pattern: "/metrics", Access: Public()},

		// Users and privileges
		{Method: http.MethodPut, Pattern: "/api/v1/users/{id}/privileges", Access: RequirePermission(EditPrivilege)},
		{Method: http.MethodGet, Pattern: "/api/v1/users", Access: RequirePermission(GetUser)},
		{Method: http.MethodGet, Pattern: "/api/v1/users/*", Access: RequirePermission(GetUser)},
		{Method: http.MethodPost, Pattern: "/api/v1/users", Access: RequirePermission(CreateUser)},
		{Method: http.MethodPut, Pattern: "/api/v1/users", Access: RequirePermission(EditUser)},
		{Method: http.MethodPut, Pattern: "/api/v1/users/*", Access: RequirePermission(EditUser)},
		{Method: http.MethodDelete, Pattern: "/api/v1/users", Access: RequirePermission(DeleteUser)},
		{Method: http.MethodDelete, Pattern: "/api/v1/users/*", Access: RequirePermission(DeleteUser)},
		{Method: http.MethodGet, Pattern: "/api/v1/privileges", Access: RequirePermission(GetPrivilege)},
		{Method: http.MethodGet, Pattern: "/api/v1/privileges/*", Access: RequirePermission(GetPrivilege)},

		// Votes
		{Method: http.MethodGet, Pattern: "/api/v1/movies/{id}/votes", Access: RequirePermission(GetMovie)},
		{Method: http.MethodPost, Pattern: "/api/v1/movies/{id}/votes", Access: RequirePermission(VotesMovie)},

		// Reviews
		{Method: http.MethodGet, Pattern: "/api/v1/movies/{id}/reviews", Access: RequirePermission(GetReview)},
		{Method: http.MethodGet, Pattern: "/api/v1/movies/reviews/{id}/authors", Access: RequirePermission(GetReview)},
		{Method: http.MethodPost, Pattern: "/api/v1/movies/{id}/reviews", Access: RequirePermission(CreateReview)},
		{Method: http.MethodDelete, Pattern: "/api/v1/movies/{id}/reviews", Access: RequirePermission(DeleteReview)},
		{Method: http.MethodPut, Pattern: "/api/v1/movies/reviews", Access: RequirePermission(EditReview)},

		// Movies
		{Method: http.MethodPost, Pattern: "/api/v1/movies", Access: RequirePermission(CreateMovie)},
		{Method: http.MethodPost, Pattern: "/api/v1/movies/*", Access: RequirePermission(CreateMovie)},
		{Method: http.MethodPut, Pattern: "/api/v1/movies", Access: RequirePermission(EditMovie)},
		{Method: http.MethodPut, Pattern: "/api/v1/movies/*", Access: RequirePermission(EditMovie)},
		{Method: http.MethodDelete, Pattern: "/api/v1/movies", Access: RequirePermission(DeleteMovie)},
		{Method: http.MethodDelete, Pattern: "/api/v1/movies/*", Access: RequirePermission(DeleteMovie)},

		// Staff
		{Method: http.MethodPost, Pattern: "/api/v1/staff", Access: RequirePermission(CreateStaff)},
		{Method: http.MethodPost, Pattern: "/api/v1/staff/*", Access: RequirePermission(CreateStaff)},
		{Method: http.MethodPut, Pattern: "/api/v1/staff", Access: RequirePermission(EditStaff)},
		{Method: http.MethodPut, Pattern: "/api/v1/staff/*", Access: RequirePermission(EditStaff)},
		{Method: http.MethodDelete, Pattern: "/api/v1/staff", Access: RequirePermission(DeleteStaff)},
		{Method: http.MethodDelete, Pattern: "/api/v1/staff/*", Access: RequirePermission(DeleteStaff)},

		// Catalog reads
		{Method: http.MethodGet, Pattern: "/api/v1/*", Access: Public()},

		// Relay
		{Pattern: "/proxy/*", Access: Authenticated()},
	}
}
