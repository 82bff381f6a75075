package middleware

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/sm1l43s/movies/internal/auth"
)

// ErrorWriter renders an error response for a request.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// AuthzDependencies provides the collaborators needed for authorization decisions.
type AuthzDependencies struct {
	Policy     *auth.Policy
	WriteError ErrorWriter
	Logger     logrus.FieldLogger
}

// NewAuthzMiddleware constructs a Chi middleware that evaluates the route
// policy before dispatch. Denials go through WriteError with auth.ErrUnauthorized
// or auth.ErrForbidden.
func NewAuthzMiddleware(deps AuthzDependencies) (func(http.Handler) http.Handler, error) {
	if deps.Policy == nil {
		return nil, errors.New("authz middleware requires a policy")
	}
	if deps.WriteError == nil {
		return nil, errors.New("authz middleware requires an error writer")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, _ := auth.PrincipalFromContext(r.Context())

			if err := deps.Policy.Authorize(r.Method, r.URL.Path, principal); err != nil {
				fields := logrus.Fields{"method": r.Method, "path": r.URL.Path}
				if principal != nil {
					fields["user_id"] = principal.UserID()
				}
				logger.WithFields(fields).WithError(err).Debug("request denied")
				deps.WriteError(w, r, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}
