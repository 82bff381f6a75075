package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sm1l43s/movies/internal/auth"
)

// TokenResolver turns a bearer token into a principal.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*auth.Principal, error)
}

// NewAuthnMiddleware installs the principal behind a valid bearer token.
//
// The middleware never rejects a request. A missing header, an invalid or
// expired token, and a subject that no longer resolves to a user all leave
// the request anonymous; the authorization middleware decides what follows.
func NewAuthnMiddleware(resolver TokenResolver, logger logrus.FieldLogger) (func(http.Handler) http.Handler, error) {
	if resolver == nil {
		return nil, errors.New("authn middleware requires a token resolver")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			principal, err := resolver.ResolveToken(r.Context(), token)
			if err != nil {
				logger.WithError(err).WithFields(logrus.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				}).Debug("bearer token rejected, continuing anonymously")
				next.ServeHTTP(w, r)
				return
			}

			ctx := auth.SetPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}, nil
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// The scheme is matched case-insensitively.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
