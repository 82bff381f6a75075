package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sm1l43s/movies/internal/auth"
	"github.com/sm1l43s/movies/internal/telemetry"
)

type fakeResolver struct {
	tokens map[string]*auth.Principal
	seen   []string
}

func (f *fakeResolver) ResolveToken(_ context.Context, token string) (*auth.Principal, error) {
	f.seen = append(f.seen, token)
	if p, ok := f.tokens[token]; ok {
		return p, nil
	}
	return nil, auth.ErrInvalidToken
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// principalEcho reports the email of the installed principal, or "anonymous".
func principalEcho(w http.ResponseWriter, r *http.Request) {
	if p, ok := auth.PrincipalFromContext(r.Context()); ok {
		_, _ = w.Write([]byte(p.Email()))
		return
	}
	_, _ = w.Write([]byte("anonymous"))
}

func TestAuthnMiddleware(t *testing.T) {
	alice := auth.NewPrincipal(1, "alice@example.com", []string{"GET_MOVIE"})
	resolver := &fakeResolver{tokens: map[string]*auth.Principal{"good": alice}}

	mw, err := NewAuthnMiddleware(resolver, quietLogger())
	require.NoError(t, err)
	handler := mw(http.HandlerFunc(principalEcho))

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "no header", header: "", want: "anonymous"},
		{name: "valid token", header: "Bearer good", want: "alice@example.com"},
		{name: "lowercase scheme", header: "bearer good", want: "alice@example.com"},
		{name: "invalid token", header: "Bearer bad", want: "anonymous"},
		{name: "basic scheme", header: "Basic Zm9vOmJhcg==", want: "anonymous"},
		{name: "scheme only", header: "Bearer", want: "anonymous"},
		{name: "empty token", header: "Bearer   ", want: "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/movies", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code, "authn never rejects")
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}

	assert.NotContains(t, resolver.seen, "", "empty tokens are not resolved")
}

func TestNewAuthnMiddleware_RequiresResolver(t *testing.T) {
	_, err := NewAuthnMiddleware(nil, nil)
	assert.Error(t, err)
}

func TestAuthzMiddleware(t *testing.T) {
	policy := auth.NewPolicy([]auth.Rule{
		{Method: http.MethodGet, Pattern: "/public", Access: auth.Public()},
		{Method: http.MethodGet, Pattern: "/me", Access: auth.Authenticated()},
		{Method: http.MethodDelete, Pattern: "/movies/{id}", Access: auth.RequirePermission(auth.DeleteMovie)},
	})

	var denied error
	mw, err := NewAuthzMiddleware(AuthzDependencies{
		Policy: policy,
		WriteError: func(w http.ResponseWriter, _ *http.Request, err error) {
			denied = err
			status := http.StatusForbidden
			if errors.Is(err, auth.ErrUnauthorized) {
				status = http.StatusUnauthorized
			}
			w.WriteHeader(status)
		},
		Logger: quietLogger(),
	})
	require.NoError(t, err)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	admin := auth.NewPrincipal(1, "admin@example.com", []string{string(auth.DeleteMovie)})
	viewer := auth.NewPrincipal(2, "viewer@example.com", []string{string(auth.GetMovie)})

	tests := []struct {
		name      string
		method    string
		path      string
		principal *auth.Principal
		want      int
		wantErr   error
	}{
		{name: "public anonymous", method: http.MethodGet, path: "/public", want: http.StatusNoContent},
		{name: "authenticated anonymous", method: http.MethodGet, path: "/me", want: http.StatusUnauthorized, wantErr: auth.ErrUnauthorized},
		{name: "authenticated viewer", method: http.MethodGet, path: "/me", principal: viewer, want: http.StatusNoContent},
		{name: "permission granted", method: http.MethodDelete, path: "/movies/7", principal: admin, want: http.StatusNoContent},
		{name: "permission missing", method: http.MethodDelete, path: "/movies/7", principal: viewer, want: http.StatusForbidden, wantErr: auth.ErrForbidden},
		{name: "permission anonymous", method: http.MethodDelete, path: "/movies/7", want: http.StatusUnauthorized, wantErr: auth.ErrUnauthorized},
		{name: "no rule with principal", method: http.MethodPost, path: "/elsewhere", principal: admin, want: http.StatusForbidden, wantErr: auth.ErrForbidden},
		{name: "no rule anonymous", method: http.MethodPost, path: "/elsewhere", want: http.StatusUnauthorized, wantErr: auth.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			denied = nil
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.principal != nil {
				req = req.WithContext(auth.SetPrincipal(req.Context(), tt.principal))
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.wantErr != nil {
				assert.ErrorIs(t, denied, tt.wantErr)
			} else {
				assert.NoError(t, denied)
			}
		})
	}
}

func TestNewAuthzMiddleware_Validation(t *testing.T) {
	_, err := NewAuthzMiddleware(AuthzDependencies{})
	assert.Error(t, err)

	_, err = NewAuthzMiddleware(AuthzDependencies{Policy: auth.NewPolicy(nil)})
	assert.Error(t, err)
}

func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	metrics := telemetry.NewMetrics()

	r := chi.NewRouter()
	r.Use(Metrics(metrics))
	r.Use(RequestLogger(quietLogger()))
	r.Get("/movies/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/movies/"+id, nil))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/movies/{id}", "418")))
}
