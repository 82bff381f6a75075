package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sm1l43s/movies/internal/auth"
	"github.com/sm1l43s/movies/internal/proxy"
	"github.com/sm1l43s/movies/internal/repository"
	"github.com/sm1l43s/movies/internal/services/catalog"
	"github.com/sm1l43s/movies/internal/services/iam"
	"github.com/sm1l43s/movies/internal/services/validation"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"bad credentials", iam.ErrAuthenticationFailed, http.StatusUnauthorized, iam.ErrAuthenticationFailed.Error()},
		{"email taken", iam.ErrEmailTaken, http.StatusUnauthorized, iam.ErrEmailTaken.Error()},
		{"anonymous", auth.ErrUnauthorized, http.StatusUnauthorized, auth.ErrUnauthorized.Error()},
		{"forbidden", auth.ErrForbidden, http.StatusForbidden, auth.ErrForbidden.Error()},
		{"schema", &validation.Error{Path: "$.nameRu", Message: "too short"}, http.StatusBadRequest, "validation failed at '$.nameRu': too short"},
		{"bad request", fmt.Errorf("%w: invalid id", ErrBadRequest), http.StatusBadRequest, "bad request: invalid id"},
		{"unknown privilege", iam.ErrUnknownPrivilege, http.StatusBadRequest, iam.ErrUnknownPrivilege.Error()},
		{"bad reference", catalog.ErrInvalidReference, http.StatusBadRequest, catalog.ErrInvalidReference.Error()},
		{"not found", fmt.Errorf("movie 9: %w", repository.ErrNotFound), http.StatusNotFound, "movie 9: " + repository.ErrNotFound.Error()},
		{"voted", catalog.ErrAlreadyVoted, http.StatusConflict, catalog.ErrAlreadyVoted.Error()},
		{"score", catalog.ErrInvalidScore, http.StatusExpectationFailed, catalog.ErrInvalidScore.Error()},
		{"upstream", proxy.ErrUpstreamUnavailable, http.StatusServiceUnavailable, proxy.GenericFailureMessage},
		{"unclassified", errors.New("pq: connection reset"), http.StatusInternalServerError, internalErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := statusFor(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestErrorWriter(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	write := errorWriter(logger)

	t.Run("client error logged at debug", func(t *testing.T) {
		hook.Reset()
		rec := httptest.NewRecorder()
		write(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil), auth.ErrForbidden)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body APIError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, APIError{StatusCode: http.StatusForbidden, Message: "access denied"}, body)

		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
	})

	t.Run("server error hides details", func(t *testing.T) {
		hook.Reset()
		rec := httptest.NewRecorder()
		write(rec, httptest.NewRequest(http.MethodGet, "/api/v1/movies", nil), errors.New("disk on fire"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "disk on fire")

		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
		assert.Equal(t, http.StatusInternalServerError, hook.LastEntry().Data["status"])
	})
}
