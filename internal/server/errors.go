package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/sm1l43s/movies/internal/auth"
	"github.com/sm1l43s/movies/internal/proxy"
	"github.com/sm1l43s/movies/internal/repository"
	"github.com/sm1l43s/movies/internal/services/catalog"
	"github.com/sm1l43s/movies/internal/services/iam"
	"github.com/sm1l43s/movies/internal/services/validation"
)

const internalErrorMessage = "internal server error"

// ErrBadRequest is wrapped by malformed path parameters, query strings and bodies.
var ErrBadRequest = errors.New("bad request")

// APIError is the JSON body of every error response.
type APIError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// statusFor maps an error to its HTTP status and client-facing message.
// Messages of unclassified errors are never exposed.
func statusFor(err error) (int, string) {
	var verr *validation.Error

	switch {
	case errors.Is(err, iam.ErrAuthenticationFailed),
		errors.Is(err, iam.ErrEmailTaken),
		errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.As(err, &verr),
		errors.Is(err, ErrBadRequest),
		errors.Is(err, iam.ErrInvalidInput),
		errors.Is(err, iam.ErrUnknownPrivilege),
		errors.Is(err, catalog.ErrInvalidReference):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, catalog.ErrAlreadyVoted):
		return http.StatusConflict, err.Error()
	case errors.Is(err, catalog.ErrInvalidScore):
		return http.StatusExpectationFailed, err.Error()
	case errors.Is(err, proxy.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable, proxy.GenericFailureMessage
	default:
		return http.StatusInternalServerError, internalErrorMessage
	}
}

// errorWriter renders errors as APIError and logs server-side failures.
func errorWriter(logger logrus.FieldLogger) func(http.ResponseWriter, *http.Request, error) {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		status, message := statusFor(err)

		entry := logger.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": status,
		})
		if status >= http.StatusInternalServerError {
			entry.Error("request failed")
		} else {
			entry.Debug("request rejected")
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(APIError{StatusCode: status, Message: message})
	}
}
