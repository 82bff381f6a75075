package server

import (
	"net/http"

	"github.com/sm1l43s/movies/internal/auth"
	"github.com/sm1l43s/movies/internal/services/iam"
	"github.com/sm1l43s/movies/internal/services/validation"
	"github.com/sm1l43s/movies/internal/telemetry"
)

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpRequest struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	BirthDay  *string `json:"birthDay"`
}

func (req signUpRequest) toIAM() (iam.SignUpRequest, error) {
	birthDay, err := parseDate(req.BirthDay)
	if err != nil {
		return iam.SignUpRequest{}, err
	}
	return iam.SignUpRequest{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDay:  birthDay,
	}, nil
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// HandleSignIn exchanges credentials for a bearer token.
// POST /api/v1/auth/signin
func (a *API) HandleSignIn(metrics *telemetry.Metrics) http.HandlerFunc {
	return a.handle(func(w http.ResponseWriter, r *http.Request) error {
		var req signInRequest
		if err := a.decode(w, r, validation.SchemaSignIn, &req); err != nil {
			return err
		}

		token, err := a.iam.SignIn(r.Context(), req.Email, req.Password)
		metrics.RecordSignIn(err == nil)
		if err != nil {
			return err
		}
		return writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token})
	})
}

// HandleSignUp registers a new account with the default privileges.
// POST /api/v1/auth/signup
func (a *API) HandleSignUp() http.HandlerFunc {
	return a.handle(func(w http.ResponseWriter, r *http.Request) error {
		var req signUpRequest
		if err := a.decode(w, r, validation.SchemaSignUp, &req); err != nil {
			return err
		}
		signUp, err := req.toIAM()
		if err != nil {
			return err
		}

		user, err := a.iam.SignUp(r.Context(), signUp)
		if err != nil {
			return err
		}
		return writeJSON(w, http.StatusCreated, user)
	})
}

// HandleMe returns the caller's account.
// GET /api/v1/auth/me
func (a *API) HandleMe() http.HandlerFunc {
	return a.handle(func(w http.ResponseWriter, r *http.Request) error {
		principal, _ := auth.PrincipalFromContext(r.Context())
		user, err := a.iam.CurrentUser(r.Context(), principal)
		if err != nil {
			return err
		}
		return writeJSON(w, http.StatusOK, user)
	})
}
