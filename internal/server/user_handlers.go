package server

import (
	"net/http"

	"github.com/sm1l43s/movies/internal/services/iam"
	"github.com/sm1l43s/movies/internal/services/validation"
)

type createUserRequest struct {
	signUpRequest
	Privileges []string `json:"privileges"`
}

type updateUserRequest struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	BirthDay  *string `json:"birthDay"`
}

type privilegesRequest struct {
	Privileges []string `json:"privileges"`
}

// GET /api/v1/users
func (a *API) listUsers(w http.ResponseWriter, r *http.Request) error {
	page, err := pageFromQuery(r)
	if err != nil {
		return err
	}
	users, total, err := a.iam.ListUsers(r.Context(), page)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, newPageResponse(users, total, page))
}

// GET /api/v1/users/{id}
func (a *API) getUser(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	user, err := a.iam.GetUser(r.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, user)
}

// POST /api/v1/users creates an account with explicit privileges.
func (a *API) createUser(w http.ResponseWriter, r *http.Request) error {
	var req createUserRequest
	if err := a.decode(w, r, validation.SchemaUserCreate, &req); err != nil {
		return err
	}
	signUp, err := req.toIAM()
	if err != nil {
		return err
	}
	user, err := a.iam.CreateUser(r.Context(), iam.CreateUserRequest{SignUpRequest: signUp, Privileges: req.Privileges})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, user)
}

// PUT /api/v1/users updates profile fields.
func (a *API) updateUser(w http.ResponseWriter, r *http.Request) error {
	var req updateUserRequest
	if err := a.decode(w, r, validation.SchemaUser, &req); err != nil {
		return err
	}
	birthDay, err := parseDate(req.BirthDay)
	if err != nil {
		return err
	}
	user, err := a.iam.UpdateProfile(r.Context(), iam.UpdateProfileRequest{
		ID:        req.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDay:  birthDay,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, user)
}

// DELETE /api/v1/users with {"id":N}
func (a *API) deleteUserByBody(w http.ResponseWriter, r *http.Request) error {
	var req idRequest
	if err := a.decode(w, r, validation.SchemaID, &req); err != nil {
		return err
	}
	if err := a.iam.DeleteUser(r.Context(), req.ID); err != nil {
		return err
	}
	w.WriteHeader(http.StatusOK)
	return nil
}

// DELETE /api/v1/users/{id}
func (a *API) deleteUser(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	if err := a.iam.DeleteUser(r.Context(), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusOK)
	return nil
}

// GET /api/v1/users/{id}/privileges
func (a *API) userPrivileges(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	user, err := a.iam.GetUser(r.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, listResponse(user.Privileges))
}

// PUT /api/v1/users/{id}/privileges replaces the privilege set by name.
func (a *API) setUserPrivileges(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	var req privilegesRequest
	if err := a.decode(w, r, validation.SchemaPrivileges, &req); err != nil {
		return err
	}
	user, err := a.iam.SetUserPrivileges(r.Context(), id, req.Privileges)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, user)
}

// GET /api/v1/privileges
func (a *API) listPrivileges(w http.ResponseWriter, r *http.Request) error {
	page, err := pageFromQuery(r)
	if err != nil {
		return err
	}
	privileges, total, err := a.iam.ListPrivileges(r.Context(), page)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, newPageResponse(privileges, total, page))
}

// GET /api/v1/privileges/{id}
func (a *API) getPrivilege(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	privilege, err := a.iam.GetPrivilege(r.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, privilege)
}
