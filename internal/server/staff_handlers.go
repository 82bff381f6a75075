package server

import (
	"fmt"
	"net/http"

	"github.com/sm1l43s/movies/internal/services/catalog"
	"github.com/sm1l43s/movies/internal/services/validation"
)

type personRequest struct {
	ID            int64   `json:"id"`
	NameRu        string  `json:"nameRu"`
	NameEn        string  `json:"nameEn"`
	PosterURL     string  `json:"posterUrl"`
	Birthday      *string `json:"birthday"`
	BirthPlaceID  *int64  `json:"birthPlaceId"`
	ProfessionIDs []int64 `json:"professionIds"`
}

func (p personRequest) toInput() (catalog.PersonInput, error) {
	birthday, err := parseDate(p.Birthday)
	if err != nil {
		return catalog.PersonInput{}, err
	}
	return catalog.PersonInput{
		ID:            p.ID,
		NameRu:        p.NameRu,
		NameEn:        p.NameEn,
		PosterURL:     p.PosterURL,
		Birthday:      birthday,
		BirthPlaceID:  p.BirthPlaceID,
		ProfessionIDs: p.ProfessionIDs,
	}, nil
}

type movieIDsRequest struct {
	MovieIDs []int64 `json:"movieIds"`
}

func (a *API) decodePerson(w http.ResponseWriter, r *http.Request) (catalog.PersonInput, error) {
	var req personRequest
	if err := a.decode(w, r, validation.SchemaPerson, &req); err != nil {
		return catalog.PersonInput{}, err
	}
	return req.toInput()
}

// GET /api/v1/staff
func (a *API) listPersons(w http.ResponseWriter, r *http.Request) error {
	page, err := pageFromQuery(r)
	if err != nil {
		return err
	}
	persons, total, err := a.catalog.ListPersons(r.Context(), page)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, newPageResponse(persons, total, page))
}

// GET /api/v1/staff/{id}
func (a *API) getPerson(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	person, err := a.catalog.GetPerson(r.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, person)
}

// POST /api/v1/staff
func (a *API) createPerson(w http.ResponseWriter, r *http.Request) error {
	in, err := a.decodePerson(w, r)
	if err != nil {
		return err
	}
	person, err := a.catalog.CreatePerson(r.Context(), in)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, person)
}

// PUT /api/v1/staff
func (a *API) updatePerson(w http.ResponseWriter, r *http.Request) error {
	in, err := a.decodePerson(w, r)
	if err != nil {
		return err
	}
	if in.ID <= 0 {
		return fmt.Errorf("%w: id is required", ErrBadRequest)
	}
	person, err := a.catalog.UpdatePerson(r.Context(), in)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, person)
}

// DELETE /api/v1/staff with {"id":N}
func (a *API) deletePersonByBody(w http.ResponseWriter, r *http.Request) error {
	var req idRequest
	if err := a.decode(w, r, validation.SchemaID, &req); err != nil {
		return err
	}
	if err := a.catalog.DeletePerson(r.Context(), req.ID); err != nil {
		return err
	}
	w.WriteHeader(http.StatusOK)
	return nil
}

// DELETE /api/v1/staff/{id}
func (a *API) deletePerson(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	if err := a.catalog.DeletePerson(r.Context(), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusOK)
	return nil
}

// GET /api/v1/staff/{id}/movies
func (a *API) personMovies(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	if _, err := a.catalog.GetPerson(r.Context(), id); err != nil {
		return err
	}
	movies, err := a.catalog.PersonMovies(r.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, listResponse(movies))
}

// PUT /api/v1/staff/{id}/movies replaces the filmography.
func (a *API) setPersonMovies(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	var req movieIDsRequest
	if err := a.decode(w, r, validation.SchemaMovieIDs, &req); err != nil {
		return err
	}
	movies, err := a.catalog.SetPersonMovies(r.Context(), id, req.MovieIDs)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, listResponse(movies))
}

// DELETE /api/v1/staff/{id}/movies clears the filmography.
func (a *API) clearPersonMovies(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	if err := a.catalog.ClearPersonMovies(r.Context(), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusOK)
	return nil
}
