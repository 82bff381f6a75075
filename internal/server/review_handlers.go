package server

import (
	"fmt"
	"net/http"

	"github.com/sm1l43s/movies/internal/auth"
	"github.com/sm1l43s/movies/internal/services/validation"
)

type reviewRequest struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// GET /api/v1/movies/{id}/reviews
func (a *API) movieReviews(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	page, err := pageFromQuery(r)
	if err != nil {
		return err
	}
	if _, err := a.catalog.GetMovie(r.Context(), id); err != nil {
		return err
	}

	reviews, total, err := a.catalog.MovieReviews(r.Context(), id, page)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, newPageResponse(reviews, total, page))
}

// POST /api/v1/movies/{id}/reviews
func (a *API) addReview(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	var req reviewRequest
	if err := a.decode(w, r, validation.SchemaReview, &req); err != nil {
		return err
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	review, err := a.catalog.AddReview(r.Context(), principal, id, req.Title, req.Description)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, review)
}

// DELETE /api/v1/movies/{id}/reviews with {"id":N}
func (a *API) deleteReview(w http.ResponseWriter, r *http.Request) error {
	movieID, err := pathID(r, "id")
	if err != nil {
		return err
	}
	var req idRequest
	if err := a.decode(w, r, validation.SchemaID, &req); err != nil {
		return err
	}

	if err := a.catalog.DeleteMovieReview(r.Context(), movieID, req.ID); err != nil {
		return err
	}
	w.WriteHeader(http.StatusOK)
	return nil
}

// PUT /api/v1/movies/reviews
func (a *API) updateReview(w http.ResponseWriter, r *http.Request) error {
	var req reviewRequest
	if err := a.decode(w, r, validation.SchemaReview, &req); err != nil {
		return err
	}
	if req.ID <= 0 {
		return fmt.Errorf("%w: id is required", ErrBadRequest)
	}
	review, err := a.catalog.UpdateReview(r.Context(), req.ID, req.Title, req.Description)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, review)
}

// GET /api/v1/movies/reviews/{id}/authors
func (a *API) reviewAuthor(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	author, err := a.catalog.ReviewAuthor(r.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, author)
}
