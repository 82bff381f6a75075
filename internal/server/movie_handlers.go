package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/sm1l43s/movies/internal/auth"
	"github.com/sm1l43s/movies/internal/repository"
	"github.com/sm1l43s/movies/internal/services/catalog"
	"github.com/sm1l43s/movies/internal/services/validation"
)

type movieRequest struct {
	ID              int64   `json:"id"`
	NameRu          string  `json:"nameRu"`
	NameEn          string  `json:"nameEn"`
	PosterURL       string  `json:"posterUrl"`
	TrailerURL      string  `json:"trailerUrl"`
	Description     string  `json:"description"`
	Slogan          string  `json:"slogan"`
	Year            int     `json:"year"`
	MovieLength     int     `json:"movieLength"`
	RatingImdb      float64 `json:"ratingImdb"`
	RatingKinopoisk float64 `json:"ratingKinopoisk"`
	TypeID          *int64  `json:"typeId"`
	GenreIDs        []int64 `json:"genreIds"`
	CountryIDs      []int64 `json:"countryIds"`
}

func (m movieRequest) toInput() catalog.MovieInput {
	return catalog.MovieInput{
		ID:              m.ID,
		NameRu:          m.NameRu,
		NameEn:          m.NameEn,
		PosterURL:       m.PosterURL,
		TrailerURL:      m.TrailerURL,
		Description:     m.Description,
		Slogan:          m.Slogan,
		Year:            m.Year,
		MovieLength:     m.MovieLength,
		RatingImdb:      m.RatingImdb,
		RatingKinopoisk: m.RatingKinopoisk,
		TypeID:          m.TypeID,
		GenreIDs:        m.GenreIDs,
		CountryIDs:      m.CountryIDs,
	}
}

type idRequest struct {
	ID int64 `json:"id"`
}

// movieFilter reads keyword, countries, genres and type from the query.
func movieFilter(r *http.Request) (repository.MovieFilter, error) {
	q := r.URL.Query()
	filter := repository.MovieFilter{Keyword: strings.TrimSpace(q.Get("keyword"))}

	var err error
	if filter.CountryIDs, err = idList(q.Get("countries")); err != nil {
		return filter, err
	}
	if filter.GenreIDs, err = idList(q.Get("genres")); err != nil {
		return filter, err
	}
	if raw := q.Get("type"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return filter, fmt.Errorf("%w: invalid type %q", ErrBadRequest, raw)
		}
		filter.MovieTypeID = &id
	}
	return filter, nil
}

// GET /api/v1/movies
func (a *API) listMovies(w http.ResponseWriter, r *http.Request) error {
	page, err := pageFromQuery(r)
	if err != nil {
		return err
	}
	filter, err := movieFilter(r)
	if err != nil {
		return err
	}

	movies, total, err := a.catalog.ListMovies(r.Context(), filter, page)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, newPageResponse(movies, total, page))
}

// GET /api/v1/movies/{id}
func (a *API) getMovie(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	movie, err := a.catalog.GetMovie(r.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, movie)
}

// POST /api/v1/movies
func (a *API) createMovie(w http.ResponseWriter, r *http.Request) error {
	var req movieRequest
	if err := a.decode(w, r, validation.SchemaMovie, &req); err != nil {
		return err
	}
	movie, err := a.catalog.CreateMovie(r.Context(), req.toInput())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, movie)
}

// POST /api/v1/movies/list creates every movie of a JSON array.
func (a *API) createMovies(w http.ResponseWriter, r *http.Request) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return fmt.Errorf("%w: expected a JSON array of movies", ErrBadRequest)
	}

	inputs := make([]catalog.MovieInput, 0, len(raw))
	for i, item := range raw {
		var req movieRequest
		if err := a.decodeBytes(item, validation.SchemaMovie, &req); err != nil {
			return fmt.Errorf("movie #%d: %w", i, err)
		}
		inputs = append(inputs, req.toInput())
	}

	movies, err := a.catalog.CreateMovies(r.Context(), inputs)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, listResponse(movies))
}

// PUT /api/v1/movies
func (a *API) updateMovie(w http.ResponseWriter, r *http.Request) error {
	var req movieRequest
	if err := a.decode(w, r, validation.SchemaMovie, &req); err != nil {
		return err
	}
	if req.ID <= 0 {
		return fmt.Errorf("%w: id is required", ErrBadRequest)
	}
	movie, err := a.catalog.UpdateMovie(r.Context(), req.toInput())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, movie)
}

// DELETE /api/v1/movies with {"id":N}
func (a *API) deleteMovieByBody(w http.ResponseWriter, r *http.Request) error {
	var req idRequest
	if err := a.decode(w, r, validation.SchemaID, &req); err != nil {
		return err
	}
	if err := a.catalog.DeleteMovie(r.Context(), req.ID); err != nil {
		return err
	}
	w.WriteHeader(http.StatusOK)
	return nil
}

// DELETE /api/v1/movies/{id}
func (a *API) deleteMovie(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	if err := a.catalog.DeleteMovie(r.Context(), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusOK)
	return nil
}

// POST /api/v1/movies/{id}/votes?score=N
func (a *API) vote(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	raw := r.URL.Query().Get("score")
	score, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%w: invalid score %q", ErrBadRequest, raw)
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	movie, err := a.catalog.Vote(r.Context(), principal, id, score)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, movie)
}

// GET /api/v1/movies/{id}/votes
func (a *API) voters(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	users, err := a.catalog.Voters(r.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, listResponse(users))
}
