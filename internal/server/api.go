package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/sm1l43s/movies/internal/repository"
	"github.com/sm1l43s/movies/internal/services/catalog"
	"github.com/sm1l43s/movies/internal/services/validation"
)

const (
	maxBodyBytes = 1 << 20
	dateLayout   = "2006-01-02"
)

// API holds the collaborators shared by the REST handlers.
type API struct {
	iam       iamAdminService
	catalog   *catalog.Service
	validator validation.Validator
	log       logrus.FieldLogger
	writeErr  func(http.ResponseWriter, *http.Request, error)
}

// handlerFunc is a handler that reports failures instead of writing them.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle adapts fn, sending any returned error through the shared mapper.
func (a *API) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			a.writeErr(w, r, err)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// readBody reads at most maxBodyBytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrBadRequest, err)
	}
	return body, nil
}

// decode validates the body against schema and unmarshals it into dst.
func (a *API) decode(w http.ResponseWriter, r *http.Request, schema string, dst any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	return a.decodeBytes(body, schema, dst)
}

func (a *API) decodeBytes(body []byte, schema string, dst any) error {
	if err := a.validator.Validate(schema, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

// pathID parses a positive integer path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", ErrBadRequest, name, raw)
	}
	return id, nil
}

// pageFromQuery reads page, size and order.
func pageFromQuery(r *http.Request) (repository.Page, error) {
	q := r.URL.Query()
	page := repository.Page{Order: q.Get("order")}

	for _, p := range []struct {
		name string
		dst  *int
	}{{"page", &page.Number}, {"size", &page.Size}} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return repository.Page{}, fmt.Errorf("%w: invalid %s %q", ErrBadRequest, p.name, raw)
		}
		*p.dst = n
	}
	return page.Normalize(), nil
}

// idList parses a comma separated list of ids; empty input yields nil.
func idList(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: invalid id %q", ErrBadRequest, part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrBadRequest, *raw)
	}
	return &t, nil
}

// PageResponse is the envelope of every listing.
type PageResponse[T any] struct {
	HTTPStatus    string `json:"httpStatus"`
	Items         []T    `json:"items"`
	TotalElements int    `json:"totalElements"`
	TotalPages    int    `json:"totalPages"`
}

func newPageResponse[T any](items []T, total int, page repository.Page) PageResponse[T] {
	if items == nil {
		items = []T{}
	}
	return PageResponse[T]{
		HTTPStatus:    "OK",
		Items:         items,
		TotalElements: total,
		TotalPages:    repository.TotalPages(total, page.Size),
	}
}

// listResponse wraps an unpaginated collection in the page envelope.
func listResponse[T any](items []T) PageResponse[T] {
	return newPageResponse(items, len(items), repository.Page{Size: max(len(items), 1)})
}
