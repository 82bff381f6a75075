package server

import (
	"net/http"

	"github.com/sm1l43s/movies/internal/repository"
)

// listDictionary serves a page of a read-only dictionary.
func listDictionary[T any](repo repository.DictionaryRepository[T]) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		page, err := pageFromQuery(r)
		if err != nil {
			return err
		}
		items, total, err := repo.List(r.Context(), page)
		if err != nil {
			return err
		}
		return writeJSON(w, http.StatusOK, newPageResponse(items, total, page))
	}
}

func getDictionary[T any](repo repository.DictionaryRepository[T]) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(r, "id")
		if err != nil {
			return err
		}
		item, err := repo.GetByID(r.Context(), id)
		if err != nil {
			return err
		}
		return writeJSON(w, http.StatusOK, item)
	}
}
