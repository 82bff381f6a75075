package catalog

import (
	"github.com/sm1l43s/movies/internal/db/models"
	"github.com/sm1l43s/movies/internal/repository"
)

// Dictionaries are served read-only; these accessors expose them to the HTTP layer.

func (s *Service) Genres() repository.DictionaryRepository[models.Genre] { return s.genres }

func (s *Service) Countries() repository.DictionaryRepository[models.Country] { return s.countries }

func (s *Service) Professions() repository.DictionaryRepository[models.Profession] {
	return s.professions
}

func (s *Service) Types() repository.DictionaryRepository[models.MovieType] { return s.types }
