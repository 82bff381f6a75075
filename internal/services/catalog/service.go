// Package catalog implements the movie catalog operations: movies and
// votes, staff and filmographies, reviews.
package catalog

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sm1l43s/movies/internal/db/models"
	"github.com/sm1l43s/movies/internal/repository"
)

const (
	MinScore = 0
	MaxScore = 10
)

var (
	// ErrInvalidScore is returned for votes outside MinScore..MaxScore.
	ErrInvalidScore = errors.New("score must be between 0 and 10")

	// ErrAlreadyVoted is returned when a user votes twice for one movie.
	ErrAlreadyVoted = errors.New("you have already voted for this movie")

	// ErrInvalidReference is returned when a payload references an unknown
	// genre, country, type, profession or movie id.
	ErrInvalidReference = errors.New("unknown referenced id")
)

// Service coordinates catalog repositories.
type Service struct {
	movies      repository.MovieRepository
	persons     repository.PersonRepository
	reviews     repository.ReviewRepository
	genres      repository.DictionaryRepository[models.Genre]
	countries   repository.DictionaryRepository[models.Country]
	professions repository.DictionaryRepository[models.Profession]
	types       repository.DictionaryRepository[models.MovieType]
	log         logrus.FieldLogger
	now         func() time.Time
}

// Dependencies lists the repositories the catalog needs.
type Dependencies struct {
	Movies      repository.MovieRepository
	Persons     repository.PersonRepository
	Reviews     repository.ReviewRepository
	Genres      repository.DictionaryRepository[models.Genre]
	Countries   repository.DictionaryRepository[models.Country]
	Professions repository.DictionaryRepository[models.Profession]
	Types       repository.DictionaryRepository[models.MovieType]
	Logger      logrus.FieldLogger
	Now         func() time.Time
}

// NewService creates a catalog service.
func NewService(deps Dependencies) *Service {
	log := deps.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		movies:      deps.Movies,
		persons:     deps.Persons,
		reviews:     deps.Reviews,
		genres:      deps.Genres,
		countries:   deps.Countries,
		professions: deps.Professions,
		types:       deps.Types,
		log:         log.WithField("component", "catalog"),
		now:         now,
	}
}

// referenceError turns a missing referenced row into ErrInvalidReference.
func referenceError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return errors.Join(ErrInvalidReference, err)
	}
	return err
}
