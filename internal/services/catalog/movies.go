package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/sm1l43s/movies/internal/auth"
	"github.com/sm1l43s/movies/internal/db/models"
	"github.com/sm1l43s/movies/internal/repository"
)

// MovieInput carries the writable fields of a movie.
type MovieInput struct {
	ID              int64
	NameRu          string
	NameEn          string
	PosterURL       string
	TrailerURL      string
	Description     string
	Slogan          string
	Year            int
	MovieLength     int
	RatingImdb      float64
	RatingKinopoisk float64
	TypeID          *int64
	GenreIDs        []int64
	CountryIDs      []int64
}

func (s *Service) ListMovies(ctx context.Context, filter repository.MovieFilter, page repository.Page) ([]models.Movie, int, error) {
	return s.movies.List(ctx, filter, page)
}

func (s *Service) GetMovie(ctx context.Context, id int64) (*models.Movie, error) {
	return s.movies.GetByID(ctx, id)
}

// buildMovie resolves referenced ids into a movie ready for persistence.
func (s *Service) buildMovie(ctx context.Context, in MovieInput) (*models.Movie, error) {
	movie := &models.Movie{
		ID:              in.ID,
		NameRu:          in.NameRu,
		NameEn:          in.NameEn,
		PosterURL:       in.PosterURL,
		TrailerURL:      in.TrailerURL,
		Description:     in.Description,
		Slogan:          in.Slogan,
		Year:            in.Year,
		MovieLength:     in.MovieLength,
		RatingImdb:      in.RatingImdb,
		RatingKinopoisk: in.RatingKinopoisk,
		TypeID:          in.TypeID,
	}

	if in.TypeID != nil {
		t, err := s.types.GetByID(ctx, *in.TypeID)
		if err != nil {
			return nil, referenceError(err)
		}
		movie.Type = t
	}

	genres, err := s.genres.GetByIDs(ctx, in.GenreIDs)
	if err != nil {
		return nil, referenceError(err)
	}
	movie.Genres = genres

	countries, err := s.countries.GetByIDs(ctx, in.CountryIDs)
	if err != nil {
		return nil, referenceError(err)
	}
	movie.Countries = countries

	return movie, nil
}

func (s *Service) CreateMovie(ctx context.Context, in MovieInput) (*models.Movie, error) {
	in.ID = 0
	movie, err := s.buildMovie(ctx, in)
	if err != nil {
		return nil, err
	}
	movie.CreatedAt = s.now().UTC()

	if err := s.movies.Create(ctx, movie); err != nil {
		return nil, err
	}
	s.log.WithField("movie_id", movie.ID).Info("movie created")
	return movie, nil
}

// CreateMovies creates each movie in order and stops at the first failure.
func (s *Service) CreateMovies(ctx context.Context, inputs []MovieInput) ([]models.Movie, error) {
	created := make([]models.Movie, 0, len(inputs))
	for i, in := range inputs {
		movie, err := s.CreateMovie(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("movie #%d: %w", i, err)
		}
		created = append(created, *movie)
	}
	return created, nil
}

func (s *Service) UpdateMovie(ctx context.Context, in MovieInput) (*models.Movie, error) {
	movie, err := s.buildMovie(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.movies.Update(ctx, movie); err != nil {
		return nil, err
	}
	return s.movies.GetByID(ctx, movie.ID)
}

func (s *Service) DeleteMovie(ctx context.Context, id int64) error {
	if err := s.movies.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("movie_id", id).Info("movie deleted")
	return nil
}

// Vote records the principal's score for a movie and returns the updated movie.
func (s *Service) Vote(ctx context.Context, principal *auth.Principal, movieID int64, score int) (*models.Movie, error) {
	if principal == nil {
		return nil, auth.ErrUnauthorized
	}
	if score < MinScore || score > MaxScore {
		return nil, ErrInvalidScore
	}

	err := s.movies.AddVote(ctx, &models.MovieVote{
		MovieID:   movieID,
		UserID:    principal.UserID(),
		Score:     score,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrAlreadyVoted
		}
		return nil, err
	}
	return s.movies.GetByID(ctx, movieID)
}

func (s *Service) Voters(ctx context.Context, movieID int64) ([]models.User, error) {
	return s.movies.ListVoters(ctx, movieID)
}
