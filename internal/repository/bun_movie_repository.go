package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sm1l43s/movies/internal/db/models"
	"github.com/uptrace/bun"
)

var movieSortColumns = map[string]string{
	"id":              "id",
	"nameRu":          "name_ru",
	"nameEn":          "name_en",
	"year":            "year",
	"movieLength":     "movie_length",
	"ratingImdb":      "rating_imdb",
	"ratingKinopoisk": "rating_kinopoisk",
	"numberOfVotes":   "number_of_votes",
	"createdAt":       "created_at",
}

// BunMovieRepository implements MovieRepository using Bun ORM
type BunMovieRepository struct {
	db *bun.DB
}

// NewBunMovieRepository creates a new Bun-based movie repository
func NewBunMovieRepository(db *bun.DB) *BunMovieRepository {
	return &BunMovieRepository{db: db}
}

func (r *BunMovieRepository) selectMovie(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Relation("Type").Relation("Genres").Relation("Countries")
}

// List returns a filtered page of movies and the total count.
func (r *BunMovieRepository) List(ctx context.Context, filter MovieFilter, page Page) ([]models.Movie, int, error) {
	var movies []models.Movie
	q := r.selectMovie(r.db.NewSelect().Model(&movies))

	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		pattern := "%" + strings.ToLower(kw) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("LOWER(m.name_ru) LIKE ?", pattern).
				WhereOr("LOWER(m.name_en) LIKE ?", pattern)
		})
	}
	if len(filter.GenreIDs) > 0 {
		sub := r.db.NewSelect().
			Model((*models.MovieGenre)(nil)).
			Column("movie_id").
			Where("genre_id IN (?)", bun.In(filter.GenreIDs))
		q = q.Where("m.id IN (?)", sub)
	}
	if len(filter.CountryIDs) > 0 {
		sub := r.db.NewSelect().
			Model((*models.MovieCountry)(nil)).
			Column("movie_id").
			Where("country_id IN (?)", bun.In(filter.CountryIDs))
		q = q.Where("m.id IN (?)", sub)
	}
	if filter.MovieTypeID != nil {
		q = q.Where("m.type_id = ?", *filter.MovieTypeID)
	}

	total, err := page.apply(q, movieSortColumns).ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list movies: %w", err)
	}
	return movies, total, nil
}

// GetByID retrieves a movie with its type, genres and countries.
func (r *BunMovieRepository) GetByID(ctx context.Context, id int64) (*models.Movie, error) {
	movie := new(models.Movie)
	err := r.selectMovie(r.db.NewSelect().Model(movie)).
		Where("m.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("movie %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get movie by ID: %w", err)
	}
	return movie, nil
}

// Create inserts a movie and its genre and country links.
func (r *BunMovieRepository) Create(ctx context.Context, movie *models.Movie) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(movie).Exec(ctx); err != nil {
			return fmt.Errorf("create movie: %w", err)
		}
		return linkMovie(ctx, tx, movie)
	})
}

// Update rewrites editable fields and replaces links. Vote totals are untouched.
func (r *BunMovieRepository) Update(ctx context.Context, movie *models.Movie) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		result, err := tx.NewUpdate().
			Model(movie).
			Column("name_ru", "name_en", "poster_url", "trailer_url", "description", "slogan",
				"year", "movie_length", "rating_imdb", "rating_kinopoisk", "type_id").
			WherePK().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("update movie: %w", err)
		}
		if err := requireAffected(result, "movie", movie.ID); err != nil {
			return err
		}

		if _, err := tx.NewDelete().Model((*models.MovieGenre)(nil)).Where("movie_id = ?", movie.ID).Exec(ctx); err != nil {
			return fmt.Errorf("clear movie genres: %w", err)
		}
		if _, err := tx.NewDelete().Model((*models.MovieCountry)(nil)).Where("movie_id = ?", movie.ID).Exec(ctx); err != nil {
			return fmt.Errorf("clear movie countries: %w", err)
		}
		return linkMovie(ctx, tx, movie)
	})
}

// Delete removes a movie. Links, votes and reviews cascade.
func (r *BunMovieRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.NewDelete().
		Model((*models.Movie)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	return requireAffected(result, "movie", id)
}

// AddVote stores the vote and bumps the movie's totals in one transaction.
func (r *BunMovieRepository) AddVote(ctx context.Context, vote *models.MovieVote) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.MovieVote)(nil)).
			Where("movie_id = ? AND user_id = ?", vote.MovieID, vote.UserID).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("check vote: %w", err)
		}
		if exists {
			return fmt.Errorf("vote by user %d for movie %d: %w", vote.UserID, vote.MovieID, ErrAlreadyExists)
		}

		result, err := tx.NewUpdate().
			Model((*models.Movie)(nil)).
			Set("number_of_votes = number_of_votes + 1").
			Set("votes_score = votes_score + ?", vote.Score).
			Where("id = ?", vote.MovieID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("update vote totals: %w", err)
		}
		if err := requireAffected(result, "movie", vote.MovieID); err != nil {
			return err
		}

		if _, err := tx.NewInsert().Model(vote).Exec(ctx); err != nil {
			// A concurrent vote can land between the check and the insert.
			if isDuplicateKeyError(err) {
				return fmt.Errorf("vote by user %d for movie %d: %w", vote.UserID, vote.MovieID, ErrAlreadyExists)
			}
			return fmt.Errorf("insert vote: %w", err)
		}
		return nil
	})
}

// ListVoters returns the users who voted for a movie, in vote order.
func (r *BunMovieRepository) ListVoters(ctx context.Context, movieID int64) ([]models.User, error) {
	if err := r.ensureExists(ctx, movieID); err != nil {
		return nil, err
	}

	var users []models.User
	err := r.db.NewSelect().
		Model(&users).
		Join("JOIN movie_votes AS mv ON mv.user_id = u.id").
		Where("mv.movie_id = ?", movieID).
		OrderExpr("mv.created_at ASC, u.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list voters: %w", err)
	}
	return users, nil
}

func (r *BunMovieRepository) ensureExists(ctx context.Context, id int64) error {
	exists, err := r.db.NewSelect().Model((*models.Movie)(nil)).Where("id = ?", id).Exists(ctx)
	if err != nil {
		return fmt.Errorf("check movie: %w", err)
	}
	if !exists {
		return fmt.Errorf("movie %d: %w", id, ErrNotFound)
	}
	return nil
}

func linkMovie(ctx context.Context, tx bun.Tx, movie *models.Movie) error {
	genreIDs := make([]int64, 0, len(movie.Genres))
	for _, g := range movie.Genres {
		genreIDs = append(genreIDs, g.ID)
	}
	if ids := uniqueIDs(genreIDs); len(ids) > 0 {
		rows := make([]models.MovieGenre, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, models.MovieGenre{MovieID: movie.ID, GenreID: id})
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("link movie genres: %w", err)
		}
	}

	countryIDs := make([]int64, 0, len(movie.Countries))
	for _, c := range movie.Countries {
		countryIDs = append(countryIDs, c.ID)
	}
	if ids := uniqueIDs(countryIDs); len(ids) > 0 {
		rows := make([]models.MovieCountry, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, models.MovieCountry{MovieID: movie.ID, CountryID: id})
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("link movie countries: %w", err)
		}
	}
	return nil
}
