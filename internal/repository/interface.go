package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/sm1l43s/movies/internal/db/models"
)

var (
	// ErrNotFound is wrapped by every lookup that matches no row.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is wrapped when an insert collides with a unique key.
	ErrAlreadyExists = errors.New("already exists")
)

// isDuplicateKeyError reports a unique or primary key violation from
// Postgres or SQLite.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint") || strings.Contains(msg, "23505")
}

// UserRepository is the credential store plus account administration.
// Lookups load the user's privileges.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, page Page) ([]models.User, int, error)
	// Update writes profile fields only (names, birthday).
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
	// SetPrivileges replaces the user's privilege set.
	SetPrivileges(ctx context.Context, userID int64, privilegeIDs []int64) error
}

// PrivilegeRepository exposes the privilege catalogue.
type PrivilegeRepository interface {
	List(ctx context.Context, page Page) ([]models.Privilege, int, error)
	GetByID(ctx context.Context, id int64) (*models.Privilege, error)
	GetByName(ctx context.Context, name string) (*models.Privilege, error)
}

// DictionaryRepository exposes a flat read-only lookup table
// (genres, countries, professions, types).
type DictionaryRepository[T any] interface {
	List(ctx context.Context, page Page) ([]T, int, error)
	GetByID(ctx context.Context, id int64) (*T, error)
	// GetByIDs returns the rows for ids, failing with ErrNotFound if any id is unknown.
	GetByIDs(ctx context.Context, ids []int64) ([]T, error)
}

// MovieFilter narrows a movie listing. Zero values disable a criterion;
// set criteria are combined with AND.
type MovieFilter struct {
	Keyword     string
	CountryIDs  []int64
	GenreIDs    []int64
	MovieTypeID *int64
}

// MovieRepository persists movies, their genre and country links, and votes.
type MovieRepository interface {
	List(ctx context.Context, filter MovieFilter, page Page) ([]models.Movie, int, error)
	GetByID(ctx context.Context, id int64) (*models.Movie, error)
	// Create inserts the movie and links movie.Genres and movie.Countries by id.
	Create(ctx context.Context, movie *models.Movie) error
	// Update rewrites editable fields and replaces the genre and country links.
	Update(ctx context.Context, movie *models.Movie) error
	Delete(ctx context.Context, id int64) error
	// AddVote records a vote and updates the movie's vote totals atomically.
	// It wraps ErrAlreadyExists when the user has already voted.
	AddVote(ctx context.Context, vote *models.MovieVote) error
	ListVoters(ctx context.Context, movieID int64) ([]models.User, error)
}

// PersonRepository persists staff members and their filmography.
type PersonRepository interface {
	List(ctx context.Context, page Page) ([]models.Person, int, error)
	GetByID(ctx context.Context, id int64) (*models.Person, error)
	// Create inserts the person and links person.Professions by id.
	Create(ctx context.Context, person *models.Person) error
	Update(ctx context.Context, person *models.Person) error
	Delete(ctx context.Context, id int64) error
	ListMovies(ctx context.Context, personID int64) ([]models.Movie, error)
	// SetMovies replaces the person's filmography; an empty slice clears it.
	SetMovies(ctx context.Context, personID int64, movieIDs []int64) error
}

// ReviewRepository persists movie reviews.
type ReviewRepository interface {
	ListByMovie(ctx context.Context, movieID int64, page Page) ([]models.Review, int, error)
	// GetByID loads the review with its author.
	GetByID(ctx context.Context, id int64) (*models.Review, error)
	Create(ctx context.Context, review *models.Review) error
	// Update rewrites title and description.
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id int64) error
}
