package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/sm1l43s/movies/internal/db/bunx"
	"github.com/sm1l43s/movies/internal/db/models"
	"github.com/sm1l43s/movies/internal/migrations"
)

// setupTestDB opens an in-memory SQLite database with all migrations applied.
func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := bunx.NewDB(":memory:", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bunx.Close(db) })

	_, err = migrations.Apply(context.Background(), db)
	require.NoError(t, err)
	return db
}

func createTestUser(t *testing.T, db *bun.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Test",
		LastName:     "User",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, NewBunUserRepository(db).Create(context.Background(), user))
	return user
}

func createTestMovie(t *testing.T, db *bun.DB, nameRu string, genreIDs, countryIDs []int64) *models.Movie {
	t.Helper()

	movie := &models.Movie{
		NameRu:    nameRu,
		NameEn:    nameRu + " (en)",
		Year:      2000,
		CreatedAt: time.Now().UTC(),
	}
	for _, id := range genreIDs {
		movie.Genres = append(movie.Genres, models.Genre{ID: id})
	}
	for _, id := range countryIDs {
		movie.Countries = append(movie.Countries, models.Country{ID: id})
	}
	require.NoError(t, NewBunMovieRepository(db).Create(context.Background(), movie))
	return movie
}
