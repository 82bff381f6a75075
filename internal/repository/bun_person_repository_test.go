package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sm1l43s/movies/internal/db/models"
)

func TestBunPersonRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunPersonRepository(db)
	ctx := context.Background()

	birthPlace := int64(2)
	birthday := time.Date(1932, 4, 4, 0, 0, 0, 0, time.UTC)
	person := &models.Person{
		NameRu:       "Andrei Tarkovsky",
		NameEn:       "Andrei Tarkovsky",
		Birthday:     &birthday,
		BirthPlaceID: &birthPlace,
		Professions:  []models.Profession{{ID: 2}, {ID: 3}},
	}
	require.NoError(t, repo.Create(ctx, person))
	require.NotZero(t, person.ID)

	got, err := repo.GetByID(ctx, person.ID)
	require.NoError(t, err)
	require.NotNil(t, got.BirthPlace)
	assert.Equal(t, "Russia", got.BirthPlace.Name)
	assert.Len(t, got.Professions, 2)

	got.NameEn = "A. Tarkovsky"
	got.Professions = []models.Profession{{ID: 2}}
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.GetByID(ctx, person.ID)
	require.NoError(t, err)
	assert.Equal(t, "A. Tarkovsky", got.NameEn)
	assert.Len(t, got.Professions, 1)

	m1 := createTestMovie(t, db, "Stalker", nil, nil)
	m2 := createTestMovie(t, db, "Solaris", nil, nil)

	require.NoError(t, repo.SetMovies(ctx, person.ID, []int64{m2.ID, m1.ID}))
	movies, err := repo.ListMovies(ctx, person.ID)
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, m1.ID, movies[0].ID)

	assert.ErrorIs(t, repo.SetMovies(ctx, person.ID, []int64{m1.ID, 9999}), ErrNotFound)
	movies, err = repo.ListMovies(ctx, person.ID)
	require.NoError(t, err)
	assert.Len(t, movies, 2, "failed replacement leaves the filmography intact")

	require.NoError(t, repo.SetMovies(ctx, person.ID, nil))
	movies, err = repo.ListMovies(ctx, person.ID)
	require.NoError(t, err)
	assert.Empty(t, movies)

	persons, total, err := repo.List(ctx, Page{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, persons, 1)

	require.NoError(t, repo.Delete(ctx, person.ID))
	_, err = repo.ListMovies(ctx, person.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBunReviewRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunReviewRepository(db)
	ctx := context.Background()

	movie := createTestMovie(t, db, "Nostalghia", nil, nil)
	author := createTestUser(t, db, "critic@example.com")

	review := &models.Review{
		MovieID:     movie.ID,
		AuthorID:    author.ID,
		Title:       "Slow and beautiful",
		Description: "Long takes.",
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, review))
	require.NotZero(t, review.ID)

	err := repo.Create(ctx, &models.Review{MovieID: 9999, AuthorID: author.ID, Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := repo.GetByID(ctx, review.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Author)
	assert.Equal(t, "critic@example.com", got.Author.Email)

	got.Title = "Edited"
	require.NoError(t, repo.Update(ctx, got))

	reviews, total, err := repo.ListByMovie(ctx, movie.ID, Page{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Edited", reviews[0].Title)

	_, _, err = repo.ListByMovie(ctx, 9999, Page{})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Delete(ctx, review.ID))
	assert.ErrorIs(t, repo.Delete(ctx, review.ID), ErrNotFound)
}
