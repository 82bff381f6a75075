package repository

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sm1l43s/movies/internal/db/models"
)

func TestBunUserRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunUserRepository(db)
	privileges := NewBunPrivilegeRepository(db)
	ctx := context.Background()

	getMovie, err := privileges.GetByName(ctx, "GET_MOVIE")
	require.NoError(t, err)
	votes, err := privileges.GetByName(ctx, "VOTES_MOVIE")
	require.NoError(t, err)

	user := &models.User{
		Email:        "alice@example.com",
		PasswordHash: "hash",
		FirstName:    "Alice",
		Privileges:   []models.Privilege{*getMovie, *votes},
	}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID)

	t.Run("get by email loads privileges", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, "hash", got.PasswordHash)
		assert.ElementsMatch(t, []string{"GET_MOVIE", "VOTES_MOVIE"}, got.PrivilegeNames())
	})

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", got.FirstName)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := repo.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("exists by email", func(t *testing.T) {
		ok, err := repo.ExistsByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.ExistsByEmail(ctx, "bob@example.com")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{Email: "alice@example.com", PasswordHash: "x"})
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})
}

func TestBunUserRepository_SetPrivileges(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunUserRepository(db)
	privileges := NewBunPrivilegeRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "carol@example.com")

	getUser, err := privileges.GetByName(ctx, "GET_USER")
	require.NoError(t, err)
	editPriv, err := privileges.GetByName(ctx, "EDIT_PRIVILEGE")
	require.NoError(t, err)

	require.NoError(t, repo.SetPrivileges(ctx, user.ID, []int64{getUser.ID, editPriv.ID, getUser.ID}))
	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"GET_USER", "EDIT_PRIVILEGE"}, got.PrivilegeNames())

	require.NoError(t, repo.SetPrivileges(ctx, user.ID, nil))
	got, err = repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Privileges)

	err = repo.SetPrivileges(ctx, 9999, []int64{getUser.ID})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBunUserRepository_UpdateListDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunUserRepository(db)
	ctx := context.Background()

	a := createTestUser(t, db, "a@example.com")
	createTestUser(t, db, "b@example.com")
	createTestUser(t, db, "c@example.com")

	a.FirstName = "Changed"
	a.PasswordHash = "must-not-be-written"
	require.NoError(t, repo.Update(ctx, a))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Changed", got.FirstName)
	assert.Equal(t, "hash", got.PasswordHash)

	users, total, err := repo.List(ctx, Page{Number: 0, Size: 2, Order: "email"})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, users, 2)
	assert.Equal(t, "a@example.com", users[0].Email)

	users, _, err = repo.List(ctx, Page{Number: 1, Size: 2, Order: "email"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "c@example.com", users[0].Email)

	require.NoError(t, repo.Delete(ctx, a.ID))
	_, err = repo.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), ErrNotFound)
}

func TestBunDictionaryRepository(t *testing.T) {
	db := setupTestDB(t)
	genres := NewGenreRepository(db)
	ctx := context.Background()

	items, total, err := genres.List(ctx, Page{Size: 3, Order: "name"})
	require.NoError(t, err)
	assert.Equal(t, 10, total)
	require.Len(t, items, 3)
	assert.Equal(t, "action", items[0].Name)

	first, err := genres.GetByID(ctx, items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "action", first.Name)

	_, err = genres.GetByID(ctx, 424242)
	assert.ErrorIs(t, err, ErrNotFound)

	found, err := genres.GetByIDs(ctx, []int64{items[0].ID, items[1].ID, items[0].ID})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	_, err = genres.GetByIDs(ctx, []int64{items[0].ID, 424242})
	assert.ErrorIs(t, err, ErrNotFound)

	privileges := NewBunPrivilegeRepository(db)
	_, err = privileges.GetByName(ctx, "NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPage(t *testing.T) {
	p := Page{Number: -1, Size: 0}.Normalize()
	assert.Equal(t, 0, p.Number)
	assert.Equal(t, DefaultPageSize, p.Size)

	p = Page{Number: 2, Size: 1000}.Normalize()
	assert.Equal(t, MaxPageSize, p.Size)
	assert.Equal(t, 2*MaxPageSize, p.Offset())

	p = Page{Number: math.MaxInt, Size: MaxPageSize}.Normalize()
	assert.Equal(t, MaxPageNumber, p.Number)
	assert.Equal(t, MaxPageNumber*MaxPageSize, p.Offset())
	assert.Positive(t, p.Offset())

	assert.Equal(t, 0, TotalPages(0, 50))
	assert.Equal(t, 1, TotalPages(50, 50))
	assert.Equal(t, 2, TotalPages(51, 50))
}
