package migrations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun/migrate"

	"github.com/sm1l43s/movies/internal/auth"
	"github.com/sm1l43s/movies/internal/db/bunx"
	"github.com/sm1l43s/movies/internal/db/models"
)

func TestMigrations_UpAndDown(t *testing.T) {
	ctx := context.Background()
	db, err := bunx.NewDB(":memory:", 0)
	require.NoError(t, err)
	defer bunx.Close(db)

	assert.True(t, IsSQLite(db))
	assert.False(t, IsPostgreSQL(db))

	group, err := Apply(ctx, db)
	require.NoError(t, err)
	assert.Len(t, group.Migrations, 2)

	count, err := db.NewSelect().Model((*models.Privilege)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(auth.AllPermissions()), count)

	count, err = db.NewSelect().Model((*models.Genre)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(seedGenres), count)

	// Second run is a no-op
	group, err = Apply(ctx, db)
	require.NoError(t, err)
	assert.True(t, group.IsZero())

	migrator := migrate.NewMigrator(db, Migrations)
	_, err = migrator.Rollback(ctx)
	require.NoError(t, err)

	_, err = db.NewSelect().Model((*models.Movie)(nil)).Count(ctx)
	assert.Error(t, err, "movies table should be gone after rollback")
}
