package migrations

import (
	"context"
	"fmt"

	"github.com/sm1l43s/movies/internal/db/models"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(up_20250601000000, down_20250601000000)
}

// createOrder lists tables so that every foreign key target precedes its referrer.
var createOrder = []struct {
	name  string
	model any
}{
	{"genres", (*models.Genre)(nil)},
	{"countries", (*models.Country)(nil)},
	{"professions", (*models.Profession)(nil)},
	{"types", (*models.MovieType)(nil)},
	{"users", (*models.User)(nil)},
	{"privileges", (*models.Privilege)(nil)},
	{"user_privileges", (*models.UserPrivilege)(nil)},
	{"movies", (*models.Movie)(nil)},
	{"movie_genres", (*models.MovieGenre)(nil)},
	{"movie_countries", (*models.MovieCountry)(nil)},
	{"movie_votes", (*models.MovieVote)(nil)},
	{"persons", (*models.Person)(nil)},
	{"person_professions", (*models.PersonProfession)(nil)},
	{"person_movies", (*models.PersonMovie)(nil)},
	{"reviews", (*models.Review)(nil)},
}

// up_20250601000000 creates the catalog, account and join tables
func up_20250601000000(ctx context.Context, db *bun.DB) error {
	for _, table := range createOrder {
		fmt.Printf(" [up] creating %s table...", table.name)
		_, err := db.NewCreateTable().
			Model(table.model).
			IfNotExists().
			WithForeignKeys().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
		fmt.Println(" OK")
	}

	fmt.Print(" [up] creating indexes...")
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_movies_name_ru ON movies(name_ru)`,
		`CREATE INDEX IF NOT EXISTS idx_movies_type_id ON movies(type_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_movie_id ON reviews(movie_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_author_id ON reviews(author_id)`,
		`CREATE INDEX IF NOT EXISTS idx_person_movies_movie_id ON person_movies(movie_id)`,
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	fmt.Println(" OK")

	return nil
}

func down_20250601000000(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [down] dropping all tables...")

	for i := len(createOrder) - 1; i >= 0; i-- {
		q := db.NewDropTable().Model(createOrder[i].model).IfExists()
		if IsPostgreSQL(db) {
			q = q.Cascade()
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop %s: %w", createOrder[i].name, err)
		}
	}

	fmt.Println(" OK")
	return nil
}
