package migrations

import (
	"context"
	"fmt"

	"github.com/sm1l43s/movies/internal/auth"
	"github.com/sm1l43s/movies/internal/db/models"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(up_20250601000001, down_20250601000001)
}

var (
	seedGenres      = []string{"drama", "comedy", "thriller", "horror", "action", "fantasy", "documentary", "animation", "crime", "romance"}
	seedCountries   = []string{"USA", "Russia", "France", "United Kingdom", "Germany", "Japan", "Italy", "Spain", "Canada", "South Korea"}
	seedProfessions = []string{"actor", "director", "writer", "producer", "composer", "operator", "editor", "designer"}
	seedTypes       = []string{"movie", "tv-series", "cartoon", "anime", "animated-series"}
)

// up_20250601000001 seeds privileges and the read-only dictionaries
func up_20250601000001(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [up] seeding privileges...")
	for _, perm := range auth.AllPermissions() {
		_, err := db.NewInsert().
			Model(&models.Privilege{Name: string(perm)}).
			On("CONFLICT (name) DO NOTHING"). // Idempotent
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed privilege %s: %w", perm, err)
		}
	}
	fmt.Println(" OK")

	fmt.Print(" [up] seeding dictionaries...")
	for _, name := range seedGenres {
		if _, err := db.NewInsert().Model(&models.Genre{Name: name}).On("CONFLICT (name) DO NOTHING").Exec(ctx); err != nil {
			return fmt.Errorf("failed to seed genre %s: %w", name, err)
		}
	}
	for _, name := range seedCountries {
		if _, err := db.NewInsert().Model(&models.Country{Name: name}).On("CONFLICT (name) DO NOTHING").Exec(ctx); err != nil {
			return fmt.Errorf("failed to seed country %s: %w", name, err)
		}
	}
	for _, name := range seedProfessions {
		if _, err := db.NewInsert().Model(&models.Profession{Name: name}).On("CONFLICT (name) DO NOTHING").Exec(ctx); err != nil {
			return fmt.Errorf("failed to seed profession %s: %w", name, err)
		}
	}
	for _, name := range seedTypes {
		if _, err := db.NewInsert().Model(&models.MovieType{Name: name}).On("CONFLICT (name) DO NOTHING").Exec(ctx); err != nil {
			return fmt.Errorf("failed to seed type %s: %w", name, err)
		}
	}
	fmt.Println(" OK")

	return nil
}

func down_20250601000001(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [down] removing seeded reference data...")

	names := make([]string, 0, len(auth.AllPermissions()))
	for _, perm := range auth.AllPermissions() {
		names = append(names, string(perm))
	}

	deletes := []struct {
		model any
		names []string
	}{
		{(*models.Privilege)(nil), names},
		{(*models.Genre)(nil), seedGenres},
		{(*models.Country)(nil), seedCountries},
		{(*models.Profession)(nil), seedProfessions},
		{(*models.MovieType)(nil), seedTypes},
	}
	for _, d := range deletes {
		_, err := db.NewDelete().Model(d.model).Where("name IN (?)", bun.In(d.names)).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to remove seed data: %w", err)
		}
	}

	fmt.Println(" OK")
	return nil
}
