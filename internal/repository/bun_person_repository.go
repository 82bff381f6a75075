package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sm1l43s/movies/internal/db/models"
	"github.com/uptrace/bun"
)

var personSortColumns = map[string]string{
	"id":       "id",
	"nameRu":   "name_ru",
	"nameEn":   "name_en",
	"birthday": "birthday",
}

// BunPersonRepository implements PersonRepository using Bun ORM
type BunPersonRepository struct {
	db *bun.DB
}

// NewBunPersonRepository creates a new Bun-based person repository
func NewBunPersonRepository(db *bun.DB) *BunPersonRepository {
	return &BunPersonRepository{db: db}
}

func (r *BunPersonRepository) List(ctx context.Context, page Page) ([]models.Person, int, error) {
	var persons []models.Person
	q := r.db.NewSelect().Model(&persons).Relation("BirthPlace").Relation("Professions")
	total, err := page.apply(q, personSortColumns).ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list persons: %w", err)
	}
	return persons, total, nil
}

func (r *BunPersonRepository) GetByID(ctx context.Context, id int64) (*models.Person, error) {
	person := new(models.Person)
	err := r.db.NewSelect().
		Model(person).
		Relation("BirthPlace").
		Relation("Professions").
		Where("ps.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("person %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get person by ID: %w", err)
	}
	return person, nil
}

func (r *BunPersonRepository) Create(ctx context.Context, person *models.Person) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(person).Exec(ctx); err != nil {
			return fmt.Errorf("create person: %w", err)
		}
		return linkProfessions(ctx, tx, person)
	})
}

func (r *BunPersonRepository) Update(ctx context.Context, person *models.Person) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		result, err := tx.NewUpdate().
			Model(person).
			Column("name_ru", "name_en", "poster_url", "birthday", "birth_place_id").
			WherePK().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("update person: %w", err)
		}
		if err := requireAffected(result, "person", person.ID); err != nil {
			return err
		}

		if _, err := tx.NewDelete().
			Model((*models.PersonProfession)(nil)).
			Where("person_id = ?", person.ID).
			Exec(ctx); err != nil {
			return fmt.Errorf("clear person professions: %w", err)
		}
		return linkProfessions(ctx, tx, person)
	})
}

func (r *BunPersonRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.NewDelete().
		Model((*models.Person)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	return requireAffected(result, "person", id)
}

func (r *BunPersonRepository) ListMovies(ctx context.Context, personID int64) ([]models.Movie, error) {
	if err := r.ensureExists(ctx, r.db, personID); err != nil {
		return nil, err
	}

	var movies []models.Movie
	err := r.db.NewSelect().
		Model(&movies).
		Relation("Type").
		Relation("Genres").
		Relation("Countries").
		Join("JOIN person_movies AS pm ON pm.movie_id = m.id").
		Where("pm.person_id = ?", personID).
		OrderExpr("m.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list person movies: %w", err)
	}
	return movies, nil
}

func (r *BunPersonRepository) SetMovies(ctx context.Context, personID int64, movieIDs []int64) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := r.ensureExists(ctx, tx, personID); err != nil {
			return err
		}

		ids := uniqueIDs(movieIDs)
		if len(ids) > 0 {
			found, err := tx.NewSelect().
				Model((*models.Movie)(nil)).
				Where("id IN (?)", bun.In(ids)).
				Count(ctx)
			if err != nil {
				return fmt.Errorf("check movies: %w", err)
			}
			if found != len(ids) {
				return fmt.Errorf("movie ids %v: %w", ids, ErrNotFound)
			}
		}

		if _, err := tx.NewDelete().
			Model((*models.PersonMovie)(nil)).
			Where("person_id = ?", personID).
			Exec(ctx); err != nil {
			return fmt.Errorf("clear person movies: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}

		rows := make([]models.PersonMovie, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, models.PersonMovie{PersonID: personID, MovieID: id})
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("link person movies: %w", err)
		}
		return nil
	})
}

func (r *BunPersonRepository) ensureExists(ctx context.Context, db bun.IDB, id int64) error {
	exists, err := db.NewSelect().Model((*models.Person)(nil)).Where("id = ?", id).Exists(ctx)
	if err != nil {
		return fmt.Errorf("check person: %w", err)
	}
	if !exists {
		return fmt.Errorf("person %d: %w", id, ErrNotFound)
	}
	return nil
}

func linkProfessions(ctx context.Context, tx bun.Tx, person *models.Person) error {
	ids := make([]int64, 0, len(person.Professions))
	for _, p := range person.Professions {
		ids = append(ids, p.ID)
	}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}

	rows := make([]models.PersonProfession, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, models.PersonProfession{PersonID: person.ID, ProfessionID: id})
	}
	if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("link person professions: %w", err)
	}
	return nil
}
