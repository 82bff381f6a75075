package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sm1l43s/movies/internal/db/models"
	"github.com/uptrace/bun"
)

var dictionarySortColumns = map[string]string{
	"id":   "id",
	"name": "name",
}

// BunDictionaryRepository implements DictionaryRepository for any flat
// id/name model.
type BunDictionaryRepository[T any] struct {
	db     *bun.DB
	entity string
}

// NewBunDictionaryRepository creates a repository; entity names the rows in errors.
func NewBunDictionaryRepository[T any](db *bun.DB, entity string) *BunDictionaryRepository[T] {
	return &BunDictionaryRepository[T]{db: db, entity: entity}
}

// NewGenreRepository returns the genre dictionary.
func NewGenreRepository(db *bun.DB) *BunDictionaryRepository[models.Genre] {
	return NewBunDictionaryRepository[models.Genre](db, "genre")
}

// NewCountryRepository returns the country dictionary.
func NewCountryRepository(db *bun.DB) *BunDictionaryRepository[models.Country] {
	return NewBunDictionaryRepository[models.Country](db, "country")
}

// NewProfessionRepository returns the profession dictionary.
func NewProfessionRepository(db *bun.DB) *BunDictionaryRepository[models.Profession] {
	return NewBunDictionaryRepository[models.Profession](db, "profession")
}

// NewMovieTypeRepository returns the movie type dictionary.
func NewMovieTypeRepository(db *bun.DB) *BunDictionaryRepository[models.MovieType] {
	return NewBunDictionaryRepository[models.MovieType](db, "type")
}

func (r *BunDictionaryRepository[T]) List(ctx context.Context, page Page) ([]T, int, error) {
	var items []T
	q := r.db.NewSelect().Model(&items)
	total, err := page.apply(q, dictionarySortColumns).ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", r.entity, err)
	}
	return items, total, nil
}

func (r *BunDictionaryRepository[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	item := new(T)
	err := r.db.NewSelect().
		Model(item).
		Where("?TableAlias.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s %d: %w", r.entity, id, ErrNotFound)
		}
		return nil, fmt.Errorf("get %s: %w", r.entity, err)
	}
	return item, nil
}

func (r *BunDictionaryRepository[T]) GetByIDs(ctx context.Context, ids []int64) ([]T, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}

	var items []T
	err := r.db.NewSelect().
		Model(&items).
		Where("?TableAlias.id IN (?)", bun.In(ids)).
		OrderExpr("?TableAlias.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("get %s by ids: %w", r.entity, err)
	}
	if len(items) != len(ids) {
		return nil, fmt.Errorf("%s ids %v: %w", r.entity, ids, ErrNotFound)
	}
	return items, nil
}

// BunPrivilegeRepository implements PrivilegeRepository using Bun ORM
type BunPrivilegeRepository struct {
	*BunDictionaryRepository[models.Privilege]
}

// NewBunPrivilegeRepository creates a new Bun-based privilege repository
func NewBunPrivilegeRepository(db *bun.DB) *BunPrivilegeRepository {
	return &BunPrivilegeRepository{NewBunDictionaryRepository[models.Privilege](db, "privilege")}
}

// GetByName retrieves a privilege by its unique name.
func (r *BunPrivilegeRepository) GetByName(ctx context.Context, name string) (*models.Privilege, error) {
	p := new(models.Privilege)
	err := r.db.NewSelect().
		Model(p).
		Where("?TableAlias.name = ?", name).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("privilege %s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("get privilege by name: %w", err)
	}
	return p, nil
}
