package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sm1l43s/movies/internal/db/models"
	"github.com/uptrace/bun"
)

var reviewSortColumns = map[string]string{
	"id":        "id",
	"title":     "title",
	"createdAt": "created_at",
}

// BunReviewRepository implements ReviewRepository using Bun ORM
type BunReviewRepository struct {
	db *bun.DB
}

// NewBunReviewRepository creates a new Bun-based review repository
func NewBunReviewRepository(db *bun.DB) *BunReviewRepository {
	return &BunReviewRepository{db: db}
}

func (r *BunReviewRepository) ListByMovie(ctx context.Context, movieID int64, page Page) ([]models.Review, int, error) {
	exists, err := r.db.NewSelect().Model((*models.Movie)(nil)).Where("id = ?", movieID).Exists(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("check movie: %w", err)
	}
	if !exists {
		return nil, 0, fmt.Errorf("movie %d: %w", movieID, ErrNotFound)
	}

	var reviews []models.Review
	q := r.db.NewSelect().
		Model(&reviews).
		Relation("Author").
		Where("r.movie_id = ?", movieID)
	total, err := page.apply(q, reviewSortColumns).ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, total, nil
}

func (r *BunReviewRepository) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	review := new(models.Review)
	err := r.db.NewSelect().
		Model(review).
		Relation("Author").
		Where("r.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("review %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get review by ID: %w", err)
	}
	return review, nil
}

func (r *BunReviewRepository) Create(ctx context.Context, review *models.Review) error {
	exists, err := r.db.NewSelect().Model((*models.Movie)(nil)).Where("id = ?", review.MovieID).Exists(ctx)
	if err != nil {
		return fmt.Errorf("check movie: %w", err)
	}
	if !exists {
		return fmt.Errorf("movie %d: %w", review.MovieID, ErrNotFound)
	}

	if _, err := r.db.NewInsert().Model(review).Exec(ctx); err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

func (r *BunReviewRepository) Update(ctx context.Context, review *models.Review) error {
	result, err := r.db.NewUpdate().
		Model(review).
		Column("title", "description").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	return requireAffected(result, "review", review.ID)
}

func (r *BunReviewRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.NewDelete().
		Model((*models.Review)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return requireAffected(result, "review", id)
}
