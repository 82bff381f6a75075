package catalog

import (
	"context"
	"fmt"

	"github.com/sm1l43s/movies/internal/auth"
	"github.com/sm1l43s/movies/internal/db/models"
	"github.com/sm1l43s/movies/internal/repository"
)

func (s *Service) MovieReviews(ctx context.Context, movieID int64, page repository.Page) ([]models.Review, int, error) {
	return s.reviews.ListByMovie(ctx, movieID, page)
}

// ReviewAuthor returns the user who wrote a review.
func (s *Service) ReviewAuthor(ctx context.Context, reviewID int64) (*models.User, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	return review.Author, nil
}

// AddReview stores a review authored by principal.
func (s *Service) AddReview(ctx context.Context, principal *auth.Principal, movieID int64, title, description string) (*models.Review, error) {
	if principal == nil {
		return nil, auth.ErrUnauthorized
	}

	review := &models.Review{
		MovieID:     movieID,
		AuthorID:    principal.UserID(),
		Title:       title,
		Description: description,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return s.reviews.GetByID(ctx, review.ID)
}

func (s *Service) UpdateReview(ctx context.Context, id int64, title, description string) (*models.Review, error) {
	review := &models.Review{ID: id, Title: title, Description: description}
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}
	return s.reviews.GetByID(ctx, id)
}

func (s *Service) DeleteReview(ctx context.Context, id int64) error {
	return s.reviews.Delete(ctx, id)
}

// DeleteMovieReview deletes a review only if it belongs to movieID.
func (s *Service) DeleteMovieReview(ctx context.Context, movieID, reviewID int64) error {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.MovieID != movieID {
		return fmt.Errorf("review %d of movie %d: %w", reviewID, movieID, repository.ErrNotFound)
	}
	return s.reviews.Delete(ctx, reviewID)
}
