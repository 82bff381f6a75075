package iam

import (
	"context"
	"strings"

	"github.com/sm1l43s/movies/internal/db/models"
	"github.com/sm1l43s/movies/internal/repository"
)

func (s *iamService) ListUsers(ctx context.Context, page repository.Page) ([]models.User, int, error) {
	return s.users.List(ctx, page)
}

func (s *iamService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *iamService) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*models.User, error) {
	user := &models.User{
		ID:        req.ID,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		BirthDay:  req.BirthDay,
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, req.ID)
}

func (s *iamService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("user_id", id).Info("user deleted")
	return nil
}

func (s *iamService) ListPrivileges(ctx context.Context, page repository.Page) ([]models.Privilege, int, error) {
	return s.catalogue.List(ctx, page)
}

func (s *iamService) GetPrivilege(ctx context.Context, id int64) (*models.Privilege, error) {
	return s.catalogue.GetByID(ctx, id)
}
