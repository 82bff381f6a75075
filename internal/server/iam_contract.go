package server

import (
	"context"

	"github.com/sm1l43s/movies/internal/auth"
	"github.com/sm1l43s/movies/internal/db/models"
	"github.com/sm1l43s/movies/internal/repository"
	"github.com/sm1l43s/movies/internal/services/iam"
)

// iamAdminService defines the exact IAM methods used by server handlers.
// The assertion below keeps it in step with iam.Service.
type iamAdminService interface {
	// Authentication (also used by the authn middleware)
	SignIn(ctx context.Context, email, password string) (string, error)
	SignUp(ctx context.Context, req iam.SignUpRequest) (*models.User, error)
	ResolveToken(ctx context.Context, token string) (*auth.Principal, error)
	CurrentUser(ctx context.Context, principal *auth.Principal) (*models.User, error)

	// Account administration
	CreateUser(ctx context.Context, req iam.CreateUserRequest) (*models.User, error)
	ListUsers(ctx context.Context, page repository.Page) ([]models.User, int, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, req iam.UpdateProfileRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	SetUserPrivileges(ctx context.Context, userID int64, names []string) (*models.User, error)

	// Privilege catalogue
	ListPrivileges(ctx context.Context, page repository.Page) ([]models.Privilege, int, error)
	GetPrivilege(ctx context.Context, id int64) (*models.Privilege, error)
}

var _ iamAdminService = (iam.Service)(nil)
