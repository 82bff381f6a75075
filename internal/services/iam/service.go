package iam

import (
	"context"
	"errors"
	"time"

	"github.com/sm1l43s/movies/internal/auth"
	"github.com/sm1l43s/movies/internal/db/models"
	"github.com/sm1l43s/movies/internal/repository"
)

var (
	// ErrAuthenticationFailed covers both an unknown email and a wrong
	// password so callers cannot tell which one it was.
	ErrAuthenticationFailed = errors.New("wrong email address or password")

	// ErrEmailTaken is returned by SignUp when the email is registered.
	ErrEmailTaken = errors.New("email address is already in use")

	// ErrUnknownPrivilege is returned when a privilege name does not exist.
	ErrUnknownPrivilege = errors.New("unknown privilege")

	// ErrInvalidInput wraps sign-up and user creation input problems.
	ErrInvalidInput = errors.New("invalid input")
)

// SignUpRequest carries the fields of a self-registration.
type SignUpRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	BirthDay  *time.Time
}

// UpdateProfileRequest replaces a user's profile fields. Email, password and
// privileges are not editable through it.
type UpdateProfileRequest struct {
	ID        int64
	FirstName string
	LastName  string
	BirthDay  *time.Time
}

// CreateUserRequest is an administrative account creation with explicit privileges.
type CreateUserRequest struct {
	SignUpRequest
	Privileges []string
}

// Service provides all identity and access management operations.
type Service interface {
	// Authenticate checks an email and password pair.
	//
	// Returns:
	//   - (principal, nil): credentials match
	//   - (nil, ErrAuthenticationFailed): unknown email or wrong password
	//   - (nil, error): store failure
	//
	// Read-only: no side effects on success or failure.
	Authenticate(ctx context.Context, email, password string) (*auth.Principal, error)

	// SignIn authenticates and issues a bearer token for the principal.
	SignIn(ctx context.Context, email, password string) (string, error)

	// SignUp registers a user with auth.SignupPermissions.
	SignUp(ctx context.Context, req SignUpRequest) (*models.User, error)

	// ResolveToken verifies a bearer token and loads its subject.
	// Any failure (bad token, unknown subject, store error) returns an error;
	// the request filter treats every error as "anonymous".
	ResolveToken(ctx context.Context, token string) (*auth.Principal, error)

	// CurrentUser loads the persisted user behind a principal.
	CurrentUser(ctx context.Context, principal *auth.Principal) (*models.User, error)

	// CreateUser creates an account with the given privileges (CLI bootstrap).
	CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error)

	// SetUserPrivileges replaces a user's privileges by name.
	SetUserPrivileges(ctx context.Context, userID int64, names []string) (*models.User, error)

	// GrantPrivileges adds privileges by name to the user with email, keeping existing ones.
	GrantPrivileges(ctx context.Context, email string, names []string) (*models.User, error)

	// Account administration
	ListUsers(ctx context.Context, page repository.Page) ([]models.User, int, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error

	// Privilege catalogue
	ListPrivileges(ctx context.Context, page repository.Page) ([]models.Privilege, int, error)
	GetPrivilege(ctx context.Context, id int64) (*models.Privilege, error)
}
