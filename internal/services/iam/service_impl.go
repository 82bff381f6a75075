package iam

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sm1l43s/movies/internal/auth"
	"github.com/sm1l43s/movies/internal/db/models"
	"github.com/sm1l43s/movies/internal/repository"
)

// dummyPassword is hashed once at construction. Authenticate compares it
// when the email is unknown so both failure paths run bcrypt.
const dummyPassword = "movies-dummy-password"

// iamService implements the Service interface.
type iamService struct {
	users      repository.UserRepository
	privileges *PrivilegeCache
	catalogue  repository.PrivilegeRepository
	tokens     *auth.TokenService
	hasher     auth.PasswordHasher
	log        logrus.FieldLogger
	now        func() time.Time

	dummyHash string
}

// Dependencies contains all dependencies for IAM service construction.
type Dependencies struct {
	Users      repository.UserRepository
	Privileges repository.PrivilegeRepository
	Tokens     *auth.TokenService
	Hasher     auth.PasswordHasher
	Logger     logrus.FieldLogger

	// Now defaults to time.Now.
	Now func() time.Time
}

// NewService creates a new IAM service.
func NewService(deps Dependencies) (Service, error) {
	if deps.Users == nil || deps.Privileges == nil || deps.Tokens == nil {
		return nil, errors.New("iam: users, privileges and tokens are required")
	}

	hasher := deps.Hasher
	if hasher == nil {
		hasher = auth.NewBcryptHasher()
	}
	log := deps.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	cache, err := NewPrivilegeCache(deps.Privileges)
	if err != nil {
		return nil, err
	}

	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("iam: prepare dummy hash: %w", err)
	}

	return &iamService{
		users:      deps.Users,
		privileges: cache,
		catalogue:  deps.Privileges,
		tokens:     deps.Tokens,
		hasher:     hasher,
		log:        log.WithField("component", "iam"),
		now:        now,
		dummyHash:  dummyHash,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func principalFor(user *models.User) *auth.Principal {
	return auth.NewPrincipal(user.ID, user.Email, user.PrivilegeNames())
}

func (s *iamService) Authenticate(ctx context.Context, email, password string) (*auth.Principal, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.Matches(password, s.dummyHash)
			return nil, ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if !s.hasher.Matches(password, user.PasswordHash) {
		return nil, ErrAuthenticationFailed
	}
	return principalFor(user), nil
}

func (s *iamService) SignIn(ctx context.Context, email, password string) (string, error) {
	principal, err := s.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrAuthenticationFailed) {
			s.log.WithField("email", normalizeEmail(email)).Info("sign-in rejected")
		}
		return "", err
	}

	token, err := s.tokens.Issue(principal.Email())
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	s.log.WithField("user_id", principal.UserID()).Debug("token issued")
	return token, nil
}

func (s *iamService) SignUp(ctx context.Context, req SignUpRequest) (*models.User, error) {
	names := make([]string, 0, len(auth.SignupPermissions()))
	for _, p := range auth.SignupPermissions() {
		names = append(names, string(p))
	}

	user, err := s.createUser(ctx, CreateUserRequest{SignUpRequest: req, Privileges: names})
	if err != nil {
		return nil, err
	}
	s.log.WithField("user_id", user.ID).Info("user signed up")
	return user, nil
}

func (s *iamService) CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	return s.createUser(ctx, req)
}

func (s *iamService) createUser(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	email := normalizeEmail(req.Email)
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	if req.Password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	privileges, err := s.privileges.Resolve(ctx, req.Privileges)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		BirthDay:     req.BirthDay,
		CreatedAt:    s.now().UTC(),
		Privileges:   privileges,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *iamService) ResolveToken(ctx context.Context, token string) (*auth.Principal, error) {
	subject, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("resolve token subject: %w", err)
	}
	return principalFor(user), nil
}

func (s *iamService) CurrentUser(ctx context.Context, principal *auth.Principal) (*models.User, error) {
	if principal == nil {
		return nil, auth.ErrUnauthorized
	}
	return s.users.GetByID(ctx, principal.UserID())
}

func (s *iamService) SetUserPrivileges(ctx context.Context, userID int64, names []string) (*models.User, error) {
	privileges, err := s.privileges.Resolve(ctx, names)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(privileges))
	for _, p := range privileges {
		ids = append(ids, p.ID)
	}
	if err := s.users.SetPrivileges(ctx, userID, ids); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "privileges": names}).Info("user privileges replaced")
	return s.users.GetByID(ctx, userID)
}

func (s *iamService) GrantPrivileges(ctx context.Context, email string, names []string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return s.SetUserPrivileges(ctx, user.ID, append(user.PrivilegeNames(), names...))
}
