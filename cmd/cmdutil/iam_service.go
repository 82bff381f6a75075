package cmdutil

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"

	"github.com/sm1l43s/movies/internal/auth"
	"github.com/sm1l43s/movies/internal/config"
	"github.com/sm1l43s/movies/internal/db/bunx"
	"github.com/sm1l43s/movies/internal/repository"
	"github.com/sm1l43s/movies/internal/services/iam"
)

// IAMServiceBundle bundles the service with its underlying DB connection so callers can
// reuse the connection for other repositories when necessary.
type IAMServiceBundle struct {
	Service iam.Service
	DB      *bun.DB
}

// Close releases the underlying database connection.
func (b *IAMServiceBundle) Close() {
	if b == nil || b.DB == nil {
		return
	}
	_ = bunx.Close(b.DB)
}

// NewIAMServiceBundle centralizes IAM service construction for CLI commands.
func NewIAMServiceBundle(cfg *config.Config, logger logrus.FieldLogger) (*IAMServiceBundle, error) {
	db, err := bunx.NewDB(cfg.DatabaseURL, cfg.MaxDBConnections)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.Validity)
	if err != nil {
		_ = bunx.Close(db)
		return nil, fmt.Errorf("failed to configure tokens: %w", err)
	}

	svc, err := iam.NewService(iam.Dependencies{
		Users:      repository.NewBunUserRepository(db),
		Privileges: repository.NewBunPrivilegeRepository(db),
		Tokens:     tokens,
		Logger:     logger,
	})
	if err != nil {
		_ = bunx.Close(db)
		return nil, fmt.Errorf("failed to create IAM service: %w", err)
	}

	return &IAMServiceBundle{Service: svc, DB: db}, nil
}

// PrivilegeNames returns every known privilege name, for "--privilege all".
func PrivilegeNames() []string {
	names := make([]string, 0, len(auth.AllPermissions()))
	for _, p := range auth.AllPermissions() {
		names = append(names, string(p))
	}
	return names
}

// ExpandPrivileges replaces the pseudo-name "all" with every known privilege.
func ExpandPrivileges(input []string) []string {
	out := make([]string, 0, len(input))
	for _, name := range input {
		if name == "all" {
			return PrivilegeNames()
		}
		out = append(out, name)
	}
	return out
}
