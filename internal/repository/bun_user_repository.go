package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sm1l43s/movies/internal/db/models"
	"github.com/uptrace/bun"
)

var userSortColumns = map[string]string{
	"id":        "id",
	"email":     "email",
	"firstName": "first_name",
	"lastName":  "last_name",
	"createdAt": "created_at",
}

// BunUserRepository implements UserRepository using Bun ORM
type BunUserRepository struct {
	db *bun.DB
}

// NewBunUserRepository creates a new Bun-based user repository
func NewBunUserRepository(db *bun.DB) *BunUserRepository {
	return &BunUserRepository{db: db}
}

// Create inserts a new user and links user.Privileges by id.
func (r *BunUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((*models.User)(nil)).Where("email = ?", user.Email).Exists(ctx)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			return fmt.Errorf("user with email %s: %w", user.Email, ErrAlreadyExists)
		}

		if _, err := tx.NewInsert().Model(user).Exec(ctx); err != nil {
			if isDuplicateKeyError(err) {
				return fmt.Errorf("user with email %s: %w", user.Email, ErrAlreadyExists)
			}
			return fmt.Errorf("create user: %w", err)
		}

		ids := make([]int64, 0, len(user.Privileges))
		for _, p := range user.Privileges {
			ids = append(ids, p.ID)
		}
		return linkUserPrivileges(ctx, tx, user.ID, ids)
	})
}

// GetByID retrieves a user by their ID
func (r *BunUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Relation("Privileges").
		Where("?TableAlias.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get user by ID: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by their email
func (r *BunUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Relation("Privileges").
		Where("?TableAlias.email = ?", email).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// ExistsByEmail reports whether an account uses email.
func (r *BunUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*models.User)(nil)).
		Where("email = ?", email).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("check user email: %w", err)
	}
	return exists, nil
}

// List returns a page of users and the total count.
func (r *BunUserRepository) List(ctx context.Context, page Page) ([]models.User, int, error) {
	var users []models.User
	q := r.db.NewSelect().Model(&users).Relation("Privileges")
	total, err := page.apply(q, userSortColumns).ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// Update writes profile fields.
func (r *BunUserRepository) Update(ctx context.Context, user *models.User) error {
	result, err := r.db.NewUpdate().
		Model(user).
		Column("first_name", "last_name", "birth_day").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireAffected(result, "user", user.ID)
}

// Delete removes a user. Privilege links, votes and reviews cascade.
func (r *BunUserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.NewDelete().
		Model((*models.User)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireAffected(result, "user", id)
}

// SetPrivileges replaces the user's privilege links.
func (r *BunUserRepository) SetPrivileges(ctx context.Context, userID int64, privilegeIDs []int64) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((*models.User)(nil)).Where("id = ?", userID).Exists(ctx)
		if err != nil {
			return fmt.Errorf("check user: %w", err)
		}
		if !exists {
			return fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}

		if _, err := tx.NewDelete().
			Model((*models.UserPrivilege)(nil)).
			Where("user_id = ?", userID).
			Exec(ctx); err != nil {
			return fmt.Errorf("clear user privileges: %w", err)
		}
		return linkUserPrivileges(ctx, tx, userID, privilegeIDs)
	})
}

func linkUserPrivileges(ctx context.Context, tx bun.Tx, userID int64, privilegeIDs []int64) error {
	ids := uniqueIDs(privilegeIDs)
	if len(ids) == 0 {
		return nil
	}
	rows := make([]models.UserPrivilege, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, models.UserPrivilege{UserID: userID, PrivilegeID: id})
	}
	if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("link user privileges: %w", err)
	}
	return nil
}

// requireAffected maps a zero-row write to ErrNotFound.
func requireAffected(result sql.Result, entity string, id int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
	}
	return nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
