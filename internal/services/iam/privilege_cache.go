package iam

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/sm1l43s/movies/internal/db/models"
	"github.com/sm1l43s/movies/internal/repository"
)

const privilegeCacheSize = 64

// PrivilegeCache resolves privilege names to rows. Privileges are seeded by
// migrations and never renamed, so entries do not expire.
type PrivilegeCache struct {
	repo  repository.PrivilegeRepository
	cache *lru.Cache[string, models.Privilege]
}

// NewPrivilegeCache wraps repo with an LRU cache.
func NewPrivilegeCache(repo repository.PrivilegeRepository) (*PrivilegeCache, error) {
	cache, err := lru.New[string, models.Privilege](privilegeCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create privilege cache: %w", err)
	}
	return &PrivilegeCache{repo: repo, cache: cache}, nil
}

// Resolve returns the privileges named in names, in order, without duplicates.
func (c *PrivilegeCache) Resolve(ctx context.Context, names []string) ([]models.Privilege, error) {
	seen := make(map[string]struct{}, len(names))
	out := make([]models.Privilege, 0, len(names))

	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		if p, ok := c.cache.Get(name); ok {
			out = append(out, p)
			continue
		}

		p, err := c.repo.GetByName(ctx, name)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownPrivilege, name)
			}
			return nil, err
		}
		c.cache.Add(name, *p)
		out = append(out, *p)
	}
	return out, nil
}
