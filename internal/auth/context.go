package auth

import "context"

// Principal is the authenticated identity attached to a request.
//
// It is derived from the persisted user on every authenticated request and
// never stored. Fields are unexported so a Principal cannot be altered after
// the authentication filter builds it.
type Principal struct {
	userID      int64
	email       string
	permissions map[Permission]struct{}
}

// NewPrincipal builds a principal from a user id, email and granted permission names.
func NewPrincipal(userID int64, email string, permissions []string) *Principal {
	set := make(map[Permission]struct{}, len(permissions))
	for _, p := range permissions {
		set[Permission(p)] = struct{}{}
	}
	return &Principal{userID: userID, email: email, permissions: set}
}

// UserID returns the backing users.id.
func (p *Principal) UserID() int64 { return p.userID }

// Email returns the unique login identifier.
func (p *Principal) Email() string { return p.email }

// Has reports whether the principal was granted permission.
func (p *Principal) Has(permission Permission) bool {
	if p == nil {
		return false
	}
	_, ok := p.permissions[permission]
	return ok
}

// Permissions returns a copy of the granted permission set.
func (p *Principal) Permissions() []Permission {
	out := make([]Permission, 0, len(p.permissions))
	for perm := range p.permissions {
		out = append(out, perm)
	}
	return out
}

type principalContextKey struct{}

// SetPrincipal stores the authenticated principal on the context for downstream consumers.
func SetPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, principal)
}

// PrincipalFromContext retrieves the authenticated principal from the context.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	principal, ok := ctx.Value(principalContextKey{}).(*Principal)
	return principal, ok && principal != nil
}
