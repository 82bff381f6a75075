package auth

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2/util"
)

type accessKind int

const (
	accessPublic accessKind = iota
	accessAuthenticated
	accessPermission
)

// Access is what a route rule demands from the caller.
// Build values with Public, Authenticated or RequirePermission.
type Access struct {
	kind       accessKind
	permission Permission
}

// Public lets anyone through, authenticated or not.
func Public() Access { return Access{kind: accessPublic} }

// Authenticated requires any principal.
func Authenticated() Access { return Access{kind: accessAuthenticated} }

// RequirePermission requires a principal holding p.
func RequirePermission(p Permission) Access {
	return Access{kind: accessPermission, permission: p}
}

// Permission returns the required permission and whether one is required.
func (a Access) Permission() (Permission, bool) {
	return a.permission, a.kind == accessPermission
}

func (a Access) String() string {
	switch a.kind {
	case accessPublic:
		return "public"
	case accessAuthenticated:
		return "authenticated"
	default:
		return "permission:" + string(a.permission)
	}
}

// Rule binds a method and path pattern to an Access requirement.
//
// An empty Method matches any method. Pattern segments in braces ({id})
// match one path segment; a trailing /* matches any remainder.
type Rule struct {
	Method  string
	Pattern string
	Access  Access
}

func (r Rule) matches(method, path string) bool {
	if r.Method != "" && !strings.EqualFold(r.Method, method) {
		return false
	}
	return util.KeyMatch3(path, r.Pattern)
}

func (r Rule) String() string {
	method := r.Method
	if method == "" {
		method = "*"
	}
	return fmt.Sprintf("%s %s -> %s", method, r.Pattern, r.Access)
}

// Policy is an ordered rule table. The first matching rule decides;
// requests no rule matches are denied.
type Policy struct {
	rules []Rule
}

// NewPolicy copies rules into a policy.
func NewPolicy(rules []Rule) *Policy {
	return &Policy{rules: append([]Rule(nil), rules...)}
}

// Rules returns a copy of the rule table.
func (p *Policy) Rules() []Rule {
	return append([]Rule(nil), p.rules...)
}

// Match returns the first rule matching method and path.
func (p *Policy) Match(method, path string) (Rule, bool) {
	for _, r := range p.rules {
		if r.matches(method, path) {
			return r, true
		}
	}
	return Rule{}, false
}

// Authorize decides a request. It returns nil to allow, ErrUnauthorized when
// an anonymous caller hits a protected route (or no rule matches), and
// ErrForbidden when an authenticated caller lacks the required permission
// (or no rule matches).
func (p *Policy) Authorize(method, path string, principal *Principal) error {
	rule, ok := p.Match(method, path)
	if !ok {
		return deny(principal)
	}

	switch rule.Access.kind {
	case accessPublic:
		return nil
	case accessAuthenticated:
		if principal == nil {
			return ErrUnauthorized
		}
		return nil
	case accessPermission:
		if principal == nil {
			return ErrUnauthorized
		}
		if !principal.Has(rule.Access.permission) {
			return ErrForbidden
		}
		return nil
	default:
		return deny(principal)
	}
}

func deny(principal *Principal) error {
	if principal == nil {
		return ErrUnauthorized
	}
	return ErrForbidden
}
