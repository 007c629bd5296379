package rbac

import (
	"context"
	"strings"
)

// Checker answers "may this role do that" against a role→permission table.
type Checker struct {
	policy map[string][]string
}

// NewChecker builds a checker over the given policy, falling back to
// RolePermissions when nil.
func NewChecker(policy map[string][]string) *Checker {
	if policy == nil {
		policy = RolePermissions
	}
	return &Checker{policy: policy}
}

func (c *Checker) Has(role, perm string) bool {
	return granted(c.policy[role], perm)
}

// Any reports whether the role holds at least one of the permissions.
func (c *Checker) Any(role string, perms ...string) bool {
	for _, p := range perms {
		if c.Has(role, p) {
			return true
		}
	}
	return false
}

// granted matches a permission against a grant list. Grants are either
// exact ("paper:view"), trailing-star prefixes ("paper:*"), or the
// wildcard "*".
func granted(grants []string, perm string) bool {
	for _, g := range grants {
		switch {
		case g == "*" || g == perm:
			return true
		case strings.HasSuffix(g, "*") && strings.HasPrefix(perm, strings.TrimSuffix(g, "*")):
			return true
		}
	}
	return false
}

type roleKey struct{}

func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey{}, role)
}

func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(roleKey{}).(string)
	return role
}
