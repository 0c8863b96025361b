package authz

import (
	"sort"
	"strings"

	"github.com/skillport/skillport/internal/identity"
)

// Decision is the edge gate's classification of a request path.
type Decision int

const (
	// DecisionSkip means no protected prefix matched; the request proceeds
	// unauthenticated.
	DecisionSkip Decision = iota
	// DecisionRequireAuth means the path is protected and a valid
	// credential must be present.
	DecisionRequireAuth
	// DecisionDeny means the resolved role has this sub-path in its denial
	// set regardless of credential validity.
	DecisionDeny
)

// Rule maps a path prefix to the roles denied under it. A rule with no
// denied roles just requires authentication.
type Rule struct {
	Prefix      string
	DeniedRoles []identity.Role
}

func (r Rule) denies(role identity.Role) bool {
	for _, denied := range r.DeniedRoles {
		if denied == role {
			return true
		}
	}
	return false
}

func (r Rule) matches(path string) bool {
	return path == r.Prefix || strings.HasPrefix(path, r.Prefix+"/")
}

// PolicyTable is the static path-policy mapping. Classification is
// longest-applicable-prefix: a denial entry that is a sub-path of an
// otherwise-allowed parent takes precedence over the parent's allowance.
type PolicyTable struct {
	rules []Rule
}

// NewPolicyTable builds a table; rules are ordered longest prefix first so
// matching is deterministic.
func NewPolicyTable(rules []Rule) *PolicyTable {
	ordered := make([]Rule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Prefix) > len(ordered[j].Prefix)
	})
	return &PolicyTable{rules: ordered}
}

// DefaultPolicyTable is the platform's path policy: student-facing account
// pages, the classroom, educator authoring, and admin moderation.
func DefaultPolicyTable() *PolicyTable {
	return NewPolicyTable([]Rule{
		{Prefix: "/user/purchases", DeniedRoles: []identity.Role{identity.RoleEducator, identity.RoleAdmin}},
		{Prefix: "/user"},
		{Prefix: "/learn"},
		{Prefix: "/educator", DeniedRoles: []identity.Role{identity.RoleStudent}},
		{Prefix: "/admin", DeniedRoles: []identity.Role{identity.RoleStudent, identity.RoleEducator}},
	})
}

// Protected reports whether any rule covers the path.
func (t *PolicyTable) Protected(path string) bool {
	for _, rule := range t.rules {
		if rule.matches(path) {
			return true
		}
	}
	return false
}

// Classify decides the gate outcome for a path and a verified role claim.
func (t *PolicyTable) Classify(path string, role identity.Role) Decision {
	for _, rule := range t.rules {
		if !rule.matches(path) {
			continue
		}
		if rule.denies(role) {
			return DecisionDeny
		}
		return DecisionRequireAuth
	}
	return DecisionSkip
}
