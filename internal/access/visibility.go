package access

import "fmt"

type Entity string

const (
	EntityCompany  Entity = "companies"
	EntityLocation Entity = "locations"
	EntityUser     Entity = "users"
)

type ScopeKind int

const (
	// ScopeNone selects nothing.
	ScopeNone ScopeKind = iota
	// ScopeAll selects every record.
	ScopeAll
	// ScopeTenantTree selects records of the tenant and of its direct branches.
	ScopeTenantTree
	// ScopeTenant selects records of the tenant only.
	ScopeTenant
	// ScopeSelf selects the requesting identity only.
	ScopeSelf
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeAll:
		return "all"
	case ScopeTenantTree:
		return "tenant_tree"
	case ScopeTenant:
		return "tenant"
	case ScopeSelf:
		return "self"
	}
	return "none"
}

// Scope is the visibility restriction for one entity collection as seen by one identity.
// Repositories render it once with Clause and layer caller filters after it.
type Scope struct {
	Entity     Entity
	Kind       ScopeKind
	TenantID   int64
	IdentityID int64
	ActiveOnly bool
}

// CompanyScope: super_admin sees every active company, an admin with a tenant sees the tenant
// and its direct branches, everyone else sees nothing.
func CompanyScope(id *Identity) Scope {
	s := Scope{Entity: EntityCompany, Kind: ScopeNone, ActiveOnly: true}
	switch {
	case id.IsSuperAdmin():
		s.Kind = ScopeAll
	case id.IsAdmin() && id.HasTenant():
		s.Kind = ScopeTenantTree
		s.TenantID = *id.TenantID
	}
	return s
}

// LocationScope mirrors CompanyScope over the owning company of each location.
func LocationScope(id *Identity) Scope {
	s := CompanyScope(id)
	s.Entity = EntityLocation
	return s
}

// UserScope: super_admin sees every active user, an admin with a tenant sees the users of that
// tenant (branch users excluded), everyone else sees only itself.
func UserScope(id *Identity) Scope {
	s := Scope{Entity: EntityUser, Kind: ScopeNone, ActiveOnly: true}
	switch {
	case id == nil:
	case id.IsSuperAdmin():
		s.Kind = ScopeAll
	case id.IsAdmin() && id.HasTenant():
		s.Kind = ScopeTenant
		s.TenantID = *id.TenantID
	default:
		s.Kind = ScopeSelf
		s.IdentityID = id.ID
	}
	return s
}

// WithInactive returns a copy of s that also selects inactive records.
func (s Scope) WithInactive() Scope {
	s.ActiveOnly = false
	return s
}

func (s Scope) IsEmpty() bool {
	return s.Kind == ScopeNone
}

// Clause renders the scope as a SQL predicate with '?' placeholders. An empty string means no
// restriction. Columns are qualified with the entity table name.
func (s Scope) Clause() (string, []any) {
	table := string(s.Entity)
	var (
		cond string
		args []any
	)

	switch s.Kind {
	case ScopeNone:
		return "1 = 0", nil
	case ScopeAll:
	case ScopeTenantTree:
		if s.Entity == EntityCompany {
			cond = fmt.Sprintf("(%[1]s.id = ? OR %[1]s.parent_id = ?)", table)
		} else {
			cond = fmt.Sprintf("%s.company_id IN (SELECT id FROM companies WHERE id = ? OR parent_id = ?)", table)
		}
		args = append(args, s.TenantID, s.TenantID)
	case ScopeTenant:
		cond = fmt.Sprintf("%s.company_id = ?", table)
		args = append(args, s.TenantID)
	case ScopeSelf:
		cond = fmt.Sprintf("%s.id = ?", table)
		args = append(args, s.IdentityID)
	default:
		return "1 = 0", nil
	}

	if s.ActiveOnly {
		active := fmt.Sprintf("%s.active = ?", table)
		if cond == "" {
			return active, []any{true}
		}
		return active + " AND " + cond, append([]any{true}, args...)
	}
	return cond, args
}

// AllowsCompany is the in-memory form of Clause for a company scope.
func (s Scope) AllowsCompany(c CompanyRef) bool {
	if s.ActiveOnly && !c.Active {
		return false
	}
	switch s.Kind {
	case ScopeAll:
		return true
	case ScopeTenantTree:
		return c.ID == s.TenantID || c.BranchOf(s.TenantID)
	}
	return false
}

// Unrestricted selects every record of e, inactive ones included. It is meant for
// system lookups such as authentication, never for requests made on behalf of a user.
func Unrestricted(e Entity) Scope {
	return Scope{Entity: e, Kind: ScopeAll}
}
