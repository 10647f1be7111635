package access

// Role is the closed set of roles a user can hold. Privilege is decided by membership, never by ordering.
type Role string

const (
	RoleEmployee   Role = "employee"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// Roles lists every role in display order.
var Roles = []Role{RoleAdmin, RoleEmployee, RoleSuperAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Display returns the human readable role name.
func (r Role) Display() string {
	switch r {
	case RoleEmployee:
		return "Employee"
	case RoleAdmin:
		return "Administrator"
	case RoleSuperAdmin:
		return "Super Administrator"
	}
	return string(r)
}

// IsAdminRole reports whether r is admin-like (admin or super_admin).
func IsAdminRole(r Role) bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

func IsSuperAdminRole(r Role) bool {
	return r == RoleSuperAdmin
}
