package access

type Action string

const (
	ActionList           Action = "list"
	ActionRetrieve       Action = "retrieve"
	ActionCreate         Action = "create"
	ActionUpdate         Action = "update"
	ActionDestroy        Action = "destroy"
	ActionChangePassword Action = "change_password"
	ActionToggleStatus   Action = "toggle_status"
	ActionMe             Action = "me"
	ActionStats          Action = "stats"
)

type Resource string

const (
	ResourceCompanies Resource = "companies"
	ResourceLocations Resource = "locations"
	ResourceUsers     Resource = "users"
)

var Resources = []Resource{ResourceCompanies, ResourceLocations, ResourceUsers}

type TargetKind int

const (
	TargetCompany TargetKind = iota + 1
	TargetLocation
	TargetIdentity
	// TargetTenantScoped is any record carrying a company reference and nothing else of interest.
	TargetTenantScoped
)

func (k TargetKind) String() string {
	switch k {
	case TargetCompany:
		return "company"
	case TargetLocation:
		return "location"
	case TargetIdentity:
		return "identity"
	case TargetTenantScoped:
		return "tenant_scoped"
	}
	return "unknown"
}

// Target is the object an action is applied to. Which fields are meaningful depends on Kind:
// companies use ID and ParentID, every other kind uses CompanyID.
type Target struct {
	Kind      TargetKind
	ID        int64
	CompanyID *int64
	ParentID  *int64
}

func CompanyTarget(c CompanyRef) Target {
	return Target{Kind: TargetCompany, ID: c.ID, ParentID: c.ParentID}
}

func LocationTarget(l LocationRef) Target {
	companyID := l.CompanyID
	return Target{Kind: TargetLocation, ID: l.ID, CompanyID: &companyID}
}

func IdentityTarget(i Identity) Target {
	return Target{Kind: TargetIdentity, ID: i.ID, CompanyID: i.TenantID}
}

func TenantScopedTarget(id int64, companyID *int64) Target {
	return Target{Kind: TargetTenantScoped, ID: id, CompanyID: companyID}
}

// ObjectGate decides whether actor may apply action to t. It is only consulted after the
// collection gate has passed.
func ObjectGate(actor *Identity, action Action, t Target) bool {
	if actor == nil {
		return false
	}
	if actor.IsSuperAdmin() {
		return true
	}

	switch t.Kind {
	case TargetCompany:
		if !actor.IsAdmin() || !actor.HasTenant() {
			return false
		}
		return t.ID == *actor.TenantID || int64Eq(t.ParentID, *actor.TenantID)

	case TargetLocation, TargetTenantScoped:
		if !actor.IsAdmin() || !actor.HasTenant() {
			return false
		}
		// exact tenant match, branches are not walked
		return int64Eq(t.CompanyID, *actor.TenantID)

	case TargetIdentity:
		if action == ActionToggleStatus && !actor.IsAdmin() {
			return false
		}
		if t.ID == actor.ID {
			return true
		}
		if actor.IsAdmin() && actor.HasTenant() {
			return int64Eq(t.CompanyID, *actor.TenantID)
		}
	}
	return false
}
