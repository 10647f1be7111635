package access

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/frahmantamala/business-management/internal"
)

var (
	ErrUnauthenticated = internal.ErrAuthenticationRequired
	ErrForbidden       = internal.ErrInsufficientRole
)

const policyModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && (p.act == "*" || r.act == p.act)
`

const anyAction = "*"

// policyRows is the role x resource x action table of the collection gate.
func policyRows() [][]string {
	var rows [][]string
	for _, role := range []Role{RoleAdmin, RoleSuperAdmin} {
		for _, res := range Resources {
			rows = append(rows, []string{string(role), string(res), anyAction})
		}
	}
	for _, act := range []Action{ActionList, ActionRetrieve, ActionUpdate, ActionDestroy, ActionMe, ActionChangePassword} {
		rows = append(rows, []string{string(RoleEmployee), string(ResourceUsers), string(act)})
	}
	return rows
}

// Policy is the collection-level gate. The enforcer is built once and only read afterwards.
type Policy struct {
	enforcer *casbin.Enforcer
}

func NewPolicy() (*Policy, error) {
	m, err := model.NewModelFromString(policyModel)
	if err != nil {
		return nil, fmt.Errorf("access: failed to parse policy model: %w", err)
	}

	enf, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("access: failed to initialize enforcer: %w", err)
	}

	if _, err := enf.AddPolicies(policyRows()); err != nil {
		return nil, fmt.Errorf("access: failed to load policies: %w", err)
	}

	return &Policy{enforcer: enf}, nil
}

// CollectionGate returns nil when id may perform act on the res collection,
// ErrUnauthenticated for a missing identity and ErrForbidden for a denied role.
func (p *Policy) CollectionGate(id *Identity, res Resource, act Action) error {
	if id == nil {
		return ErrUnauthenticated
	}
	if !id.Role.Valid() {
		return ErrForbidden
	}

	ok, err := p.enforcer.Enforce(string(id.Role), string(res), string(act))
	if err != nil {
		return internal.NewInternalError("Authorization check failed", err)
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}
