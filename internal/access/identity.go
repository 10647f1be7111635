package access

import "context"

// Identity is the access-relevant projection of a user: who it is, which role it holds and
// which company (tenant) it belongs to. It is used both for the requester and for user targets.
type Identity struct {
	ID       int64
	Role     Role
	TenantID *int64
	Active   bool
}

func (i *Identity) IsAdmin() bool {
	return i != nil && IsAdminRole(i.Role)
}

func (i *Identity) IsSuperAdmin() bool {
	return i != nil && IsSuperAdminRole(i.Role)
}

func (i *Identity) HasTenant() bool {
	return i != nil && i.TenantID != nil
}

// TenantIs reports whether the identity belongs to company id.
func (i *Identity) TenantIs(id int64) bool {
	return i.HasTenant() && *i.TenantID == id
}

// SameAs reports whether both identities denote the same user.
func (i *Identity) SameAs(other *Identity) bool {
	return i != nil && other != nil && i.ID == other.ID
}

type ctxKey string

const identityKey ctxKey = "identity"

func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	return id, ok && id != nil
}
