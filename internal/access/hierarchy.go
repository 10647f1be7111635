package access

// CompanyRef carries the hierarchy attributes of a company. A nil ParentID marks a root
// (principal) company; a non-nil ParentID marks a branch. Only one level of branching is
// understood: a branch's own branches are never reached through it.
type CompanyRef struct {
	ID       int64
	ParentID *int64
	Active   bool
}

func (c CompanyRef) IsRoot() bool {
	return c.ParentID == nil
}

func (c CompanyRef) IsBranch() bool {
	return c.ParentID != nil
}

// BranchOf reports whether c is a direct branch of company id.
func (c CompanyRef) BranchOf(id int64) bool {
	return c.ParentID != nil && *c.ParentID == id
}

// LocationRef carries the owning company of a location.
type LocationRef struct {
	ID        int64
	CompanyID int64
	Active    bool
}

func int64Eq(p *int64, v int64) bool {
	return p != nil && *p == v
}
