package auth

// Role is a coarse-grained platform role carried in token claims.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleAnalyst Role = "ANALYST"
	RoleViewer  Role = "VIEWER"
)

// rolePermissions orders roles by capability.  Higher roles inherit
// everything below them.
var rolePermissions = map[Role]int{
	RoleViewer:  1,
	RoleAnalyst: 2,
	RoleAdmin:   3,
}

func rank(p *Principal) int {
	best := 0
	for _, r := range p.Roles {
		if v, ok := rolePermissions[Role(r)]; ok && v > best {
			best = v
		}
	}
	return best
}

// CanRead reports whether the principal may read suppliers, assessments and
// graph views.
func CanRead(p *Principal) bool { return rank(p) >= rolePermissions[RoleViewer] }

// CanAssess reports whether the principal may run assessments, resolve
// entities and import suppliers.
func CanAssess(p *Principal) bool { return rank(p) >= rolePermissions[RoleAnalyst] }

// CanAdminister reports whether the principal may manage scoring
// configurations and designations.
func CanAdminister(p *Principal) bool { return rank(p) >= rolePermissions[RoleAdmin] }
