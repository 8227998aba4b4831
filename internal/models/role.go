package models

// Role is an enumerated user role. Roles form a total order; authorization
// decisions compare ranks, never raw strings.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

var roleRanks = map[Role]int{
	RoleUser:       1,
	RoleAdmin:      2,
	RoleSuperadmin: 3,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// Rank returns the role's position in the hierarchy. Unknown roles rank 0,
// below every real role.
func (r Role) Rank() int {
	return roleRanks[r]
}

// AtLeast reports whether r ranks at or above required.
func (r Role) AtLeast(required Role) bool {
	return r.Rank() >= required.Rank() && required.Rank() > 0
}

// Exactly reports strict equality. Used where a privilege ceiling must not
// be crossed by rank inference, e.g. promoting to superadmin.
func (r Role) Exactly(required Role) bool {
	return r.Valid() && r == required
}
