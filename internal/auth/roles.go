package auth

// Role represents a user role.
type Role string

const (
	// RoleViewer may read schedules and exports.
	RoleViewer Role = "viewer"
	// RoleEngineer may run the property and numbering passes.
	RoleEngineer Role = "engineer"
	// RoleAdmin may do everything.
	RoleAdmin Role = "admin"
)

var roleRanks = map[Role]int{
	RoleViewer:   1,
	RoleEngineer: 2,
	RoleAdmin:    3,
}

// NormalizeRole validates a role string.
func NormalizeRole(value string) (Role, bool) {
	role := Role(value)
	if _, ok := roleRanks[role]; !ok {
		return "", false
	}
	return role, true
}

// RoleAtLeast returns true when role satisfies required role.
func RoleAtLeast(role Role, required Role) bool {
	return roleRanks[role] >= roleRanks[required]
}
