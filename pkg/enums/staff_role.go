package enums

import "fmt"

// StaffRole represents a shop-level permissions role.
type StaffRole string

const (
	StaffRoleAdmin   StaffRole = "admin"
	StaffRoleManager StaffRole = "manager"
	StaffRoleCashier StaffRole = "cashier"
)

var validStaffRoles = []StaffRole{
	StaffRoleAdmin,
	StaffRoleManager,
	StaffRoleCashier,
}

// roleLevels orders roles by privilege; a higher level implies every lower one.
var roleLevels = map[StaffRole]int{
	StaffRoleAdmin:   3,
	StaffRoleManager: 2,
	StaffRoleCashier: 1,
}

// String implements fmt.Stringer.
func (r StaffRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known StaffRole.
func (r StaffRole) IsValid() bool {
	_, ok := roleLevels[r]
	return ok
}

// Level returns the privilege level for the role, or 0 for unknown roles.
func (r StaffRole) Level() int {
	return roleLevels[r]
}

// AtLeast reports whether the role's privilege level covers the required role.
func (r StaffRole) AtLeast(required StaffRole) bool {
	level := r.Level()
	requiredLevel := required.Level()
	if level == 0 || requiredLevel == 0 {
		return false
	}
	return level >= requiredLevel
}

// ParseStaffRole converts raw input into a StaffRole.
func ParseStaffRole(value string) (StaffRole, error) {
	for _, candidate := range validStaffRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid staff role %q", value)
}
