package enums

import "testing"

func TestStaffRoleLevels(t *testing.T) {
	if StaffRoleAdmin.Level() != 3 || StaffRoleManager.Level() != 2 || StaffRoleCashier.Level() != 1 {
		t.Fatalf("unexpected role levels: admin=%d manager=%d cashier=%d",
			StaffRoleAdmin.Level(), StaffRoleManager.Level(), StaffRoleCashier.Level())
	}
	if StaffRole("owner").Level() != 0 {
		t.Fatalf("unknown role should have level 0")
	}
}

func TestStaffRoleAtLeast(t *testing.T) {
	cases := []struct {
		role     StaffRole
		required StaffRole
		want     bool
	}{
		{StaffRoleAdmin, StaffRoleCashier, true},
		{StaffRoleAdmin, StaffRoleAdmin, true},
		{StaffRoleManager, StaffRoleCashier, true},
		{StaffRoleManager, StaffRoleAdmin, false},
		{StaffRoleCashier, StaffRoleManager, false},
		{StaffRoleCashier, StaffRoleCashier, true},
		{StaffRole("ghost"), StaffRoleCashier, false},
		{StaffRoleAdmin, StaffRole("ghost"), false},
	}
	for _, tc := range cases {
		if got := tc.role.AtLeast(tc.required); got != tc.want {
			t.Fatalf("%s.AtLeast(%s) = %v, want %v", tc.role, tc.required, got, tc.want)
		}
	}
}

func TestParseStaffRole(t *testing.T) {
	role, err := ParseStaffRole("manager")
	if err != nil || role != StaffRoleManager {
		t.Fatalf("expected manager, got %v (%v)", role, err)
	}
	if _, err := ParseStaffRole("superuser"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}
