package models

import "testing"

func TestRole_Valid(t *testing.T) {
	valid := []Role{RoleUser, RoleAdmin, RoleSuperadmin}
	for _, r := range valid {
		if !r.Valid() {
			t.Errorf("Valid() = false for %q, expected true", r)
		}
	}

	invalid := []Role{"", "root", "Admin", "superuser"}
	for _, r := range invalid {
		if r.Valid() {
			t.Errorf("Valid() = true for %q, expected false", r)
		}
	}
}

func TestRole_Rank(t *testing.T) {
	if RoleUser.Rank() >= RoleAdmin.Rank() {
		t.Error("user should rank below admin")
	}
	if RoleAdmin.Rank() >= RoleSuperadmin.Rank() {
		t.Error("admin should rank below superadmin")
	}
	if Role("unknown").Rank() != 0 {
		t.Errorf("unknown role Rank() = %d, expected 0", Role("unknown").Rank())
	}
}

func TestRole_AtLeast(t *testing.T) {
	tests := []struct {
		role     Role
		required Role
		want     bool
	}{
		{RoleUser, RoleUser, true},
		{RoleUser, RoleAdmin, false},
		{RoleUser, RoleSuperadmin, false},
		{RoleAdmin, RoleUser, true},
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleSuperadmin, false},
		{RoleSuperadmin, RoleUser, true},
		{RoleSuperadmin, RoleAdmin, true},
		{RoleSuperadmin, RoleSuperadmin, true},
	}

	for _, tt := range tests {
		if got := tt.role.AtLeast(tt.required); got != tt.want {
			t.Errorf("%s.AtLeast(%s) = %v, expected %v", tt.role, tt.required, got, tt.want)
		}
	}
}

// An unknown required role must never admit anyone.
func TestRole_AtLeast_UnknownRequired(t *testing.T) {
	if RoleSuperadmin.AtLeast(Role("unknown")) {
		t.Error("AtLeast(unknown) = true, expected false")
	}
	if Role("unknown").AtLeast(Role("unknown")) {
		t.Error("unknown.AtLeast(unknown) = true, expected false")
	}
}

func TestRole_Exactly(t *testing.T) {
	if !RoleAdmin.Exactly(RoleAdmin) {
		t.Error("admin.Exactly(admin) = false, expected true")
	}
	// Exactly does no rank inference: superadmin is not "exactly admin"
	if RoleSuperadmin.Exactly(RoleAdmin) {
		t.Error("superadmin.Exactly(admin) = true, expected false")
	}
	if RoleUser.Exactly(RoleAdmin) {
		t.Error("user.Exactly(admin) = true, expected false")
	}
}
