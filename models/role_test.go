package models

import "testing"

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"ADMIN", RoleAdmin, true},
		{"doctor", RoleDoctor, true},
		{" Nurse ", RoleNurse, true},
		{"finance", RoleFinance, true},
		{"janitor", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := ParseRole(c.in)
		if ok != c.ok || (ok && got != c.want) {
			t.Fatalf("ParseRole(%q) = (%v,%v), want (%v,%v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestAllRolesIsACopy(t *testing.T) {
	roles := AllRoles()
	if len(roles) != 7 {
		t.Fatalf("expected 7 roles, got %d", len(roles))
	}
	roles[0] = "MUTATED"
	if AllRoles()[0] != RoleAdmin {
		t.Fatal("AllRoles must not expose the backing slice")
	}
}

func TestAssignmentsAddRemove(t *testing.T) {
	a := NewAssignments()
	for _, r := range AllRoles() {
		if a[r] == nil || len(a[r]) != 0 {
			t.Fatalf("expected empty non-nil list for %s", r)
		}
	}
	if !a.Add(RoleDoctor, "MEDICAL_STAFF") {
		t.Fatal("first add should change the list")
	}
	if a.Add(RoleDoctor, "MEDICAL_STAFF") {
		t.Fatal("second add of the same item should be a no-op")
	}
	if len(a[RoleDoctor]) != 1 {
		t.Fatalf("expected 1 item, got %v", a[RoleDoctor])
	}
	if a.Remove(RoleDoctor, "ABSENT") {
		t.Fatal("removing an absent item should be a no-op")
	}
	if !a.Remove(RoleDoctor, "MEDICAL_STAFF") || a.Contains(RoleDoctor, "MEDICAL_STAFF") {
		t.Fatal("remove should drop the item")
	}
}

func TestAssignmentsCloneIsDeep(t *testing.T) {
	a := NewAssignments()
	a.Add(RoleNurse, "patients.read")
	b := a.Clone()
	b.Add(RoleNurse, "patients.update")
	if len(a[RoleNurse]) != 1 {
		t.Fatalf("clone mutation leaked into original: %v", a[RoleNurse])
	}
	got := a.Get(RoleNurse)
	got[0] = "changed"
	if a[RoleNurse][0] != "patients.read" {
		t.Fatal("Get must return a copy")
	}
}

func TestPermissionGroupHasRole(t *testing.T) {
	g := PermissionGroup{Name: "MEDICAL_STAFF", Roles: []string{"doctor", "NURSE"}}
	if !g.HasRole(RoleDoctor) || !g.HasRole(RoleNurse) {
		t.Fatal("expected doctor and nurse membership")
	}
	if g.HasRole(RoleFinance) {
		t.Fatal("finance is not a member")
	}
}
