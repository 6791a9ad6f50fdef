package permission

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in     string
		module string
		action string
		ok     bool
	}{
		{"patients.delete", "patients", "delete", true},
		{"billing.process_payment", "billing", "process_payment", true},
		{" Patients.Read ", "patients", "read", true},
		{"patients", "", "", false},
		{"patients.", "", "", false},
		{".read", "", "", false},
		{"a.b.c", "", "", false},
		{"", "", "", false},
	}
	for _, c := range cases {
		p, err := Parse(c.in)
		if (err == nil) != c.ok {
			t.Fatalf("Parse(%q) err=%v, want ok=%v", c.in, err, c.ok)
		}
		if c.ok && (p.Module != c.module || p.Action != c.action) {
			t.Fatalf("Parse(%q) = %+v", c.in, p)
		}
	}
}

func TestPermissionString(t *testing.T) {
	p := Permission{Module: "billing", Action: "process_payment"}
	if p.String() != "billing.process_payment" {
		t.Fatalf("String() got %q", p.String())
	}
}

func TestGroupByModuleAndModules(t *testing.T) {
	catalog := []string{"patients.read", "billing.view", "patients.delete", "garbage"}
	got := GroupByModule(catalog)
	if !reflect.DeepEqual(got["patients"], []string{"read", "delete"}) {
		t.Fatalf("patients bucket: %v", got["patients"])
	}
	if !reflect.DeepEqual(got[""], []string{"garbage"}) {
		t.Fatalf("malformed bucket: %v", got[""])
	}
	if mods := Modules(catalog); !reflect.DeepEqual(mods, []string{"billing", "patients"}) {
		t.Fatalf("Modules: %v", mods)
	}
}

func TestFlattenAndNest(t *testing.T) {
	m := Matrix{
		"patients": {"read": true, "delete": false},
		"billing":  {"process_payment": true},
	}
	flat, err := Flatten(m)
	if err != nil {
		t.Fatalf("Flatten err: %v", err)
	}
	want := map[string]bool{
		"patients.read":           true,
		"patients.delete":         false,
		"billing.process_payment": true,
	}
	if !reflect.DeepEqual(flat, want) {
		t.Fatalf("Flatten got %v", flat)
	}
	back, err := Nest(flat)
	if err != nil {
		t.Fatalf("Nest err: %v", err)
	}
	if !reflect.DeepEqual(back, m) {
		t.Fatalf("Nest got %v", back)
	}
}

func TestFlattenRejectsBadTokens(t *testing.T) {
	if _, err := Flatten(Matrix{"Bad Module": {"read": true}}); err == nil {
		t.Fatal("expected error for malformed module")
	}
	if _, err := Nest(map[string]bool{"nodot": true}); err == nil {
		t.Fatal("expected error for malformed key")
	}
}
