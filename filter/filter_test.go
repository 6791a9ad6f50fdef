package filter

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

type staff struct {
	Name string
	Role string
	Dept string
}

func staffField(s staff, field string) (string, bool) {
	switch field {
	case "name":
		return s.Name, true
	case "role":
		return s.Role, true
	case "dept":
		return s.Dept, true
	}
	return "", false
}

var roster = []staff{
	{"Ada Okafor", "DOCTOR", "Cardiology"},
	{"Ben Stroud", "NURSE", "Cardiology"},
	{"Chloé Dubois", "DOCTOR", "Oncology"},
	{"Dev Patel", "FINANCE", "Billing"},
}

func TestEmptyQueryIsIdentity(t *testing.T) {
	got := Apply(roster, Query{SearchFields: []string{"name"}}, staffField)
	assert.Equal(t, roster, got)
}

func TestUnmatchedTermYieldsEmpty(t *testing.T) {
	got := Apply(roster, Query{Term: "zzz", SearchFields: []string{"name", "dept"}}, staffField)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestTermIsCaseInsensitiveAcrossFields(t *testing.T) {
	got := Apply(roster, Query{Term: "CARDIO", SearchFields: []string{"name", "dept"}}, staffField)
	assert.Equal(t, roster[:2], got)

	got = Apply(roster, Query{Term: "chloé", SearchFields: []string{"name"}}, staffField)
	assert.Equal(t, []staff{roster[2]}, got)
}

func TestFiltersAreExactAndConjunctive(t *testing.T) {
	q := Query{
		Filters:      map[string]string{"role": "DOCTOR", "department": "Oncology"},
		FilterFields: map[string]string{"department": "dept"},
	}
	assert.Equal(t, []staff{roster[2]}, Apply(roster, q, staffField))

	q.Filters["role"] = "doctor"
	assert.Empty(t, Apply(roster, q, staffField))

	q.Filters = map[string]string{"role": ""}
	assert.Equal(t, roster, Apply(roster, q, staffField))

	q.Filters = map[string]string{"ward": "3"}
	assert.Empty(t, Apply(roster, q, staffField))
}

func TestOrderPreservingAndPure(t *testing.T) {
	in := slices.Clone(roster)
	q := Query{Term: "o", SearchFields: []string{"name"}, Filters: map[string]string{"role": "DOCTOR"}}

	first := Apply(in, q, staffField)
	second := Apply(in, q, staffField)
	assert.Equal(t, first, second)
	assert.Equal(t, roster, in)
	assert.Equal(t, []staff{roster[0], roster[2]}, first)

	first[0].Name = "changed"
	assert.Equal(t, "Ada Okafor", in[0].Name)
}

func TestMapAccessorAndStrings(t *testing.T) {
	rows := []map[string]string{{"op": "save.role_groups"}, {"op": "grant.temporary"}}
	got := Apply(rows, Query{Term: "GRANT", SearchFields: []string{"op"}}, MapAccessor)
	assert.Equal(t, rows[1:], got)

	assert.Equal(t, []string{"patients.read", "patients.delete"},
		Strings([]string{"patients.read", "billing.read", "patients.delete"}, "Patients"))
}
