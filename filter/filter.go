// Package filter narrows lists of records by a free-text term and a set of
// exact-match filters.
package filter

import (
	"strings"

	"golang.org/x/text/cases"
)

// Accessor returns the string value of field on a record. ok is false when
// the record has no such field.
type Accessor[T any] func(record T, field string) (value string, ok bool)

// Query describes one filtering pass.
type Query struct {
	// Term is matched case-insensitively as a substring of any SearchFields value.
	Term string
	// Filters maps a filter key to the exact value required. Empty values are inactive.
	Filters map[string]string
	// SearchFields lists the record fields searched for Term.
	SearchFields []string
	// FilterFields maps a filter key to the record field it compares. A key
	// missing here names the field directly.
	FilterFields map[string]string
}

// Apply returns the records matching q, in their original order. The input
// slice is never modified.
func Apply[T any](records []T, q Query, get Accessor[T]) []T {
	fold := cases.Fold()
	term := fold.String(q.Term)
	out := make([]T, 0, len(records))
	for _, r := range records {
		if matchesTerm(r, term, q.SearchFields, get, fold) && matchesFilters(r, q, get) {
			out = append(out, r)
		}
	}
	return out
}

func matchesTerm[T any](r T, term string, fields []string, get Accessor[T], fold cases.Caser) bool {
	if term == "" {
		return true
	}
	for _, f := range fields {
		v, ok := get(r, f)
		if ok && strings.Contains(fold.String(v), term) {
			return true
		}
	}
	return false
}

func matchesFilters[T any](r T, q Query, get Accessor[T]) bool {
	for key, want := range q.Filters {
		if want == "" {
			continue
		}
		field := key
		if mapped, ok := q.FilterFields[key]; ok {
			field = mapped
		}
		v, ok := get(r, field)
		if !ok || v != want {
			return false
		}
	}
	return true
}

// MapAccessor reads fields out of string maps.
func MapAccessor(record map[string]string, field string) (string, bool) {
	v, ok := record[field]
	return v, ok
}

// Strings filters plain strings by a term, with the string itself as the only field.
func Strings(items []string, term string) []string {
	return Apply(items, Query{Term: term, SearchFields: []string{""}}, func(s string, _ string) (string, bool) {
		return s, true
	})
}
