package permission

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// tokens look like "patients.delete" or "billing.process_payment"
var tokenRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*\.[a-z][a-z0-9_]*$`)

// Permission models a single capability token of module + action.
// Example string: "billing.process_payment"
type Permission struct {
	Module string
	Action string
}

func (p Permission) String() string { return p.Module + "." + p.Action }

// Parse splits a "module.action" token. Surrounding space is trimmed and the
// token is lower-cased before validation.
func Parse(s string) (Permission, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !tokenRegex.MatchString(s) {
		return Permission{}, fmt.Errorf("invalid permission token: %q", s)
	}
	module, action, _ := strings.Cut(s, ".")
	return Permission{Module: module, Action: action}, nil
}

// IsValid reports whether s is a well-formed permission token.
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// GroupByModule buckets catalog tokens by module. Malformed tokens are
// collected under the empty module so nothing from the server is hidden.
// Actions within a module keep catalog order.
func GroupByModule(catalog []string) map[string][]string {
	out := make(map[string][]string)
	for _, tok := range catalog {
		p, err := Parse(tok)
		if err != nil {
			out[""] = append(out[""], tok)
			continue
		}
		out[p.Module] = append(out[p.Module], p.Action)
	}
	return out
}

// Modules returns the sorted module names present in catalog.
func Modules(catalog []string) []string {
	grouped := GroupByModule(catalog)
	mods := make([]string, 0, len(grouped))
	for m := range grouped {
		if m != "" {
			mods = append(mods, m)
		}
	}
	sort.Strings(mods)
	return mods
}
