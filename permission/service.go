package permission

import (
	"fmt"
)

// Matrix is the per-user override editor's view of permissions:
// module -> action -> granted.
type Matrix map[string]map[string]bool

// Flatten converts a Matrix into the flat "module.action" -> bool map the
// user override endpoint expects. Entries that would not form a valid token
// are rejected.
func Flatten(m Matrix) (map[string]bool, error) {
	out := make(map[string]bool)
	for module, actions := range m {
		for action, granted := range actions {
			p := Permission{Module: module, Action: action}
			if !IsValid(p.String()) {
				return nil, fmt.Errorf("invalid permission in override matrix: %q", p.String())
			}
			out[p.String()] = granted
		}
	}
	return out, nil
}

// Nest is the inverse of Flatten. Malformed keys are returned as an error.
func Nest(flat map[string]bool) (Matrix, error) {
	out := make(Matrix)
	for tok, granted := range flat {
		p, err := Parse(tok)
		if err != nil {
			return nil, err
		}
		if out[p.Module] == nil {
			out[p.Module] = make(map[string]bool)
		}
		out[p.Module][p.Action] = granted
	}
	return out, nil
}
