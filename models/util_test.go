package models

import (
	"testing"
)

func TestSnowflakeIsMonotonic(t *testing.T) {
	s := NewSnowflake(7)
	prev := s.Next()
	for i := 0; i < 5000; i++ {
		next := s.Next()
		if next <= prev {
			t.Fatalf("snowflake went backwards: %d after %d", next, prev)
		}
		if node := (next >> 12) & 0x3FF; node != 7 {
			t.Fatalf("node bits = %d, want 7", node)
		}
		prev = next
	}
}

func TestNewIDUniqueAndOrdered(t *testing.T) {
	seen := make(map[string]bool)
	prev := ""
	for i := 0; i < 500; i++ {
		id := NewID()
		if len(id) != 16 {
			t.Fatalf("expected 16-char id, got %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %s after %d generations", id, i)
		}
		if id <= prev {
			t.Fatalf("id %s does not sort after %s", id, prev)
		}
		seen[id] = true
		prev = id
	}
}
