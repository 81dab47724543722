package utils

import (
	"testing"

	"github.com/google/uuid"
)

func TestGenerateID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateID()
		if _, err := uuid.Parse(id); err != nil {
			t.Fatalf("GenerateID() = %q is not a UUID: %v", id, err)
		}
		if seen[id] {
			t.Fatalf("duplicate ID %q", id)
		}
		seen[id] = true
	}
}
