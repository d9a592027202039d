package typeid

import (
	"strings"
	"testing"
)

func TestNewCarriesPrefix(t *testing.T) {
	tests := []struct {
		name   string
		gen    func() string
		prefix string
	}{
		{"user", NewUserID, PrefixUser},
		{"document", NewDocumentID, PrefixDocument},
		{"revision", NewRevisionID, PrefixRevision},
		{"session", NewSessionID, PrefixSession},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := tt.gen()
			if !strings.HasPrefix(id, tt.prefix+"_") {
				t.Fatalf("id %q does not start with %q", id, tt.prefix+"_")
			}
			if err := Validate(id, tt.prefix); err != nil {
				t.Fatalf("Validate(%q): %v", id, err)
			}
		})
	}
}

func TestValidateRejectsWrongPrefix(t *testing.T) {
	id := NewUserID()
	if err := Validate(id, PrefixDocument); err == nil {
		t.Fatalf("expected prefix mismatch for %q", id)
	}
	if err := Validate("not-an-id", PrefixUser); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestNewIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := NewDocumentID()
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
