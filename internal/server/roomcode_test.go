package server

import (
	"strings"
	"testing"
)

func TestNewRoomCode(t *testing.T) {
	seen := make(map[string]struct{})
	for range 100 {
		code := newRoomCode()
		if len(code) != roomCodeLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), roomCodeLength)
		}
		for _, r := range code {
			if !strings.ContainsRune(roomCodeAlphabet, r) {
				t.Fatalf("code %q contains %q, not in alphabet", code, r)
			}
		}
		seen[code] = struct{}{}
	}

	if len(seen) < 2 {
		t.Fatalf("expected varied codes, got %d distinct out of 100", len(seen))
	}
}
