package id

import (
	"strings"
	"testing"
)

func TestNewID32(t *testing.T) {
	seen := make(map[string]bool, 200)
	for i := 0; i < 200; i++ {
		got := NewID32()
		if !IsID32(got) {
			t.Fatalf("NewID32 = %q, not 32-char lowercase hex", got)
		}
		if seen[got] {
			t.Fatalf("duplicate id after %d draws: %q", i, got)
		}
		seen[got] = true
	}
}

func TestIsID32(t *testing.T) {
	cases := map[string]bool{
		strings.Repeat("a", 32):              true,
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c88":   true,
		"":                                   false,
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c8":    false,
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c880":  false,
		"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA":   false,
		"zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz":   false,
		"3f9a6a1b-3d54-4fbe-8b3a-6b3e8d6b2c": false,
	}
	for in, want := range cases {
		if got := IsID32(in); got != want {
			t.Fatalf("IsID32(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestPaymentID(t *testing.T) {
	got := NewPaymentID()
	if !IsUUID(got) {
		t.Fatalf("NewPaymentID = %q, not a canonical uuid", got)
	}

	cases := map[string]bool{
		"3f9a6a1b-3d54-4fbe-8b3a-6b3e8d6b2c88":     true,
		"3F9A6A1B-3D54-4FBE-8B3A-6B3E8D6B2C88":     false,
		"3f9a6a1b-3d54-9fbe-8b3a-6b3e8d6b2c88":     false,
		"3f9a6a1b-3d54-4fbe-cb3a-6b3e8d6b2c88":     false,
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c88":         false,
		"urn:uuid:3f9a6a1b-3d54-4fbe-8b3a-6b3e8d6b": false,
	}
	for in, want := range cases {
		if got := IsUUID(in); got != want {
			t.Fatalf("IsUUID(%q) = %v, want %v", in, got, want)
		}
	}
}
