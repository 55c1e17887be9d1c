package utils

import (
	"strings"
	"testing"
	"time"

	"lashbook/config"
)

func TestNewBookingReference(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		ref, err := NewBookingReference()
		if err != nil {
			t.Fatalf("NewBookingReference() error = %v", err)
		}
		if !strings.HasPrefix(ref, "BK-") {
			t.Fatalf("reference %q missing BK- prefix", ref)
		}
		if seen[ref] {
			t.Fatalf("duplicate reference generated: %q", ref)
		}
		seen[ref] = true
	}
}

func TestManageTokenRoundTrip(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	token, err := GenerateManageToken("BK-ABC", "ada@example.com", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateManageToken() error = %v", err)
	}
	if _, err := ValidateManageToken(token); err == nil {
		t.Error("ValidateManageToken() accepted an expired token")
	}

	token, err = GenerateManageToken("BK-ABC", "ada@example.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateManageToken() error = %v", err)
	}
	ref, err := ValidateManageToken(token)
	if err != nil {
		t.Fatalf("ValidateManageToken() error = %v", err)
	}
	if ref != "BK-ABC" {
		t.Errorf("ValidateManageToken() = %v, want BK-ABC", ref)
	}

	if _, err := ValidateManageToken(token + "x"); err == nil {
		t.Error("ValidateManageToken() accepted a tampered token")
	}
}
