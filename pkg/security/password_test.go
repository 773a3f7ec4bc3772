package security_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/angelmondragon/supplyhub-backend/pkg/config"
	"github.com/angelmondragon/supplyhub-backend/pkg/security"
)

var fastArgon = config.PasswordConfig{
	ArgonMemoryKB:    64,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := security.HashPassword("crate-of-widgets", fastArgon)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=64,t=1,p=1$") {
		t.Fatalf("unexpected hash layout %q", hash)
	}

	for _, tc := range []struct {
		password string
		want     bool
	}{
		{"crate-of-widgets", true},
		{"crate-of-widgetz", false},
		{"", false},
	} {
		got, err := security.VerifyPassword(tc.password, hash)
		if err != nil {
			t.Fatalf("verify %q: %v", tc.password, err)
		}
		if got != tc.want {
			t.Fatalf("verify %q: expected %v got %v", tc.password, tc.want, got)
		}
	}
}

func TestHashPasswordSaltsEveryHash(t *testing.T) {
	a, err := security.HashPassword("same-password", fastArgon)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := security.HashPassword("same-password", fastArgon)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a == b {
		t.Fatal("expected distinct salts to produce distinct hashes")
	}
	if _, err := security.HashPassword("", fastArgon); err == nil {
		t.Fatal("expected empty password to be rejected")
	}
}

func TestVerifyPasswordMalformedHashes(t *testing.T) {
	cases := map[string]string{
		"not phc":       "not-a-hash",
		"wrong algo":    "$argon2i$v=19$m=64,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5",
		"wrong version": "$argon2id$v=16$m=64,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5",
		"zero time":     "$argon2id$v=19$m=64,t=0,p=1$c2FsdHNhbHQ$a2V5a2V5",
		"bad params":    "$argon2id$v=19$memory=64$c2FsdHNhbHQ$a2V5a2V5",
		"bad salt":      "$argon2id$v=19$m=64,t=1,p=1$***$a2V5a2V5",
		"empty key":     "$argon2id$v=19$m=64,t=1,p=1$c2FsdHNhbHQ$",
	}
	for name, encoded := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := security.VerifyPassword("irrelevant", encoded); !errors.Is(err, security.ErrInvalidHash) {
				t.Fatalf("expected ErrInvalidHash, got %v", err)
			}
		})
	}
}

func TestValidatePasswordStrength(t *testing.T) {
	cases := []struct {
		name     string
		password string
		email    string
		want     error
	}{
		{name: "ok", password: "hammer-and-nails", email: "buyer@example.com"},
		{name: "short", password: "abc12", email: "buyer@example.com", want: security.ErrPasswordTooShort},
		{name: "numeric", password: "1234567890", email: "buyer@example.com", want: security.ErrPasswordNumeric},
		{name: "email derived", password: "Procurement2026", email: "procurement@example.com", want: security.ErrPasswordMatchesID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := security.ValidatePasswordStrength(tc.password, tc.email)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
