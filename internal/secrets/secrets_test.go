package secrets

import (
	"errors"
	"strings"
	"testing"
)

func TestSealOpen(t *testing.T) {
	sealed, err := Seal("sk-test-123", "passphrase")
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	if !IsSealed(sealed) {
		t.Errorf("sealed value not recognized: %q", sealed)
	}
	if strings.Contains(sealed, "sk-test-123") {
		t.Error("plaintext leaked into envelope")
	}

	got, err := Open(sealed, "passphrase")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if got != "sk-test-123" {
		t.Errorf("Open() = %q, want sk-test-123", got)
	}
}

func TestSealFreshSaltAndNonce(t *testing.T) {
	a, err := Seal("same", "pw")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Seal("same", "pw")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two seals of the same plaintext produced identical envelopes")
	}
}

func TestOpenWrongPassphrase(t *testing.T) {
	sealed, err := Seal("secret", "right")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Open(sealed, "wrong"); !errors.Is(err, ErrDecryptFailed) {
		t.Fatalf("got %v, want ErrDecryptFailed", err)
	}
}

func TestOpenMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"no prefix", "not-an-envelope"},
		{"too few segments", "lfsealed:only-one"},
		{"bad base64", "lfsealed:!!:!!:!!"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Open(tt.in, "pw"); !errors.Is(err, ErrMalformedEnvelope) {
				t.Fatalf("got %v, want ErrMalformedEnvelope", err)
			}
		})
	}
}

func TestIsSealed(t *testing.T) {
	if IsSealed("sk-plain-key") {
		t.Error("plaintext key reported as sealed")
	}
}
