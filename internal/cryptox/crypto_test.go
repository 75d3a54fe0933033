package cryptox

import (
	"bytes"
	"testing"
)

func TestDeriveMasterKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt-value")

	key1 := DeriveMasterKey(password, salt)
	key2 := DeriveMasterKey(password, salt)

	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}
	if len(key1) != 32 {
		t.Errorf("key length = %d, want 32", len(key1))
	}
}

func TestDeriveMasterKey_DifferentInputs(t *testing.T) {
	password := []byte("secret-password")

	key1 := DeriveMasterKey(password, []byte("salt-1"))
	key2 := DeriveMasterKey(password, []byte("salt-2"))

	if bytes.Equal(key1, key2) {
		t.Errorf("expected different results for different salts, got same")
	}
}

func TestVerifierFor(t *testing.T) {
	salt := NewSalt()
	if len(salt) != SaltSize {
		t.Fatalf("salt length = %d", len(salt))
	}

	v1 := VerifierFor([]byte("pw"), salt)
	v2 := VerifierFor([]byte("pw"), salt)
	v3 := VerifierFor([]byte("other"), salt)

	if !VerifiersEqual(v1, v2) {
		t.Errorf("same password should produce equal verifiers")
	}
	if VerifiersEqual(v1, v3) {
		t.Errorf("different passwords should not match")
	}
	if VerifiersEqual(v1, v1[:16]) {
		t.Errorf("length mismatch must not match")
	}
}

func TestMakeVerifier_Length(t *testing.T) {
	if got := len(MakeVerifier([]byte("k"))); got != 32 {
		t.Fatalf("verifier length = %d, want 32", got)
	}
}
