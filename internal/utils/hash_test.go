package utils

import "testing"

func TestHashToken(t *testing.T) {
	h1 := HashToken("some-refresh-token")
	h2 := HashToken("some-refresh-token")
	h3 := HashToken("another-token")

	if h1 != h2 {
		t.Error("HashToken should be deterministic")
	}
	if h1 == h3 {
		t.Error("different inputs should hash differently")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, expected 64 hex chars", len(h1))
	}
}

func TestGenerateSecret(t *testing.T) {
	s1, err := GenerateSecret(16)
	if err != nil {
		t.Fatalf("GenerateSecret failed: %v", err)
	}
	s2, err := GenerateSecret(16)
	if err != nil {
		t.Fatalf("GenerateSecret failed: %v", err)
	}

	if len(s1) != 32 {
		t.Errorf("secret length = %d, expected 32 hex chars for 16 bytes", len(s1))
	}
	if s1 == s2 {
		t.Error("two generated secrets should differ")
	}
}

func TestAPIKeySecretHashing(t *testing.T) {
	hash, err := HashAPIKeySecret("my-secret")
	if err != nil {
		t.Fatalf("HashAPIKeySecret failed: %v", err)
	}
	if hash == "my-secret" {
		t.Error("hash must not equal the plaintext secret")
	}

	if !CheckAPIKeySecret("my-secret", hash) {
		t.Error("CheckAPIKeySecret rejected the correct secret")
	}
	if CheckAPIKeySecret("wrong-secret", hash) {
		t.Error("CheckAPIKeySecret accepted a wrong secret")
	}
}
