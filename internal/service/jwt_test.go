package service

import "testing"

func TestJWTRoundTrip(t *testing.T) {
	InitJWT("test-secret-for-unit-tests")

	token, err := GenerateJWT(42)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	userID, err := ParseJWT(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if userID != 42 {
		t.Errorf("user id = %d, want 42", userID)
	}
}

func TestParseJWT_Garbage(t *testing.T) {
	InitJWT("test-secret-for-unit-tests")

	if _, err := ParseJWT("not-a-token"); err == nil {
		t.Error("expected error for garbage token")
	}
}

func TestParseJWT_WrongSecret(t *testing.T) {
	InitJWT("secret-one")
	token, err := GenerateJWT(7)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	InitJWT("secret-two")
	if _, err := ParseJWT(token); err == nil {
		t.Error("expected error for token signed with another secret")
	}
}
