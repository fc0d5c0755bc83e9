package service

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("senha-super-secreta")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "senha-super-secreta" {
		t.Fatal("Password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("senha-super-secreta")); err != nil {
		t.Errorf("Hash does not verify against original password: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("senha-errada")); err == nil {
		t.Error("Hash verified against wrong password")
	}
}
