package secrets

import (
	"testing"
)

func TestDeriveAESKey(t *testing.T) {
	masterKey := []byte("testmasterkey")
	key1 := deriveAESKey(masterKey, "R1")
	key2 := deriveAESKey(masterKey, "R1")
	key3 := deriveAESKey(masterKey, "R2")

	if len(key1) != 32 {
		t.Errorf("derived key should be 32 bytes, got %d", len(key1))
	}
	if string(key1) != string(key2) {
		t.Errorf("keys derived from the same secret ID should match")
	}
	if string(key1) == string(key3) {
		t.Errorf("keys derived from different secret IDs should differ")
	}
}

func TestEncryptDecryptAESGCM(t *testing.T) {
	key := deriveAESKey([]byte("anotherTestMasterKey"), "R1")
	plaintext := `{"username":"admin","password":"cisco","secret":"class"}`

	encrypted, err := encryptAESGCM(key, []byte(plaintext), "R1")
	if err != nil {
		t.Fatalf("encryption failed: %v", err)
	}

	decrypted, err := decryptAESGCM(key, encrypted, "R1")
	if err != nil {
		t.Fatalf("decryption failed: %v", err)
	}
	if decrypted != plaintext {
		t.Errorf("expected %q, got %q", plaintext, decrypted)
	}
}

func TestDecryptUnderOtherID(t *testing.T) {
	key := deriveAESKey([]byte("anotherTestMasterKey"), "R1")
	encrypted, err := encryptAESGCM(key, []byte("cisco"), "R1")
	if err != nil {
		t.Fatalf("encryption failed: %v", err)
	}
	if _, err := decryptAESGCM(key, encrypted, "R2"); err == nil {
		t.Errorf("expected decryption under a different secret ID to fail")
	}
	if _, err := decryptAESGCM(key, "abcd", "R1"); err == nil {
		t.Errorf("expected short ciphertext to fail")
	}
}
