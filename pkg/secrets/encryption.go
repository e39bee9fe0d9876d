package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// deriveAESKey derives a per-secret AES-256 key from the master key with HKDF,
// salted with the secret ID.
func deriveAESKey(masterKey []byte, secretID string) []byte {
	r := hkdf.New(sha256.New, masterKey, []byte(secretID), []byte("routerscout credentials"))
	key := make([]byte, 32)
	_, _ = io.ReadFull(r, key) // cannot fail for 32 bytes of SHA-256 output
	return key
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// encryptAESGCM seals plaintext and returns nonce||ciphertext hex encoded.
// The secret ID is bound as additional data so a value copied under another
// ID does not decrypt.
func encryptAESGCM(key, plaintext []byte, secretID string) (string, error) {
	aead, err := newGCM(key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return hex.EncodeToString(aead.Seal(nonce, nonce, plaintext, []byte(secretID))), nil
}

func decryptAESGCM(key []byte, encrypted string, secretID string) (string, error) {
	data, err := hex.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("failed to decode secret: %w", err)
	}
	aead, err := newGCM(key)
	if err != nil {
		return "", err
	}
	if len(data) < aead.NonceSize() {
		return "", fmt.Errorf("ciphertext too short")
	}
	nonce, ciphertext := data[:aead.NonceSize()], data[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, []byte(secretID))
	if err != nil {
		return "", fmt.Errorf("failed to decrypt secret %s: %w", secretID, err)
	}
	return string(plaintext), nil
}
