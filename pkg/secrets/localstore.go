package secrets

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// MasterKeyEnv names the environment variable holding the hex master key.
const MasterKeyEnv = "ROUTERSCOUT_MASTER_KEY"

var ErrNotFound = errors.New("secret not found")

// LocalSecretStore keeps encrypted secrets in a JSON file. Every change is
// written back to the file immediately.
type LocalSecretStore struct {
	mu        sync.RWMutex
	masterKey []byte
	filename  string
	Secrets   map[string]string `json:"secrets"`
}

func NewLocalSecretStore(masterKeyHex, filename string, create bool) (*LocalSecretStore, error) {
	masterKey, err := hex.DecodeString(masterKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid master key: %w", err)
	}
	if len(masterKey) < 16 {
		return nil, fmt.Errorf("master key too short: %d bytes", len(masterKey))
	}

	store := &LocalSecretStore{
		masterKey: masterKey,
		filename:  filename,
		Secrets:   map[string]string{},
	}

	_, err = os.Stat(filename)
	switch {
	case os.IsNotExist(err):
		if !create {
			return nil, fmt.Errorf("secrets file %s does not exist", filename)
		}
		if err := SaveSecrets(filename, store.Secrets); err != nil {
			return nil, fmt.Errorf("failed to create secrets file: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to stat secrets file: %w", err)
	default:
		if store.Secrets, err = loadSecrets(filename); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// GenerateMasterKey creates a random 32-byte key and returns it hex encoded.
func GenerateMasterKey() (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return hex.EncodeToString(key), nil
}

func (l *LocalSecretStore) GetSecretByID(secretID string) (string, error) {
	l.mu.RLock()
	encrypted, exists := l.Secrets[secretID]
	l.mu.RUnlock()
	if !exists {
		return "", fmt.Errorf("%w: %s", ErrNotFound, secretID)
	}
	return decryptAESGCM(deriveAESKey(l.masterKey, secretID), encrypted, secretID)
}

func (l *LocalSecretStore) StoreSecretByID(secretID, secret string) error {
	encrypted, err := encryptAESGCM(deriveAESKey(l.masterKey, secretID), []byte(secret), secretID)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.Secrets[secretID] = encrypted
	return SaveSecrets(l.filename, l.Secrets)
}

// ListSecrets returns a copy of the secret IDs mapped to their encrypted values.
func (l *LocalSecretStore) ListSecrets() (map[string]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	secrets := make(map[string]string, len(l.Secrets))
	for k, v := range l.Secrets {
		secrets[k] = v
	}
	return secrets, nil
}

func (l *LocalSecretStore) RemoveSecretByID(secretID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.Secrets[secretID]; !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, secretID)
	}
	delete(l.Secrets, secretID)
	return SaveSecrets(l.filename, l.Secrets)
}

// OpenStore opens (or creates) the store at filename with the master key
// taken from the ROUTERSCOUT_MASTER_KEY environment variable.
func OpenStore(filename string) (SecretStore, error) {
	if filename == "" {
		return nil, fmt.Errorf("path to secret store required")
	}
	masterKey := os.Getenv(MasterKeyEnv)
	if masterKey == "" {
		return nil, fmt.Errorf("%s environment variable not set", MasterKeyEnv)
	}
	store, err := NewLocalSecretStore(masterKey, filename, true)
	if err != nil {
		return nil, fmt.Errorf("failed to open local secret store: %w", err)
	}
	return store, nil
}

// SaveSecrets writes the encrypted secrets to jsonFile, readable by the owner only.
func SaveSecrets(jsonFile string, secrets map[string]string) error {
	file, err := os.OpenFile(jsonFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(secrets)
}

func loadSecrets(jsonFile string) (map[string]string, error) {
	b, err := os.ReadFile(jsonFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read secrets file %s: %w", jsonFile, err)
	}
	secrets := map[string]string{}
	if len(b) == 0 {
		return secrets, nil
	}
	if err := json.Unmarshal(b, &secrets); err != nil {
		return nil, fmt.Errorf("unable to parse secrets file %s: %w", jsonFile, err)
	}
	return secrets, nil
}
