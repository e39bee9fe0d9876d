// Package secrets keeps device credentials encrypted at rest so inventory
// files can reference them by ID instead of carrying plain passwords.
package secrets

// DefaultKey is the secret ID used when no device specific entry exists.
const DefaultKey = "default"

type SecretStore interface {
	GetSecretByID(secretID string) (string, error)
	StoreSecretByID(secretID, secret string) error
	ListSecrets() (map[string]string, error)
	RemoveSecretByID(secretID string) error
}
