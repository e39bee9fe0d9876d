package device

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/netdevops/routerscout/pkg/secrets"
	"github.com/rs/zerolog/log"
)

// Credentials is the JSON document kept in the secret store for a device.
// A stored value that is not JSON is taken as a bare password.
type Credentials struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Secret   string `json:"secret,omitempty"`
}

// GetCredentials looks up the credentials stored under id, falling back to
// the default entry when the store has nothing specific for id.
func GetCredentials(store secrets.SecretStore, id string) (Credentials, error) {
	var creds Credentials
	if store == nil {
		return creds, fmt.Errorf("no secret store available for %q", id)
	}

	value, err := store.GetSecretByID(id)
	if err != nil {
		if id == secrets.DefaultKey {
			return creds, fmt.Errorf("get default credentials: %w", err)
		}
		log.Warn().Str("id", id).Msg("specific credentials not found, falling back to default")
		if value, err = store.GetSecretByID(secrets.DefaultKey); err != nil {
			return creds, fmt.Errorf("no credentials stored for %q and no default set: %w", id, err)
		}
	}

	if !strings.HasPrefix(strings.TrimSpace(value), "{") {
		creds.Password = value
		return creds, nil
	}
	if err := json.Unmarshal([]byte(value), &creds); err != nil {
		return creds, fmt.Errorf("unmarshal credentials for %q: %w", id, err)
	}
	return creds, nil
}
