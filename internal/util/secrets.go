package util

import (
	"fmt"

	"github.com/netdevops/routerscout/pkg/secrets"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// OpenSecretStore opens the local credential store set with the
// 'secrets.file' config key. The store file is created when it does not
// exist yet; the master key always comes from the environment.
func OpenSecretStore() (secrets.SecretStore, error) {
	secretsFile := viper.GetString("secrets.file")
	if _, exists := PathExists(secretsFile); !exists {
		log.Debug().Msgf("secret store %s not found, creating it", secretsFile)
	}
	store, err := secrets.OpenStore(secretsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open secret store %s: %w", secretsFile, err)
	}
	return store, nil
}
