package routerscout

import (
	"fmt"
	"os"
	"strings"

	"github.com/netdevops/routerscout/internal/util"
	"github.com/spf13/viper"
)

// LoadConfig() will load a config file at the specified path. There are some general
// considerations about how this is done with spf13/viper:
//
// 1. When path is empty, only $XDG_CONFIG_HOME/routerscout/config.* is searched
// 2. No data will be written to the config file from the tool
// 3. Parameters passed as CLI flags and environment variables should always have
// precedence over values set in the config.
//
// A missing config file is only an error when path is set explicitly.
func LoadConfig(path string) error {
	viper.SetEnvPrefix("routerscout")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if path != "" {
		dir, filename, ext := util.SplitPathForViper(path)
		viper.AddConfigPath(dir)
		viper.SetConfigName(filename)
		viper.SetConfigType(ext)
	} else {
		configDir := os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			configDir = "$HOME/.config"
		}
		viper.AddConfigPath(configDir + "/routerscout")
		viper.SetConfigName("config")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if path == "" {
				return nil
			}
			return fmt.Errorf("config file not found: %w", err)
		}
		return fmt.Errorf("failed to load config file: %w", err)
	}
	return nil
}

// Defaults shared by SetDefaults() and the CLI flag help.
const (
	DefaultInventory   = "inventory.txt"
	DefaultOutputDir   = "."
	DefaultTimeout     = 30
	DefaultSSHPort     = 22
	DefaultSecretsFile = "secrets.json"
)

// SetDefaults() sets the default value of every config key.
func SetDefaults() {
	clock := DefaultClockConfig()
	viper.SetDefault("inventory", DefaultInventory)
	viper.SetDefault("output-dir", DefaultOutputDir)
	viper.SetDefault("timeout", DefaultTimeout)
	viper.SetDefault("ssh.port", DefaultSSHPort)
	viper.SetDefault("ssh.known-hosts", "")
	viper.SetDefault("secrets.file", DefaultSecretsFile)
	viper.SetDefault("ntp.server", clock.Server)
	viper.SetDefault("ntp.commands", []string{})
	viper.SetDefault("ntp.ping-count", clock.PingCount)
	viper.SetDefault("ntp.min-success-rate", clock.MinSuccessRate)
}

// ClockConfigFromViper reads the ntp.* keys.
func ClockConfigFromViper() ClockConfig {
	return ClockConfig{
		Server:         viper.GetString("ntp.server"),
		Commands:       viper.GetStringSlice("ntp.commands"),
		PingCount:      viper.GetInt("ntp.ping-count"),
		MinSuccessRate: viper.GetInt("ntp.min-success-rate"),
	}
}
