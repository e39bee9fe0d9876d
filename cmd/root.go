// The cmd package implements the interface for the routerscout CLI. The files
// contained in this package only contains implementations for handling CLI
// arguments and passing them to functions within routerscout's internal API.
//
// Each CLI subcommand with real work to do has a corresponding internal
// routine:
//
//	cmd/collect.go   --> internal/collect.go ( routerscout.CollectAll() )
//	cmd/inventory.go --> internal/inventory ( inventory.Load() )
//	cmd/parse.go     --> pkg/parse (one extractor per argument)
//	cmd/secrets.go   --> pkg/secrets
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	routerscout "github.com/netdevops/routerscout/internal"
	"github.com/netdevops/routerscout/internal/log"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var logLevel = log.INFO

// The `root` command doesn't do anything on it's own except display
// a help message and then exits.
var rootCmd = &cobra.Command{
	Use:   "routerscout",
	Short: "Collect configuration and status from Cisco routers over SSH",
	Long: "Connects to every router listed in an inventory file, saves its running\n" +
		"configuration, pushes the clock/NTP configuration and prints one\n" +
		"summary line per device.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return log.InitWithLogLevel(logLevel, viper.GetString("log-file"))
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if err := log.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := cmd.Help(); err != nil {
			zlog.Error().Err(err).Msg("failed to print help")
		}
	},
}

// This Execute() function is called from main to run the CLI. An interrupt
// cancels the run after the current command on the current device.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	routerscout.SetDefaults()
	cobra.OnInitialize(InitializeConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "Set the config file path")
	rootCmd.PersistentFlags().IntP("timeout", "t", routerscout.DefaultTimeout, "Set the connection and per-command timeout in seconds")
	rootCmd.PersistentFlags().Var(&logLevel, "log-level", fmt.Sprintf("Set the log level (%s)", log.Levels))
	rootCmd.PersistentFlags().String("log-file", "", "Append logs as JSON lines to this file")
	rootCmd.PersistentFlags().StringP("inventory", "i", routerscout.DefaultInventory, "Set the inventory file")
	rootCmd.PersistentFlags().StringP("secrets-file", "f", routerscout.DefaultSecretsFile, "Set the secrets file used by store:<id> inventory fields")

	// bind viper config flags with cobra
	checkBindFlagError(viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")))
	checkBindFlagError(viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout")))
	checkBindFlagError(viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file")))
	checkBindFlagError(viper.BindPFlag("inventory", rootCmd.PersistentFlags().Lookup("inventory")))
	checkBindFlagError(viper.BindPFlag("secrets.file", rootCmd.PersistentFlags().Lookup("secrets-file")))
}

func checkBindFlagError(err error) {
	if err != nil {
		zlog.Error().Err(err).Msg("failed to bind cobra/viper flag")
	}
}

// InitializeConfig() loads the config file given with --config, or the
// default one under $XDG_CONFIG_HOME/routerscout when it exists.
func InitializeConfig() {
	if err := routerscout.LoadConfig(viper.GetString("config")); err != nil {
		zlog.Error().Err(err).Msg("failed to load config")
	}
}
