package cmd

import (
	"fmt"
	"time"

	routerscout "github.com/netdevops/routerscout/internal"
	"github.com/netdevops/routerscout/internal/inventory"
	"github.com/netdevops/routerscout/internal/util"
	"github.com/netdevops/routerscout/pkg/device"
	"github.com/netdevops/routerscout/pkg/transport"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect configuration and status from every device of the inventory",
	Long: "Connects to each device of the inventory in order, saves its running configuration\n" +
		"to <hostname>.<timestamp>.running-config.txt, pushes the clock/NTP configuration\n" +
		"when the NTP server answers pings and prints one summary line per device:\n\n" +
		"  hostname|model|software|encryption|neighbor-status|clock-status\n\n" +
		"Examples:\n" +
		"  routerscout collect --inventory routers.txt\n" +
		"  routerscout collect -i routers.txt -o ./configs --timeout 60",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		devices, err := loadInventory(viper.GetString("inventory"))
		if err != nil {
			return err
		}

		var (
			timeout = time.Duration(viper.GetInt("timeout")) * time.Second
			opener  = &transport.SSHOpener{
				Port:           viper.GetInt("ssh.port"),
				Timeout:        timeout,
				KnownHostsFile: viper.GetString("ssh.known-hosts"),
			}
			params = &routerscout.CollectParams{
				OutputDir: viper.GetString("output-dir"),
				Timestamp: time.Now(),
				Clock:     routerscout.ClockConfigFromViper(),
				Summary:   cmd.OutOrStdout(),
			}
		)
		log.Debug().Int("devices", len(devices)).Dur("timeout", timeout).Str("output", params.OutputDir).Msg("starting collection")

		errs := routerscout.CollectAll(cmd.Context(), devices, opener, params)
		if util.HasErrors(errs) {
			fmt.Fprintf(cmd.ErrOrStderr(), "failed to collect from %d of %d device(s):\n%v", len(errs), len(devices), util.FormatErrorList(errs))
		}
		return nil
	},
}

// loadInventory loads the inventory file and resolves its store references.
func loadInventory(path string) ([]device.Record, error) {
	devices, err := inventory.Load(path)
	if err != nil {
		return nil, err
	}
	if !inventory.NeedsStore(devices) {
		return devices, nil
	}
	store, err := util.OpenSecretStore()
	if err != nil {
		return nil, err
	}
	return inventory.ResolveSecrets(devices, store)
}

func init() {
	collectCmd.Flags().StringP("output-dir", "o", routerscout.DefaultOutputDir, "Set the directory for the running-config files")
	collectCmd.Flags().IntP("port", "p", routerscout.DefaultSSHPort, "Set the SSH port for devices without an explicit port")
	collectCmd.Flags().String("known-hosts", "", "Verify host keys against this known_hosts file")

	checkBindFlagError(viper.BindPFlag("output-dir", collectCmd.Flags().Lookup("output-dir")))
	checkBindFlagError(viper.BindPFlag("ssh.port", collectCmd.Flags().Lookup("port")))
	checkBindFlagError(viper.BindPFlag("ssh.known-hosts", collectCmd.Flags().Lookup("known-hosts")))

	rootCmd.AddCommand(collectCmd)
}
