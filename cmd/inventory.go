package cmd

import (
	"fmt"
	"strings"

	"github.com/netdevops/routerscout/internal/inventory"
	"github.com/netdevops/routerscout/internal/util"
	"github.com/netdevops/routerscout/pkg/device"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	inventoryFormat  = util.FORMAT_LIST
	inventoryResolve bool
)

// inventoryEntry is a device record with its credentials masked.
type inventoryEntry struct {
	Address  string `json:"address" yaml:"address"`
	Kind     string `json:"kind" yaml:"kind"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	Secret   string `json:"secret,omitempty" yaml:"secret,omitempty"`
}

// The `inventory` command loads the inventory file the same way `collect`
// does and prints it without connecting to anything. Use it to check a new
// inventory file.
var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Validate and list the devices of the inventory",
	Long: "Loads the inventory file and prints its devices with their credentials masked.\n" +
		"Format errors are reported with the line number, exactly like 'collect' would.\n\n" +
		"Examples:\n" +
		"  routerscout inventory -i routers.txt\n" +
		"  routerscout inventory -i routers.txt --resolve --format yaml",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			devices []device.Record
			err     error
		)
		if inventoryResolve {
			devices, err = loadInventory(viper.GetString("inventory"))
		} else {
			devices, err = inventory.Load(viper.GetString("inventory"))
		}
		if err != nil {
			return err
		}

		entries := make([]inventoryEntry, 0, len(devices))
		for _, d := range devices {
			entries = append(entries, inventoryEntry{
				Address:  d.Address,
				Kind:     d.Kind,
				Username: d.Username,
				Password: maskCredential(d.Password),
				Secret:   maskCredential(d.Secret),
			})
		}

		if inventoryFormat == util.FORMAT_LIST {
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) user=%s password=%s secret=%s\n", e.Address, e.Kind, e.Username, e.Password, e.Secret)
			}
			return nil
		}
		b, err := util.MarshalData(entries, inventoryFormat)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	},
}

// maskCredential hides a credential but keeps store references readable.
func maskCredential(v string) string {
	switch {
	case v == "":
		return ""
	case strings.HasPrefix(v, inventory.StoreRefPrefix):
		return v
	}
	return "********"
}

func init() {
	inventoryCmd.Flags().VarP(&inventoryFormat, "format", "F", "Set the output format (list|json|yaml)")
	inventoryCmd.Flags().BoolVar(&inventoryResolve, "resolve", false, "Resolve store:<id> credentials through the secret store")
	rootCmd.AddCommand(inventoryCmd)
}
