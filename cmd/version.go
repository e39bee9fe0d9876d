package cmd

import (
	"fmt"

	"github.com/netdevops/routerscout/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flag("short").Value.String() == "true" {
			v, _ := version.Info()
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return
		}
		version.PrintVersionInfo(cmd.OutOrStdout())
	},
}

func init() {
	versionCmd.Flags().Bool("short", false, "Print the version only")
	rootCmd.AddCommand(versionCmd)
}
