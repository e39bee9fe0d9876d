package cmd

import (
	"fmt"
	"io"
	"os"

	routerscout "github.com/netdevops/routerscout/internal"
	"github.com/netdevops/routerscout/pkg/parse"
	"github.com/spf13/cobra"
)

// The `parse` command runs one extractor over command output saved from a
// device. It is the quickest way to check why a summary field came out as
// UNKNOWN without connecting to the device again.
var parseCmd = &cobra.Command{
	Use:       "parse <config|cdp|version|ntp|ping> [file]",
	Short:     "Extract the summary fields from saved command output",
	ValidArgs: []string{"config", "cdp", "version", "ntp", "ping"},
	Args:      cobra.MatchAll(cobra.RangeArgs(1, 2), func(cmd *cobra.Command, args []string) error { return cobra.OnlyValidArgs(cmd, args[:1]) }),
	Long: "Reads the output of a show command from a file (or stdin) and prints what\n" +
		"'collect' would extract from it.\n\n" +
		"Examples:\n" +
		"  routerscout parse version show-version.txt\n" +
		"  ssh admin@r1 'show cdp neighbors' | routerscout parse cdp",
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if len(args) == 2 {
			f, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("failed to open input: %w", err)
			}
			defer f.Close()
			in = f
		}
		b, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		return printExtraction(cmd.OutOrStdout(), args[0], string(b))
	},
}

func printExtraction(w io.Writer, what, text string) error {
	switch what {
	case "config":
		cfg, ok := parse.RunningConfig(text)
		if !ok {
			return fmt.Errorf("no usable configuration: hostname not found")
		}
		fmt.Fprintf(w, "hostname: %s\n", cfg.Hostname)
		fmt.Fprintf(w, "config: %d bytes\n", len(cfg.Text))
	case "cdp":
		n := parse.Neighbors(text)
		fmt.Fprintln(w, n.Status())
		for _, e := range n.Entries {
			fmt.Fprintf(w, "%s|%s|%s|%s|%s\n", e.DeviceID, e.LocalInterface, e.InterfaceNumber, e.HoldTime, e.Rest)
		}
	case "version":
		v := parse.Version(text)
		fmt.Fprintf(w, "software: %s\n", orUnknown(v.Software))
		fmt.Fprintf(w, "model: %s\n", orUnknown(v.Model))
		fmt.Fprintf(w, "encryption: %s\n", v.Encryption)
	case "ntp":
		fmt.Fprintln(w, parse.ClockStatus(text).Message())
	case "ping":
		fmt.Fprintf(w, "success rate: %d%%\n", parse.PingSuccessRate(text))
	default:
		return fmt.Errorf("unknown extractor %q", what)
	}
	return nil
}

func orUnknown(v string) string {
	if v == "" {
		return routerscout.Unknown
	}
	return v
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
