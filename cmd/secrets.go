package cmd

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/netdevops/routerscout/internal/util"
	"github.com/netdevops/routerscout/pkg/device"
	"github.com/netdevops/routerscout/pkg/secrets"
	"github.com/spf13/cobra"
)

var (
	secretsStoreFormat    string
	secretsStoreInputFile string
)

var secretsCmd = &cobra.Command{
	Use: "secrets",
	Example: `  // generate new key and set environment variable
  export ROUTERSCOUT_MASTER_KEY=$(routerscout secrets generatekey)

  // store credentials for one router, referenced as store:r1 in the inventory
  routerscout secrets store r1 admin:cisco:enablesecret

  // store the fallback credentials used when an ID has no entry
  routerscout secrets store default admin:cisco

  // retrieve creds from a specific secrets file
  routerscout secrets retrieve r1 -f routers-secrets.json

  // list the stored IDs
  routerscout secrets list`,
	Short: "Manage router credentials",
	Long: "Manage the encrypted credentials referenced from the inventory as store:<id>. This requires\n" +
		"generating a key and setting the '" + secrets.MasterKeyEnv + "' environment variable.",
}

var secretsGenerateKeyCmd = &cobra.Command{
	Use:   "generatekey",
	Args:  cobra.NoArgs,
	Short: "Generates a new 32-byte master key (in hex).",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := secrets.GenerateMasterKey()
		if err != nil {
			return fmt.Errorf("failed to generate master key: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), key)
		return nil
	},
}

var secretsStoreCmd = &cobra.Command{
	Use:   "store secretID [value]",
	Args:  cobra.RangeArgs(1, 2),
	Short: "Stores credentials under secretID.",
	Long: "Stores credentials under secretID. The value format is set with --format:\n" +
		"  basic   username:password[:secret]\n" +
		"  json    {\"username\": ..., \"password\": ..., \"secret\": ...}\n" +
		"  base64  the json document, base64 encoded",
	RunE: func(cmd *cobra.Command, args []string) error {
		secretID := args[0]
		var secretValue string
		switch {
		case len(args) == 2 && secretsStoreInputFile != "":
			return fmt.Errorf("cannot use -i/--input-file with positional argument")
		case len(args) == 2:
			secretValue = args[1]
		case secretsStoreInputFile != "":
			b, err := os.ReadFile(secretsStoreInputFile)
			if err != nil {
				return fmt.Errorf("failed to read input file: %w", err)
			}
			secretValue = strings.TrimSpace(string(b))
		default:
			return fmt.Errorf("no input data or file")
		}

		creds, err := decodeCredentials(secretsStoreFormat, secretValue)
		if err != nil {
			return err
		}
		b, err := json.Marshal(creds)
		if err != nil {
			return fmt.Errorf("failed to marshal credentials: %w", err)
		}

		store, err := util.OpenSecretStore()
		if err != nil {
			return err
		}
		if err := store.StoreSecretByID(secretID, string(b)); err != nil {
			return fmt.Errorf("failed to store secret by ID: %w", err)
		}
		return nil
	},
}

// decodeCredentials turns the value given to 'secrets store' into credentials.
func decodeCredentials(format, value string) (device.Credentials, error) {
	var creds device.Credentials
	switch format {
	case "basic": // format: $username:$password[:$secret]
		values := strings.Split(value, ":")
		if len(values) < 2 || len(values) > 3 {
			return creds, fmt.Errorf("expected [username:password[:secret]] format but got %d field(s)", len(values))
		}
		creds.Username, creds.Password = values[0], values[1]
		if len(values) == 3 {
			creds.Secret = values[2]
		}
	case "base64":
		decoded, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return creds, fmt.Errorf("error decoding base64 data: %w", err)
		}
		return decodeCredentials("json", string(decoded))
	case "json":
		if err := json.Unmarshal([]byte(value), &creds); err != nil {
			return creds, fmt.Errorf("value is not valid JSON: %w", err)
		}
	default:
		return creds, fmt.Errorf("unknown input format %q", format)
	}
	if creds.Password == "" && creds.Secret == "" {
		return creds, fmt.Errorf("credentials need a password or a secret")
	}
	return creds, nil
}

var secretsRetrieveCmd = &cobra.Command{
	Use:   "retrieve secretID",
	Args:  cobra.ExactArgs(1),
	Short: "Prints the credentials stored under secretID.",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := util.OpenSecretStore()
		if err != nil {
			return err
		}
		secretValue, err := store.GetSecretByID(args[0])
		if err != nil {
			return fmt.Errorf("failed to retrieve secret: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Secret for %s: %s\n", args[0], secretValue)
		return nil
	},
}

var secretsListCmd = &cobra.Command{
	Use:   "list",
	Args:  cobra.NoArgs,
	Short: "Lists all the secret IDs and their encrypted values.",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := util.OpenSecretStore()
		if err != nil {
			return err
		}
		stored, err := store.ListSecrets()
		if err != nil {
			return fmt.Errorf("failed to list secrets: %w", err)
		}

		ids := make([]string, 0, len(stored))
		for id := range stored {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", id, stored[id])
		}
		return nil
	},
}

var secretsRemoveCmd = &cobra.Command{
	Use:   "remove secretIDs...",
	Args:  cobra.MinimumNArgs(1),
	Short: "Remove secrets by IDs from secret store.",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := util.OpenSecretStore()
		if err != nil {
			return err
		}
		for _, secretID := range args {
			if err := store.RemoveSecretByID(secretID); err != nil {
				return fmt.Errorf("failed to remove secret: %w", err)
			}
		}
		return nil
	},
}

func init() {
	secretsStoreCmd.Flags().StringVarP(&secretsStoreFormat, "format", "F", "basic", "Set the input format (basic|json|base64).")
	secretsStoreCmd.Flags().StringVar(&secretsStoreInputFile, "input-file", "", "Set the file to read as input.")

	secretsCmd.AddCommand(secretsGenerateKeyCmd)
	secretsCmd.AddCommand(secretsStoreCmd)
	secretsCmd.AddCommand(secretsRetrieveCmd)
	secretsCmd.AddCommand(secretsListCmd)
	secretsCmd.AddCommand(secretsRemoveCmd)

	rootCmd.AddCommand(secretsCmd)
}
