// Package inventory loads the device list from a flat comma-separated file:
//
//	# address,device-kind,username,password[,secret]
//	10.0.0.1,cisco_ios,admin,cisco,class
//	10.0.0.2,cisco_nxos,admin,store:nx-core
//
// Blank lines and lines starting with '#' are skipped. A password or secret
// written as "store:<id>" is looked up in the encrypted secret store.
package inventory

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/netdevops/routerscout/pkg/device"
	"github.com/netdevops/routerscout/pkg/secrets"
)

// StoreRefPrefix marks a credential field resolved through the secret store.
const StoreRefPrefix = "store:"

// FormatError reports a malformed inventory line. It aborts the whole run.
type FormatError struct {
	Path string
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("inventory line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}

// Load() reads the inventory file at path.
func Load(path string) ([]device.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory: %w", err)
	}
	defer f.Close()

	records, err := Parse(f)
	if ferr, ok := err.(*FormatError); ok {
		ferr.Path = path
	}
	return records, err
}

// Parse() reads inventory records from r, keeping their order. Duplicate
// records are kept as they are.
func Parse(r io.Reader) ([]device.Record, error) {
	var (
		records []device.Record
		scanner = bufio.NewScanner(r)
		n       int
	)
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) != 4 && len(fields) != 5 {
			return nil, &FormatError{Line: n, Msg: fmt.Sprintf("expected 4 or 5 fields, got %d", len(fields))}
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		record := device.Record{
			Address:  fields[0],
			Kind:     fields[1],
			Username: fields[2],
			Password: fields[3],
		}
		if len(fields) == 5 {
			record.Secret = fields[4]
		}
		if record.Address == "" {
			return nil, &FormatError{Line: n, Msg: "empty address"}
		}
		if record.Kind == "" {
			return nil, &FormatError{Line: n, Msg: "empty device kind"}
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}
	return records, nil
}

// NeedsStore reports whether any record references the secret store.
func NeedsStore(records []device.Record) bool {
	for _, r := range records {
		if isStoreRef(r.Password) || isStoreRef(r.Secret) {
			return true
		}
	}
	return false
}

// ResolveSecrets() returns a copy of records with every "store:<id>" password
// or secret replaced by the value kept in store. A password reference also
// fills in an empty username from the stored credentials.
func ResolveSecrets(records []device.Record, store secrets.SecretStore) ([]device.Record, error) {
	resolved := make([]device.Record, 0, len(records))
	for _, r := range records {
		if isStoreRef(r.Password) {
			creds, err := device.GetCredentials(store, storeID(r.Password))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", r.Address, err)
			}
			if creds.Password == "" {
				return nil, fmt.Errorf("%s: stored credentials %q have no password", r.Address, storeID(r.Password))
			}
			r.Password = creds.Password
			if r.Username == "" {
				r.Username = creds.Username
			}
		}
		if isStoreRef(r.Secret) {
			creds, err := device.GetCredentials(store, storeID(r.Secret))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", r.Address, err)
			}
			if creds.Secret == "" {
				return nil, fmt.Errorf("%s: stored credentials %q have no enable secret", r.Address, storeID(r.Secret))
			}
			r.Secret = creds.Secret
		}
		resolved = append(resolved, r)
	}
	return resolved, nil
}

func isStoreRef(v string) bool {
	return strings.HasPrefix(v, StoreRefPrefix)
}

func storeID(v string) string {
	return strings.TrimPrefix(v, StoreRefPrefix)
}
