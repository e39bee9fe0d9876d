// Package device holds the device record read from the inventory and the CLI
// profile matching its device-kind tag.
package device

import (
	"net"
	"strconv"
)

// Record describes one device of the inventory. Records are passed by value
// and never modified once loaded.
type Record struct {
	Address  string
	Kind     string
	Username string
	Password string
	// Secret is the enable secret; empty means privileged mode is not entered.
	Secret string
}

// HasSecret reports whether privileged mode should be entered.
func (r Record) HasSecret() bool {
	return r.Secret != ""
}

// HostPort returns the address to dial, adding defaultPort when the record
// does not carry one.
func (r Record) HostPort(defaultPort int) string {
	if _, _, err := net.SplitHostPort(r.Address); err == nil {
		return r.Address
	}
	return net.JoinHostPort(r.Address, strconv.Itoa(defaultPort))
}
