// Package transport opens command sessions on network devices. The Opener and
// Session interfaces are what the collection workflow depends on; SSHOpener is
// the implementation used against real devices.
package transport

import (
	"context"
	"errors"
	"fmt"

	"github.com/netdevops/routerscout/pkg/device"
)

// ErrConnection matches every error returned by a failed Open.
var ErrConnection = errors.New("connection failed")

// Opener opens a session on a device.
type Opener interface {
	Open(ctx context.Context, record device.Record) (Session, error)
}

// Session is an interactive command session on one device. Sessions are not
// safe for concurrent use and are never reused across devices.
type Session interface {
	// Execute sends one command and returns its output.
	Execute(ctx context.Context, command string) (string, error)

	// ExecuteConfig sends commands in configuration mode and returns the
	// combined output, including any error lines printed by the device.
	ExecuteConfig(ctx context.Context, commands []string) (string, error)

	// Escalate enters privileged mode with the record's secret. It does
	// nothing when the record has no secret.
	Escalate(ctx context.Context) error

	Close() error
}

// ConnectionError is returned when a session to a device cannot be opened
// or privileged mode cannot be entered.
type ConnectionError struct {
	Address string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Address, ErrConnection, e.Err)
}

func (e *ConnectionError) Unwrap() []error {
	return []error{ErrConnection, e.Err}
}
