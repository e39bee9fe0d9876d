// Package routerscout implements the collection run: for every inventory
// device it saves the running configuration, extracts the summary fields and
// pushes the clock configuration.
package routerscout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/netdevops/routerscout/pkg/device"
	"github.com/netdevops/routerscout/pkg/parse"
	"github.com/netdevops/routerscout/pkg/transport"
	"github.com/rs/zerolog/log"
)

// TimestampFormat is used in the names of the saved configuration files.
const TimestampFormat = "2006-01-02T15-04-05"

// Unknown replaces hostname, model and software when they cannot be extracted.
const Unknown = "UNKNOWN"

// CollectParams is a collection of common parameters passed to the CLI
// for the 'collect' subcommand.
type CollectParams struct {
	OutputDir string    // directory receiving the running-config files
	Timestamp time.Time // fixed once per run and shared by every device
	Clock     ClockConfig
	Summary   io.Writer // receives one summary line per device, stdout by default
}

// Summary is the per-device result printed at the end of a collection.
type Summary struct {
	Hostname   string
	Model      string
	Software   string
	Encryption string
	Neighbors  string
	Clock      string
}

func newSummary() Summary {
	return Summary{
		Hostname:   Unknown,
		Model:      Unknown,
		Software:   Unknown,
		Encryption: parse.EncryptionUnknown,
		Neighbors:  parse.NeighborsResult{}.Status(),
		Clock:      parse.ClockUnknown,
	}
}

func (s Summary) String() string {
	return strings.Join([]string{s.Hostname, s.Model, s.Software, s.Encryption, s.Neighbors, s.Clock}, "|")
}

// CollectAll processes the devices one after the other, in inventory order.
// A device that fails does not stop the run; its error is logged and
// returned with the others once every device has been tried.
func CollectAll(ctx context.Context, devices []device.Record, opener transport.Opener, params *CollectParams) []error {
	summaryWriter := params.Summary
	if summaryWriter == nil {
		summaryWriter = os.Stdout
	}

	var errs []error
	for i, d := range devices {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		log.Info().Str("device", d.Address).Msgf("collecting from device %d of %d", i+1, len(devices))

		summary, err := CollectDevice(ctx, d, opener, params)
		if err != nil {
			log.Error().Err(err).Str("device", d.Address).Msg("failed to collect from device")
			errs = append(errs, err)
			continue
		}
		fmt.Fprintln(summaryWriter, summary)
	}
	return errs
}

// CollectDevice runs the whole workflow on one device. A non-nil error means
// nothing useful could be reported for the device.
func CollectDevice(ctx context.Context, d device.Record, opener transport.Opener, params *CollectParams) (Summary, error) {
	summary := newSummary()

	profile, err := device.LookupProfile(d.Kind)
	if err != nil {
		return summary, &transport.ConnectionError{Address: d.Address, Err: err}
	}
	session, err := opener.Open(ctx, d)
	if err != nil {
		return summary, err
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Debug().Err(err).Str("device", d.Address).Msg("failed to close session")
		}
	}()
	if err := session.Escalate(ctx); err != nil {
		return summary, err
	}

	// running configuration
	out, err := session.Execute(ctx, profile.ShowRunningConfig)
	if err != nil {
		return summary, err
	}
	if config, ok := parse.RunningConfig(out); ok {
		summary.Hostname = config.Hostname
		path, err := writeRunningConfig(params.OutputDir, config, params.Timestamp)
		if err != nil {
			log.Error().Err(err).Str("device", d.Address).Msg("failed to save running configuration")
		} else {
			log.Info().Str("device", d.Address).Str("path", path).Msg("saved running configuration")
		}
	} else {
		log.Warn().Str("device", d.Address).Msg("no usable configuration: hostname not found")
	}

	// neighbors
	out, err = session.Execute(ctx, profile.ShowNeighbors)
	if err != nil {
		return summary, err
	}
	summary.Neighbors = parse.Neighbors(out).Status()

	// version
	out, err = session.Execute(ctx, profile.ShowVersion)
	if err != nil {
		return summary, err
	}
	version := parse.Version(out)
	if version.HasSoftware() {
		summary.Software = version.Software
	}
	if version.HasModel() {
		summary.Model = version.Model
	}
	summary.Encryption = version.Encryption

	// clock
	push, err := ConfigureClock(ctx, session, profile, params.Clock)
	if err != nil {
		return summary, err
	}
	switch {
	case errors.Is(push.Warning, ErrNTPUnreachable):
		log.Warn().Err(push.Warning).Str("device", d.Address).Msg("skipped clock configuration")
	case push.Warning != nil:
		log.Warn().Err(push.Warning).Str("device", d.Address).Str("output", push.Output).Msg("clock configuration failed")
	default:
		log.Info().Str("device", d.Address).Msg("pushed clock configuration")
	}

	out, err = session.Execute(ctx, profile.ShowNTPStatus)
	if err != nil {
		return summary, err
	}
	summary.Clock = parse.ClockStatus(out).Message()

	return summary, nil
}

// writeRunningConfig saves config under dir and returns the file path. An
// existing file is never overwritten.
func writeRunningConfig(dir string, config parse.RunningConfigResult, ts time.Time) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to make output directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s.%s.running-config.txt", config.Hostname, ts.Format(TimestampFormat)))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.WriteString(f, config.Text); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, f.Close()
}
