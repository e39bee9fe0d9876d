package routerscout

import (
	"context"
	"errors"
	"fmt"

	"github.com/cznic/mathutil"
	"github.com/netdevops/routerscout/pkg/device"
	"github.com/netdevops/routerscout/pkg/parse"
	"github.com/netdevops/routerscout/pkg/transport"
	"github.com/rs/zerolog/log"
)

// Warnings carried by ClockPushResult. Neither one fails the device.
var (
	ErrNTPUnreachable = errors.New("NTP server unreachable, clock configuration skipped")
	ErrConfigRejected = errors.New("device rejected the clock configuration")
)

// ClockConfig holds the clock/NTP change pushed to every device.
type ClockConfig struct {
	// Server is the NTP server that must answer pings before anything is pushed.
	Server string
	// Commands are sent in configuration mode. Empty means the timezone and
	// ntp server pair built from Server.
	Commands  []string
	PingCount int
	// MinSuccessRate is the lowest ping success rate, in percent, at which
	// the configuration is pushed.
	MinSuccessRate int
}

func DefaultClockConfig() ClockConfig {
	return ClockConfig{
		Server:         "192.0.2.1",
		PingCount:      4,
		MinSuccessRate: 49,
	}
}

// CommandSet returns the configuration commands to push.
func (c ClockConfig) CommandSet() []string {
	if len(c.Commands) > 0 {
		return c.Commands
	}
	return []string{
		"clock timezone GMT 0",
		fmt.Sprintf("ntp server %s", c.Server),
	}
}

// ClockPushResult reports what ConfigureClock did on one device.
type ClockPushResult struct {
	SuccessRate int
	Pushed      bool
	Output      string
	// Warning is ErrNTPUnreachable, ErrConfigRejected or nil.
	Warning error
}

// ConfigureClock pings the NTP server from the device and, when enough
// replies come back, pushes the clock configuration. The returned error is
// only set when the session itself failed; push problems are reported in
// the result's Warning.
func ConfigureClock(ctx context.Context, session transport.Session, profile *device.Profile, config ClockConfig) (*ClockPushResult, error) {
	count := config.PingCount
	if count <= 0 {
		count = DefaultClockConfig().PingCount
	}
	threshold := mathutil.Clamp(config.MinSuccessRate, 0, 100)

	out, err := session.Execute(ctx, profile.Ping(config.Server, count))
	if err != nil {
		return nil, fmt.Errorf("failed to ping NTP server: %w", err)
	}
	result := &ClockPushResult{SuccessRate: parse.PingSuccessRate(out)}
	log.Debug().Str("server", config.Server).Int("success_rate", result.SuccessRate).Msg("pinged NTP server")

	if result.SuccessRate < threshold {
		result.Warning = fmt.Errorf("%w: %s answered %d%% of pings (need %d%%)", ErrNTPUnreachable, config.Server, result.SuccessRate, threshold)
		return result, nil
	}

	result.Output, err = session.ExecuteConfig(ctx, config.CommandSet())
	if err != nil {
		return nil, fmt.Errorf("failed to push clock configuration: %w", err)
	}
	result.Pushed = true
	if parse.HasInvalidInput(result.Output) {
		result.Warning = ErrConfigRejected
	}
	return result, nil
}
