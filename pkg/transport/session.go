package transport

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/netdevops/routerscout/pkg/device"
	"github.com/netdevops/routerscout/pkg/vty"
	"github.com/rs/zerolog/log"
)

type dialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// SSHOpener opens CLI sessions over SSH.
type SSHOpener struct {
	// Port is used for records whose address carries no port.
	Port int
	// Timeout bounds the connection handshake and every single command.
	Timeout time.Duration
	// KnownHostsFile enables host key verification when set.
	KnownHostsFile string

	// dial is overridden in tests.
	dial dialFunc
}

// Open connects to the device, waits for the first prompt and disables paging.
func (o *SSHOpener) Open(ctx context.Context, record device.Record) (Session, error) {
	fail := func(err error) (Session, error) {
		return nil, &ConnectionError{Address: record.Address, Err: err}
	}

	profile, err := device.LookupProfile(record.Kind)
	if err != nil {
		return fail(err)
	}
	config, err := clientConfig(record.Username, record.Password, o.KnownHostsFile, o.Timeout)
	if err != nil {
		return fail(err)
	}
	dial := o.dial
	if dial == nil {
		d := &net.Dialer{Timeout: o.Timeout}
		dial = d.DialContext
	}

	port := o.Port
	if port <= 0 {
		port = 22
	}
	addr := record.HostPort(port)
	log.Debug().Str("addr", addr).Str("kind", profile.Kind).Msg("connecting")

	conn, err := connect(ctx, dial, addr, config)
	if err != nil {
		return fail(err)
	}
	v, err := vty.NewSession(conn, profile.Prompt)
	if err != nil {
		conn.Close()
		return fail(err)
	}

	s := &cliSession{vty: v, profile: profile, record: record, timeout: o.Timeout}
	cctx, cancel := s.commandContext(ctx)
	defer cancel()
	if _, err := v.ReadUntil(cctx); err != nil {
		v.Close()
		return fail(fmt.Errorf("no prompt from device: %w", err))
	}
	if profile.DisablePaging != "" {
		if _, err := v.Exec(cctx, profile.DisablePaging); err != nil {
			v.Close()
			return fail(fmt.Errorf("failed to disable paging: %w", err))
		}
	}
	return s, nil
}

// cliSession is a Session on a device prompt.
type cliSession struct {
	vty     *vty.Session
	profile *device.Profile
	record  device.Record
	timeout time.Duration
}

func (s *cliSession) commandContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *cliSession) Execute(ctx context.Context, command string) (string, error) {
	ctx, cancel := s.commandContext(ctx)
	defer cancel()
	out, err := s.vty.Exec(ctx, command)
	if err != nil {
		return out, fmt.Errorf("%q on %s: %w", command, s.record.Address, err)
	}
	return out, nil
}

func (s *cliSession) ExecuteConfig(ctx context.Context, commands []string) (string, error) {
	var out strings.Builder
	all := append([]string{s.profile.ConfigEnter}, commands...)
	all = append(all, s.profile.ConfigExit)
	for _, cmd := range all {
		o, err := s.Execute(ctx, cmd)
		out.WriteString(o)
		if err != nil {
			return out.String(), err
		}
	}
	return out.String(), nil
}

func (s *cliSession) Escalate(ctx context.Context) error {
	if !s.record.HasSecret() || s.profile.Enable == "" || s.profile.PrivilegedPrompt(s.vty.Prompt()) {
		return nil
	}
	fail := func(err error) error {
		return &ConnectionError{Address: s.record.Address, Err: fmt.Errorf("failed to enter privileged mode: %w", err)}
	}

	ctx, cancel := s.commandContext(ctx)
	defer cancel()
	if err := s.vty.Send(s.profile.Enable); err != nil {
		return fail(err)
	}
	if _, err := s.vty.ReadUntil(ctx, s.profile.PasswordPrompt); err != nil {
		return fail(err)
	}
	if s.profile.PasswordPrompt.MatchString(s.vty.Prompt()) {
		if err := s.vty.Send(s.record.Secret); err != nil {
			return fail(err)
		}
		if _, err := s.vty.ReadUntil(ctx, s.profile.PasswordPrompt); err != nil {
			return fail(err)
		}
	}
	if !s.profile.PrivilegedPrompt(s.vty.Prompt()) {
		return fail(fmt.Errorf("device still at %q", s.vty.Prompt()))
	}
	return nil
}

func (s *cliSession) Close() error {
	return s.vty.Close()
}
