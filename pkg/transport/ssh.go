package transport

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// Older IOS images only offer CBC ciphers and SHA1 key exchanges, so both
// lists extend the library defaults.
var (
	sshCiphers = []string{
		"aes128-gcm@openssh.com",
		"chacha20-poly1305@openssh.com",
		"aes128-ctr",
		"aes192-ctr",
		"aes256-ctr",
		"aes128-cbc",
	}
	sshKeyExchanges = []string{
		"curve25519-sha256",
		"curve25519-sha256@libssh.org",
		"ecdh-sha2-nistp256",
		"ecdh-sha2-nistp384",
		"ecdh-sha2-nistp521",
		"diffie-hellman-group14-sha256",
		"diffie-hellman-group14-sha1",
		"diffie-hellman-group1-sha1",
	}
)

// sshConnection is an SSH connection with an interactive shell channel.
type sshConnection struct {
	client  *ssh.Client
	session *ssh.Session
}

func clientConfig(username, password, knownHostsFile string, timeout time.Duration) (*ssh.ClientConfig, error) {
	hostKeyCallback := ssh.InsecureIgnoreHostKey() //nolint:gosec // lab routers rarely have managed host keys; set ssh.known-hosts to verify
	if knownHostsFile != "" {
		cb, err := knownhosts.New(knownHostsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load known hosts: %w", err)
		}
		hostKeyCallback = cb
	}

	return &ssh.ClientConfig{
		User: username,
		Auth: []ssh.AuthMethod{
			ssh.Password(password),
			// IOS offers keyboard-interactive with a single password question
			ssh.KeyboardInteractive(func(_, _ string, questions []string, _ []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = password
				}
				return answers, nil
			}),
		},
		HostKeyCallback: hostKeyCallback,
		Timeout:         timeout,
		Config: ssh.Config{
			Ciphers:      sshCiphers,
			KeyExchanges: sshKeyExchanges,
		},
	}, nil
}

// connect dials addr and completes the SSH handshake, bounded by ctx and the
// config timeout.
func connect(ctx context.Context, dial dialFunc, addr string, config *ssh.ClientConfig) (*sshConnection, error) {
	conn, err := dial(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	if config.Timeout > 0 {
		conn.SetDeadline(time.Now().Add(config.Timeout))
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		return nil, err
	}
	conn.SetDeadline(time.Time{})

	client := ssh.NewClient(c, chans, reqs)
	session, err := client.NewSession()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &sshConnection{client: client, session: session}, nil
}

// GetVTY requests a PTY, starts the shell and returns its output and input.
func (c *sshConnection) GetVTY() (io.Reader, io.Writer, error) {
	modes := ssh.TerminalModes{
		ssh.ECHO:          1,
		ssh.TTY_OP_ISPEED: 14400,
		ssh.TTY_OP_OSPEED: 14400,
	}
	if err := c.session.RequestPty("vt100", 0, 511, modes); err != nil {
		return nil, nil, fmt.Errorf("failed to request a PTY: %w", err)
	}
	w, err := c.session.StdinPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}
	r, err := c.session.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	if err := c.session.Shell(); err != nil {
		return nil, nil, fmt.Errorf("failed to start the shell: %w", err)
	}
	return r, w, nil
}

// Close closes the shell channel and the SSH connection.
func (c *sshConnection) Close() error {
	c.session.Close()
	return c.client.Close()
}
