package transport

import (
	"bufio"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/netdevops/routerscout/pkg/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

const (
	testUser   = "admin"
	testPass   = "cisco"
	testSecret = "class"
)

const testShowVersion = "Cisco IOS Software, C2900 Software (C2900-UNIVERSALK9-M), Version 15.7(3)M5, RELEASE SOFTWARE (fc1)\r\n" +
	"Cisco CISCO2911/K9 (revision 1.0) with 487424K/36864K bytes of memory.\r\n"

func generateTestHostKey(t *testing.T) ssh.Signer {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := ssh.NewSignerFromKey(priv)
	require.NoError(t, err)
	return signer
}

// newFakeRouter starts an in-process SSH server behaving like an IOS CLI and
// returns its address and host key.
func newFakeRouter(t *testing.T) (string, ssh.PublicKey) {
	t.Helper()

	config := &ssh.ServerConfig{
		PasswordCallback: func(c ssh.ConnMetadata, pass []byte) (*ssh.Permissions, error) {
			if c.User() == testUser && string(pass) == testPass {
				return nil, nil
			}
			return nil, fmt.Errorf("invalid credentials")
		},
	}
	hostKey := generateTestHostKey(t)
	config.AddHostKey(hostKey)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go handleFakeRouterConn(conn, config)
		}
	}()
	t.Cleanup(func() {
		listener.Close()
		<-done
	})
	return listener.Addr().String(), hostKey.PublicKey()
}

func handleFakeRouterConn(conn net.Conn, config *ssh.ServerConfig) {
	defer conn.Close()

	sshConn, chans, reqs, err := ssh.NewServerConn(conn, config)
	if err != nil {
		return
	}
	defer sshConn.Close()
	go ssh.DiscardRequests(reqs)

	for newChannel := range chans {
		if newChannel.ChannelType() != "session" {
			newChannel.Reject(ssh.UnknownChannelType, "unknown channel type")
			continue
		}
		channel, requests, err := newChannel.Accept()
		if err != nil {
			return
		}
		go func() {
			for req := range requests {
				ok := req.Type == "pty-req" || req.Type == "shell"
				if req.WantReply {
					req.Reply(ok, nil)
				}
			}
		}()
		go fakeIOSShell(channel)
	}
}

// fakeIOSShell runs a tiny IOS command interpreter on the channel.
func fakeIOSShell(channel ssh.Channel) {
	defer channel.Close()

	mode := ">"
	prompt := func() string { return "R1" + mode }
	r := bufio.NewReader(channel)
	readLine := func() (string, bool) {
		line, err := r.ReadString('\n')
		return strings.TrimRight(line, "\r\n"), err == nil
	}

	io.WriteString(channel, "\r\n"+prompt())
	for {
		cmd, ok := readLine()
		if !ok {
			return
		}
		out := ""
		switch {
		case cmd == "exit":
			return
		case cmd == "enable":
			if mode == ">" {
				io.WriteString(channel, cmd+"\r\nPassword: ")
				secret, ok := readLine()
				if !ok {
					return
				}
				if secret == testSecret {
					mode = "#"
				} else {
					io.WriteString(channel, "\r\n% Access denied\r\n")
				}
				io.WriteString(channel, "\r\n"+prompt())
				continue
			}
		case cmd == "terminal length 0":
		case cmd == "show version":
			out = testShowVersion
		case cmd == "configure terminal" && mode == "#":
			out = "Enter configuration commands, one per line.  End with CNTL/Z.\r\n"
			mode = "(config)#"
		case cmd == "end" && mode == "(config)#":
			mode = "#"
		case mode == "(config)#" && (strings.HasPrefix(cmd, "clock timezone ") || strings.HasPrefix(cmd, "ntp server ")):
		default:
			out = "                ^\r\n% Invalid input detected at '^' marker.\r\n\r\n"
		}
		io.WriteString(channel, cmd+"\r\n"+out+prompt())
	}
}

func testOpener() *SSHOpener {
	return &SSHOpener{Port: 22, Timeout: 2 * time.Second}
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestOpenExecuteAndConfigure(t *testing.T) {
	addr, _ := newFakeRouter(t)
	ctx := testContext(t)

	s, err := testOpener().Open(ctx, device.Record{
		Address: addr, Kind: "cisco_ios", Username: testUser, Password: testPass, Secret: testSecret,
	})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Escalate(ctx))

	out, err := s.Execute(ctx, "show version")
	require.NoError(t, err)
	assert.Equal(t, strings.ReplaceAll(testShowVersion, "\r\n", "\n"), out)

	out, err = s.ExecuteConfig(ctx, []string{"clock timezone GMT 0", "ntp server 192.0.2.1"})
	require.NoError(t, err)
	assert.Contains(t, out, "Enter configuration commands")
	assert.NotContains(t, out, "% Invalid")

	out, err = s.ExecuteConfig(ctx, []string{"ntp bogus"})
	require.NoError(t, err)
	assert.Contains(t, out, "% Invalid input")

	// still in privileged mode after leaving config mode
	require.NoError(t, s.Escalate(ctx))
}

func TestEscalateWrongSecret(t *testing.T) {
	addr, _ := newFakeRouter(t)
	ctx := testContext(t)

	s, err := testOpener().Open(ctx, device.Record{
		Address: addr, Kind: "cisco_ios", Username: testUser, Password: testPass, Secret: "wrong",
	})
	require.NoError(t, err)
	defer s.Close()

	err = s.Escalate(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConnection))
}

func TestEscalateWithoutSecret(t *testing.T) {
	addr, _ := newFakeRouter(t)
	ctx := testContext(t)

	s, err := testOpener().Open(ctx, device.Record{
		Address: addr, Kind: "cisco_ios", Username: testUser, Password: testPass,
	})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Escalate(ctx))
	// user mode: config commands are refused
	out, err := s.ExecuteConfig(ctx, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "% Invalid input")
}

func TestOpenAuthFailure(t *testing.T) {
	addr, _ := newFakeRouter(t)

	_, err := testOpener().Open(testContext(t), device.Record{
		Address: addr, Kind: "cisco_ios", Username: testUser, Password: "nope",
	})
	require.Error(t, err)
	var connErr *ConnectionError
	require.True(t, errors.As(err, &connErr))
	assert.Equal(t, addr, connErr.Address)
	assert.True(t, errors.Is(err, ErrConnection))
}

func TestOpenUnknownKind(t *testing.T) {
	_, err := testOpener().Open(testContext(t), device.Record{Address: "192.0.2.10", Kind: "juniper_junos"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConnection))
	assert.Contains(t, err.Error(), "unsupported device kind")
}

func TestOpenUnreachable(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	listener.Close()

	_, err = testOpener().Open(testContext(t), device.Record{Address: addr, Kind: "cisco_ios", Username: testUser, Password: testPass})
	assert.True(t, errors.Is(err, ErrConnection), "got %v", err)
}

func TestOpenKnownHosts(t *testing.T) {
	addr, hostKey := newFakeRouter(t)
	record := device.Record{Address: addr, Kind: "cisco_ios", Username: testUser, Password: testPass}
	dir := t.TempDir()

	good := filepath.Join(dir, "known_hosts")
	require.NoError(t, os.WriteFile(good, []byte(knownhosts.Line([]string{addr}, hostKey)+"\n"), 0600))
	opener := testOpener()
	opener.KnownHostsFile = good
	s, err := opener.Open(testContext(t), record)
	require.NoError(t, err)
	s.Close()

	other := filepath.Join(dir, "other_known_hosts")
	require.NoError(t, os.WriteFile(other, []byte(knownhosts.Line([]string{addr}, generateTestHostKey(t).PublicKey())+"\n"), 0600))
	opener.KnownHostsFile = other
	_, err = opener.Open(testContext(t), record)
	assert.True(t, errors.Is(err, ErrConnection), "got %v", err)

	opener.KnownHostsFile = filepath.Join(dir, "missing")
	_, err = opener.Open(testContext(t), record)
	assert.ErrorContains(t, err, "known hosts")
}

func TestConnectionErrorMessage(t *testing.T) {
	err := &ConnectionError{Address: "10.0.0.1", Err: errors.New("i/o timeout")}
	assert.Equal(t, "10.0.0.1: connection failed: i/o timeout", err.Error())
}
