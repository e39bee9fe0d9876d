package vty

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

var (
	ErrTimeout = errors.New("timed out waiting for the device")
	ErrClosed  = errors.New("vty connection closed")
)

// Connector provides the connection to a VTY via various transports.
type Connector interface {
	// GetVTY returns the interface to the VTY for reading and writing.
	GetVTY() (io.Reader, io.Writer, error)

	// Close closes the VTY connection.
	Close() error
}

// Session is a VTY session handle.
type Session struct {
	conn   Connector
	w      io.Writer
	prompt *regexp.Regexp

	chunks chan []byte
	errs   chan error
	done   chan struct{}
	once   sync.Once

	buf  bytes.Buffer
	last string
	err  error
}

// NewSession starts a session on conn. It does not wait for the first prompt,
// use ReadUntil for that once the shell is started.
func NewSession(conn Connector, prompt *regexp.Regexp) (*Session, error) {
	r, w, err := conn.GetVTY()
	if err != nil {
		return nil, err
	}
	s := &Session{
		conn:   conn,
		w:      w,
		prompt: prompt,
		chunks: make(chan []byte),
		errs:   make(chan error, 1),
		done:   make(chan struct{}),
	}
	go s.readLoop(r)
	return s, nil
}

// Close stops the reader and closes the underlying connection.
func (s *Session) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.conn.Close()
	})
	return err
}

// Prompt returns the line that completed the last read, normally the
// device prompt.
func (s *Session) Prompt() string {
	return s.last
}

// Send writes one line of input to the device.
func (s *Session) Send(line string) error {
	if _, err := fmt.Fprintf(s.w, "%s\n", line); err != nil {
		return fmt.Errorf("failed to write to vty: %w", err)
	}
	return nil
}

// Exec sends cmd and returns its output without the echoed command line and
// without the prompt that follows it.
func (s *Session) Exec(ctx context.Context, cmd string) (string, error) {
	log.Trace().Str("cmd", cmd).Msg("vty exec")
	if err := s.Send(cmd); err != nil {
		return "", err
	}
	out, err := s.ReadUntil(ctx)
	if err != nil {
		return out, err
	}
	return trimEchoAndPrompt(out, cmd), nil
}

// ReadUntil reads until the last output line matches the session prompt or
// one of the extra patterns. The returned text has CRLF line endings
// converted and includes the matching line.
func (s *Session) ReadUntil(ctx context.Context, patterns ...*regexp.Regexp) (string, error) {
	patterns = append([]*regexp.Regexp{s.prompt}, patterns...)
	defer s.buf.Reset()

	if s.err != nil {
		return "", s.err
	}
	for {
		text := normalize(s.buf.String())
		last := text[strings.LastIndex(text, "\n")+1:]
		for _, re := range patterns {
			if re.MatchString(last) {
				s.last = last
				return text, nil
			}
		}

		select {
		case chunk := <-s.chunks:
			s.buf.Write(chunk)
		case err := <-s.errs:
			if errors.Is(err, io.EOF) {
				err = ErrClosed
			}
			s.err = err
			return text, err
		case <-ctx.Done():
			return text, fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
		case <-s.done:
			return text, ErrClosed
		}
	}
}

func (s *Session) readLoop(r io.Reader) {
	b := make([]byte, 4096)
	for {
		n, err := r.Read(b)
		if n > 0 {
			chunk := append([]byte(nil), b[:n]...)
			select {
			case s.chunks <- chunk:
			case <-s.done:
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Debug().Err(err).Msg("error reading from vty")
			}
			s.errs <- err
			return
		}
	}
}

// normalize turns PTY line endings into plain newlines.
func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "")
}

func trimEchoAndPrompt(out, cmd string) string {
	lines := strings.Split(out, "\n")
	// prompt
	lines = lines[:len(lines)-1]
	if len(lines) > 0 && strings.Contains(lines[0], cmd) {
		lines = lines[1:]
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
