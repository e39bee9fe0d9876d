// Package log sets up the global zerolog logger used by every command.
// Diagnostics always go to stderr so that stdout only carries the
// device summary lines.
package log

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// string representation that directly corresponds to zerolog.Level
type (
	LogLevel     string
	LogLevelList []LogLevel
)

const (
	DEBUG    LogLevel = "debug"
	INFO     LogLevel = "info"
	WARN     LogLevel = "warn"
	ERROR    LogLevel = "error"
	DISABLED LogLevel = "disabled"
	TRACE    LogLevel = "trace"
)

var Levels = LogLevelList{DEBUG, INFO, WARN, ERROR, DISABLED, TRACE}

// LogFile is the optional log file opened by InitWithLogLevel.
var LogFile *os.File

func (ll LogLevel) String() string {
	return string(ll)
}

func (ll *LogLevel) Set(v string) error {
	if !slices.Contains(Levels, LogLevel(v)) {
		return fmt.Errorf("must be one of %s", Levels)
	}
	*ll = LogLevel(v)
	return nil
}

func (ll LogLevel) Type() string {
	return "LogLevel"
}

func (lls LogLevelList) String() string {
	s := make([]string, 0, len(lls))
	for _, l := range lls {
		s = append(s, string(l))
	}
	return strings.Join(s, ", ")
}

// InitWithLogLevel() sets the global logger: a console writer on stderr and,
// when logPath is set, JSON lines appended to that file.
func InitWithLogLevel(logLevel LogLevel, logPath string) error {
	return initLogger(logLevel, logPath, os.Stderr)
}

func initLogger(logLevel LogLevel, logPath string, stderr io.Writer) error {
	level, err := strToLogLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to convert log level: %w", err)
	}

	writers := []io.Writer{
		zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.TimeOnly},
	}
	if logPath != "" {
		LogFile, err = os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o664)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, LogFile)
	}

	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Logger()
	return nil
}

// Close closes the log file, if any.
func Close() error {
	if LogFile == nil {
		return nil
	}
	err := LogFile.Close()
	LogFile = nil
	return err
}

func strToLogLevel(ll LogLevel) (zerolog.Level, error) {
	switch ll {
	case DISABLED:
		return zerolog.Disabled, nil
	case TRACE:
		return zerolog.TraceLevel, nil
	}
	if index := slices.Index(Levels, ll); index >= 0 {
		return zerolog.Level(index), nil
	}
	return zerolog.NoLevel, fmt.Errorf("invalid log level (options: %s)", Levels)
}
