// Package parse turns the raw text of a single CLI command into structured
// fields. Every function in this package is a pure function of its input
// text so they can be tested without a device.
//
// Each parser reports whether the data it looks for was found at all, which
// lets callers degrade to a placeholder instead of failing the whole device:
//
//	cfg, ok := parse.RunningConfig(output)
//	if !ok {
//		// no hostname line, the output is not a usable running-config
//	}
package parse

import (
	"regexp"
	"strings"
)

var (
	hostnameRe = regexp.MustCompile(`^(switch|host)name ([\w\-_]+)$`)

	// header lines printed before the configuration itself
	configHeaders = []*regexp.Regexp{
		regexp.MustCompile(`Building configuration\.\.\.\n\n?`),
		regexp.MustCompile(`Current configuration : \d+ bytes\n`),
		regexp.MustCompile(`(?m)^!Command: .*\n`),
		regexp.MustCompile(`(?m)^!Running configuration last done at: .*\n`),
		regexp.MustCompile(`(?m)^!Time: .*\n`),
	}
)

// RunningConfigResult is the cleaned output of "show running-config".
type RunningConfigResult struct {
	Hostname string
	Text     string
}

// RunningConfig() extracts the hostname from the output of "show running-config"
// and strips the banner lines printed before the configuration.
//
// Returns false when no hostname (or switchname) line exists, meaning the output
// is not a usable configuration.
func RunningConfig(text string) (RunningConfigResult, bool) {
	text = normalize(text)

	var hostname string
	for _, line := range strings.Split(text, "\n") {
		if m := hostnameRe.FindStringSubmatch(line); m != nil {
			hostname = m[2]
			break
		}
	}
	if hostname == "" {
		return RunningConfigResult{}, false
	}

	for _, re := range configHeaders {
		text = re.ReplaceAllString(text, "")
	}
	return RunningConfigResult{Hostname: hostname, Text: text}, true
}

// normalize converts CRLF line endings coming from a PTY into plain newlines.
func normalize(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}

// lines splits text into lines with any trailing carriage return removed.
func lines(text string) []string {
	return strings.Split(normalize(text), "\n")
}
