package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cznic/mathutil"
)

const (
	ClockInSync  = "Clock in Sync"
	ClockUnknown = "Clock UNKNOWN"
)

var (
	clockRe       = regexp.MustCompile(`^Clock is (\w+)`)
	successRateRe = regexp.MustCompile(`^Success rate is (\d+) percent`)
	invalidRe     = regexp.MustCompile(`% Invalid`)
)

// ClockStatusResult is the clock state reported by "show ntp status".
type ClockStatusResult struct {
	// State is the word following "Clock is", empty when the line is missing.
	State string
}

func (c ClockStatusResult) Synchronized() bool {
	return c.State == "synchronized"
}

// Message returns the human readable clock state for the summary line.
func (c ClockStatusResult) Message() string {
	if c.Synchronized() {
		return ClockInSync
	}
	return ClockUnknown
}

// ClockStatus() parses the first "Clock is <state>" line of "show ntp status".
func ClockStatus(text string) ClockStatusResult {
	for _, line := range lines(text) {
		if m := clockRe.FindStringSubmatch(line); m != nil {
			return ClockStatusResult{State: m[1]}
		}
	}
	return ClockStatusResult{}
}

// PingSuccessRate() returns the percentage from the "Success rate is N percent"
// line of a ping, or 0 when the ping never got that far.
func PingSuccessRate(text string) int {
	for _, line := range lines(text) {
		m := successRateRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		rate, err := strconv.Atoi(m[1])
		if err != nil {
			return 0
		}
		return mathutil.Clamp(rate, 0, 100)
	}
	return 0
}

// HasInvalidInput reports whether the device rejected a command.
func HasInvalidInput(text string) bool {
	return invalidRe.MatchString(text)
}
