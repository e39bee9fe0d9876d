package device

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Profile describes the CLI dialect spoken by one kind of device.
type Profile struct {
	Kind string

	// Prompt matches the last line of the output once the device is ready
	// for the next command, in any mode (user, privileged, config).
	Prompt *regexp.Regexp

	// PasswordPrompt matches the prompt printed by the enable command.
	PasswordPrompt *regexp.Regexp

	DisablePaging string
	Enable        string
	ConfigEnter   string
	ConfigExit    string

	ShowRunningConfig string
	ShowNeighbors     string
	ShowVersion       string
	ShowNTPStatus     string

	// Ping formats the reachability probe for a host and a packet count.
	Ping func(host string, count int) string
}

// PrivilegedPrompt reports whether prompt is a privileged exec prompt.
func (p *Profile) PrivilegedPrompt(prompt string) bool {
	return strings.HasSuffix(strings.TrimSpace(prompt), "#")
}

var (
	iosPrompt      = regexp.MustCompile(`^[\w.\-@/:()]{1,64}[>#]\s?$`)
	passwordPrompt = regexp.MustCompile(`(?i)password:\s?$`)
)

func iosPing(host string, count int) string {
	return fmt.Sprintf("ping %s repeat %d", host, count)
}

func nxosPing(host string, count int) string {
	return fmt.Sprintf("ping %s count %d", host, count)
}

func iosProfile(kind string) *Profile {
	return &Profile{
		Kind:              kind,
		Prompt:            iosPrompt,
		PasswordPrompt:    passwordPrompt,
		DisablePaging:     "terminal length 0",
		Enable:            "enable",
		ConfigEnter:       "configure terminal",
		ConfigExit:        "end",
		ShowRunningConfig: "show running-config",
		ShowNeighbors:     "show cdp neighbors",
		ShowVersion:       "show version",
		ShowNTPStatus:     "show ntp status",
		Ping:              iosPing,
	}
}

var profiles = map[string]*Profile{
	"cisco_ios": iosProfile("cisco_ios"),
	"cisco_xe":  iosProfile("cisco_xe"),
	"cisco_nxos": {
		Kind:              "cisco_nxos",
		Prompt:            iosPrompt,
		PasswordPrompt:    passwordPrompt,
		DisablePaging:     "terminal length 0",
		ConfigEnter:       "configure terminal",
		ConfigExit:        "end",
		ShowRunningConfig: "show running-config",
		ShowNeighbors:     "show cdp neighbors",
		ShowVersion:       "show version",
		ShowNTPStatus:     "show ntp status",
		Ping:              nxosPing,
	},
}

// LookupProfile returns the profile registered for a device-kind tag.
func LookupProfile(kind string) (*Profile, error) {
	p, ok := profiles[strings.ToLower(kind)]
	if !ok {
		return nil, fmt.Errorf("unsupported device kind %q (supported: %s)", kind, strings.Join(Kinds(), ", "))
	}
	return p, nil
}

// Kinds returns the supported device-kind tags, sorted.
func Kinds() []string {
	kinds := make([]string, 0, len(profiles))
	for k := range profiles {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
