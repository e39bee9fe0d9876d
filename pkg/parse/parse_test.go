package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const showRun = "Building configuration...\n" +
	"\n" +
	"Current configuration : 1384 bytes\n" +
	"!\n" +
	"version 15.4\n" +
	"service timestamps debug datetime msec\n" +
	"!\n" +
	"hostname LAB-R1\n" +
	"!\n" +
	"interface GigabitEthernet0/0\n" +
	" ip address 10.0.0.1 255.255.255.0\n" +
	"!\n" +
	"end\n"

func TestRunningConfig(t *testing.T) {
	cfg, ok := RunningConfig(showRun)
	require.True(t, ok)
	assert.Equal(t, "LAB-R1", cfg.Hostname)
	assert.NotContains(t, cfg.Text, "Building configuration")
	assert.NotContains(t, cfg.Text, "Current configuration")
	assert.Contains(t, cfg.Text, "hostname LAB-R1\n")
	assert.True(t, len(cfg.Text) > 0 && cfg.Text[0] == '!', "config should start right after the headers")
}

func TestRunningConfigCRLF(t *testing.T) {
	cfg, ok := RunningConfig("Building configuration...\r\n\r\nhostname edge_1\r\nend\r\n")
	require.True(t, ok)
	assert.Equal(t, "edge_1", cfg.Hostname)
	assert.Equal(t, "hostname edge_1\nend\n", cfg.Text)
}

func TestRunningConfigSwitchName(t *testing.T) {
	text := "!Command: show running-config\n" +
		"!Running configuration last done at: Mon Apr 27 10:00:00 2020\n" +
		"!Time: Mon Apr 27 10:01:00 2020\n" +
		"\n" +
		"version 9.3(3)\n" +
		"switchname nx-core-1\n" +
		"hostname ignored-second-match\n"
	cfg, ok := RunningConfig(text)
	require.True(t, ok)
	assert.Equal(t, "nx-core-1", cfg.Hostname)
	assert.NotContains(t, cfg.Text, "!Command")
	assert.NotContains(t, cfg.Text, "!Time")
}

func TestRunningConfigWithoutHostname(t *testing.T) {
	_, ok := RunningConfig("% Invalid input detected at '^' marker.\n")
	assert.False(t, ok)

	_, ok = RunningConfig("")
	assert.False(t, ok)

	// hostname must be the whole line
	_, ok = RunningConfig(" hostname indented\n")
	assert.False(t, ok)
}

func TestNeighborsDisabled(t *testing.T) {
	n := Neighbors("% CDP is not enabled\n")
	assert.False(t, n.Enabled)
	assert.Equal(t, 0, n.Peers())
	assert.Equal(t, "CDP is OFF", n.Status())
}

const cdpHeader = "Capability Codes: R - Router, T - Trans Bridge, B - Source Route Bridge\n" +
	"                  S - Switch, H - Host, I - IGMP, r - Repeater, P - Phone\n" +
	"\n" +
	"Device ID        Local Intrfce     Holdtme    Capability  Platform  Port ID\n"

func TestNeighborsThreeEntries(t *testing.T) {
	text := cdpHeader +
		"R2               Gig 0/1           160          R S I   2811      Gig 0/0\n" +
		"R3               Gig 0/2           155          R S I   2811      Gig 0/0\n" +
		"SW1              Gig 0/3           170          S I     WS-C2960  Gig 0/24\n" +
		"\n" +
		"Total cdp entries displayed : 3\n"

	n := Neighbors(text)
	require.True(t, n.Enabled)
	require.Equal(t, 3, n.Peers())
	assert.Equal(t, "CDP is ON,3 peers", n.Status())

	first := n.Entries[0]
	assert.Equal(t, "R2", first.DeviceID)
	assert.Equal(t, "Gig", first.LocalInterface)
	assert.Equal(t, "0/1", first.InterfaceNumber)
	assert.Equal(t, "160", first.HoldTime)
	assert.Equal(t, "R S I   2811      Gig 0/0", first.Rest)
}

func TestNeighborsContinuationLines(t *testing.T) {
	text := cdpHeader +
		"very-long-distribution-switch.example.net\n" +
		"                 Gig 0/1           151          S I     WS-C3750  Gig 1/0/1\n" +
		"R3               Gig 0/1           155          R S I   2811      Gig 0/0\n"

	n := Neighbors(text)
	require.Equal(t, 2, n.Peers(), "both neighbors share Gig 0/1 and are counted")
	assert.Equal(t, "very-long-distribution-switch.example.net", n.Entries[0].DeviceID)
	assert.Equal(t, "Gig", n.Entries[0].LocalInterface)
	assert.Equal(t, "0/1", n.Entries[0].InterfaceNumber)
	assert.Equal(t, "151", n.Entries[0].HoldTime)
}

func TestNeighborsInterfaceNumberSwap(t *testing.T) {
	text := cdpHeader +
		"R2               Gig0/1            160          R S I   2811      Gig 0/0\n"

	n := Neighbors(text)
	require.Equal(t, 1, n.Peers())
	entry := n.Entries[0]
	assert.Equal(t, "Gig0/1", entry.LocalInterface)
	assert.Equal(t, "1", entry.InterfaceNumber)
	assert.Equal(t, "160", entry.HoldTime)
}

func TestNeighborsNXOSHeader(t *testing.T) {
	text := "Device-ID          Local Intrfce  Hldtme Capability  Platform      Port ID\n" +
		"leaf-1(FOC1234)    mgmt0          179    R S I s   N9K-C93180YC  mgmt0\n"

	n := Neighbors(text)
	assert.True(t, n.Enabled)
	assert.Equal(t, 1, n.Peers())
}

func TestNeighborsNoHeader(t *testing.T) {
	n := Neighbors("")
	assert.True(t, n.Enabled)
	assert.Equal(t, 0, n.Peers())
	assert.Equal(t, "CDP is ON,0 peers", n.Status())
}

func TestVersion(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		software   string
		model      string
		encryption string
	}{
		{
			name: "npe image",
			text: "Cisco IOS Software, ISR Software (X7_NPE-ADVENTERPRISEK9-M), Version 15.4(3)M2, RELEASE SOFTWARE (fc2)\n" +
				"Cisco CISCO2901/K9 (revision 1.0) processor with 483328K/40960K bytes of memory.\n",
			software:   "15.4(3)M2, RELEASE SOFTWARE (fc2)",
			model:      "CISCO2901/K9 (revision 1.0)",
			encryption: EncryptionNPE,
		},
		{
			name:       "pe image",
			text:       "Cisco IOS Software, ISR Software (X7-ADVENTERPRISEK9-M), Version 15.4(3)M2, RELEASE SOFTWARE (fc2)\n",
			software:   "15.4(3)M2, RELEASE SOFTWARE (fc2)",
			encryption: "PE ",
		},
		{
			name: "no isr line",
			text: "Cisco IOS Software, C2900 Software (C2900-UNIVERSALK9-M), Version 15.1(4)M4, RELEASE SOFTWARE (fc1)\n" +
				"cisco WS-C2960-24TT-L (PowerPC405) processor (revision B0) with 65536K bytes of memory.\n",
			software:   "15.1(4)M4, RELEASE SOFTWARE (fc1)",
			model:      "WS-C2960-24TT-L (PowerPC405)",
			encryption: EncryptionUnknown,
		},
		{
			name:       "empty",
			text:       "",
			encryption: EncryptionUnknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Version(tt.text)
			assert.Equal(t, tt.software, v.Software)
			assert.Equal(t, tt.model, v.Model)
			assert.Equal(t, tt.encryption, v.Encryption)
			assert.Equal(t, tt.software != "", v.HasSoftware())
			assert.Equal(t, tt.model != "", v.HasModel())
		})
	}
}

func TestVersionFirstMatchWins(t *testing.T) {
	text := "Cisco IOS XE Software, Version 16.09.04\n" +
		"Cisco IOS Software [Fuji], ISR Software (X86_64_LINUX_IOSD-UNIVERSALK9-M), Version 16.9.4, RELEASE SOFTWARE (fc2)\n" +
		"cisco ISR4331/K9 (1RU) processor with 1795979K/6147K bytes of memory.\n" +
		"cisco ISR4451/K9 (2RU) processor with 1K bytes of memory.\n"

	v := Version(text)
	assert.Equal(t, "16.09.04", v.Software)
	assert.Equal(t, "ISR4331/K9 (1RU)", v.Model)
	assert.Equal(t, EncryptionPE, v.Encryption)
}

func TestClockStatus(t *testing.T) {
	synced := ClockStatus("Clock is synchronized, stratum 3, reference is 192.0.2.1\nnominal freq is 250.0000 Hz\n")
	assert.True(t, synced.Synchronized())
	assert.Equal(t, ClockInSync, synced.Message())

	unsynced := ClockStatus("Clock is unsynchronized, stratum 16, no reference clock\n")
	assert.Equal(t, "unsynchronized", unsynced.State)
	assert.Equal(t, ClockUnknown, unsynced.Message())

	missing := ClockStatus("%NTP is not enabled.\n")
	assert.Equal(t, "", missing.State)
	assert.Equal(t, ClockUnknown, missing.Message())
}

func TestPingSuccessRate(t *testing.T) {
	text := "Type escape sequence to abort.\n" +
		"Sending 4, 100-byte ICMP Echos to 192.0.2.1, timeout is 2 seconds:\n" +
		"!.!.\n" +
		"Success rate is 50 percent (2/4), round-trip min/avg/max = 1/2/4 ms\n"
	assert.Equal(t, 50, PingSuccessRate(text))
	assert.Equal(t, 0, PingSuccessRate("% Unrecognized host or address.\n"))
	assert.Equal(t, 100, PingSuccessRate("Success rate is 100 percent (4/4)\r\n"))
}

func TestHasInvalidInput(t *testing.T) {
	assert.True(t, HasInvalidInput("ntp serve 192.0.2.1\n% Invalid input detected at '^' marker.\n"))
	assert.False(t, HasInvalidInput("R1(config)#ntp server 192.0.2.1\nR1(config)#end\n"))
}
