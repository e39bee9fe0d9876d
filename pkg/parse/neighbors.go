package parse

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	cdpDisabledRe = regexp.MustCompile(`CDP is not enabled`)
	cdpHeaderRe   = regexp.MustCompile(`Device[ -]ID\s+Local Intrfce\s+H(?:old|ld)?tme\s+Capability\s+Platform\s+Port ID`)
	cdpFooterRe   = regexp.MustCompile(`^Total cdp entries displayed`)
	continuedRe   = regexp.MustCompile(`^\s{2,}`)
	fieldSepRe    = regexp.MustCompile(`\s+`)
	trailingNumRe = regexp.MustCompile(`\d+$`)
)

// NeighborEntry is one logical row of the "show cdp neighbors" table.
type NeighborEntry struct {
	DeviceID        string
	LocalInterface  string
	InterfaceNumber string
	HoldTime        string
	Rest            string
}

// NeighborsResult holds the CDP state of a device.
type NeighborsResult struct {
	Enabled bool
	Entries []NeighborEntry
}

// Peers returns the number of neighbor entries. Several neighbors may share
// one local port, each of them is counted.
func (n NeighborsResult) Peers() int {
	return len(n.Entries)
}

// Status renders the CDP state for the device summary line.
func (n NeighborsResult) Status() string {
	if !n.Enabled {
		return "CDP is OFF"
	}
	return fmt.Sprintf("CDP is ON,%d peers", n.Peers())
}

// Neighbors() parses the output of "show cdp neighbors".
func Neighbors(text string) NeighborsResult {
	if cdpDisabledRe.MatchString(text) {
		return NeighborsResult{Enabled: false}
	}

	all := lines(text)
	header := -1
	for i, line := range all {
		if cdpHeaderRe.MatchString(line) {
			header = i
			break
		}
	}
	result := NeighborsResult{Enabled: true}
	if header < 0 {
		return result
	}

	for _, row := range mergeContinuations(all[header+1:]) {
		result.Entries = append(result.Entries, splitNeighbor(row))
	}
	return result
}

// mergeContinuations folds the table rows into logical entries. Long device
// IDs are printed on their own line and the rest of the entry follows on an
// indented line, which belongs to the entry right before it.
func mergeContinuations(rows []string) []string {
	var merged []string
	for _, row := range rows {
		if strings.TrimSpace(row) == "" || cdpFooterRe.MatchString(row) {
			continue
		}
		if continuedRe.MatchString(row) && len(merged) > 0 {
			merged[len(merged)-1] += " " + strings.TrimLeft(row, " \t")
			continue
		}
		merged = append(merged, row)
	}
	return merged
}

// splitNeighbor splits a logical entry on whitespace. The local interface is
// normally printed as "Gig 0/1"; when the type and number run together
// ("Gig0/1") every following column shifts left by one, so the trailing
// digits are taken as the interface number and the shifted value as the
// hold time.
func splitNeighbor(row string) NeighborEntry {
	var fields [5]string
	copy(fields[:], fieldSepRe.Split(strings.TrimSpace(row), 5))

	entry := NeighborEntry{
		DeviceID:        fields[0],
		LocalInterface:  fields[1],
		InterfaceNumber: fields[2],
		HoldTime:        fields[3],
		Rest:            fields[4],
	}
	if num := trailingNumRe.FindString(entry.LocalInterface); num != "" {
		entry.HoldTime = entry.InterfaceNumber
		entry.InterfaceNumber = num
	}
	return entry
}
