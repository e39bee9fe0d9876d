package parse

import (
	"regexp"
	"strings"
)

// Payload encryption classes. The PE value carries a trailing space so the
// three values line up in the summary output.
const (
	EncryptionPE      = "PE "
	EncryptionNPE     = "NPE"
	EncryptionUnknown = "UNK"
)

var (
	softwareRe = regexp.MustCompile(`^Cisco IOS .*Software.*Version (.*)$`)
	modelRe    = regexp.MustCompile(`(?i)^Cisco (.*) processor `)
	isrTagRe   = regexp.MustCompile(` ISR Software .([\w\-_]+).`)
)

// VersionResult holds the fields extracted from "show version".
type VersionResult struct {
	Software   string
	Model      string
	Encryption string
}

// HasSoftware reports whether a software version line was found.
func (v VersionResult) HasSoftware() bool { return v.Software != "" }

// HasModel reports whether a processor (model) line was found.
func (v VersionResult) HasModel() bool { return v.Model != "" }

// Version() parses the output of "show version". Only the first match of
// each pattern is kept. The encryption class is derived from the
// "ISR Software (<tag>)" build tag only and stays UNK without one.
func Version(text string) VersionResult {
	result := VersionResult{Encryption: EncryptionUnknown}
	var tagFound bool

	for _, line := range lines(text) {
		if result.Software == "" {
			if m := softwareRe.FindStringSubmatch(line); m != nil {
				result.Software = m[1]
			}
		}
		if result.Model == "" {
			if m := modelRe.FindStringSubmatch(line); m != nil {
				result.Model = m[1]
			}
		}
		if !tagFound {
			if m := isrTagRe.FindStringSubmatch(line); m != nil {
				tagFound = true
				result.Encryption = EncryptionPE
				if strings.Contains(m[1], "_NPE") {
					result.Encryption = EncryptionNPE
				}
			}
		}
	}
	return result
}
