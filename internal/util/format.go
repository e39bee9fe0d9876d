package util

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DataFormat is the output format of the listing commands. It implements
// pflag.Value so it can be used directly as a flag.
type DataFormat string

const (
	FORMAT_LIST DataFormat = "list"
	FORMAT_JSON DataFormat = "json"
	FORMAT_YAML DataFormat = "yaml"
)

func (df DataFormat) String() string {
	return string(df)
}

func (df *DataFormat) Set(v string) error {
	switch DataFormat(v) {
	case FORMAT_LIST, FORMAT_JSON, FORMAT_YAML:
		*df = DataFormat(v)
		return nil
	default:
		return fmt.Errorf("must be one of %v", []DataFormat{FORMAT_LIST, FORMAT_JSON, FORMAT_YAML})
	}
}

func (df DataFormat) Type() string {
	return "DataFormat"
}

// MarshalData() encodes data as JSON or YAML. FORMAT_LIST is left to the
// caller, which knows how to print one line per item.
func MarshalData(data any, outFormat DataFormat) ([]byte, error) {
	switch outFormat {
	case FORMAT_JSON:
		b, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal to JSON: %w", err)
		}
		return append(b, '\n'), nil
	case FORMAT_YAML:
		b, err := yaml.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal to YAML: %w", err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("cannot marshal to %q", outFormat)
}
