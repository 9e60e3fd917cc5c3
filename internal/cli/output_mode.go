package cli

import "fmt"

type outputMode int

const (
	outputModeText outputMode = iota
	outputModeJSON
	outputModeYAML
)

func parseOutputMode(raw string) (outputMode, error) {
	switch raw {
	case "", "text":
		return outputModeText, nil
	case "json":
		return outputModeJSON, nil
	case "yaml", "yml":
		return outputModeYAML, nil
	default:
		return outputModeText, fmt.Errorf("invalid output format %q (want text, json or yaml)", raw)
	}
}
