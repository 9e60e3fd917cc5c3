package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lydakis/cadmcp/internal/tools"
)

type toolListEntry struct {
	Name        string         `json:"name" yaml:"name"`
	Title       string         `json:"title,omitempty" yaml:"title,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	ReadOnly    bool           `json:"read_only" yaml:"read_only"`
	Destructive bool           `json:"destructive" yaml:"destructive"`
	InputSchema map[string]any `json:"input_schema" yaml:"input_schema"`
}

func newToolListEntry(spec tools.Spec) toolListEntry {
	schema := spec.InputSchema()
	input := map[string]any{
		"type":       schema.Type,
		"properties": schema.Properties,
	}
	if len(schema.Required) > 0 {
		input["required"] = schema.Required
	}
	return toolListEntry{
		Name:        string(spec.Command),
		Title:       spec.Title,
		Description: spec.Description,
		ReadOnly:    spec.ReadOnly,
		Destructive: spec.Destructive,
		InputSchema: input,
	}
}

func writeToolListText(w io.Writer, entries []toolListEntry) error {
	for _, entry := range entries {
		line := entry.Name
		if desc := strings.TrimSpace(entry.Description); desc != "" {
			line += "\t" + desc
		}
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return fmt.Errorf("writing tool list output: %w", err)
		}
	}
	return nil
}

func writeStructured(w io.Writer, mode outputMode, v any) error {
	switch mode {
	case outputModeYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("writing YAML output: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("writing JSON output: %w", err)
		}
		return nil
	}
}
