package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lydakis/cadmcp/internal/tools"
)

var reservedFlagNames = map[string]struct{}{
	"config":  {},
	"host":    {},
	"port":    {},
	"verbose": {},
	"quiet":   {},
	"help":    {},
}

func isReservedToolFlagName(name string) bool {
	_, ok := reservedFlagNames[name]
	return ok
}

func toolFlagName(name string) string {
	if isReservedToolFlagName(name) {
		return "--tool-" + name
	}
	return "--" + name
}

func printToolHelp(w io.Writer, spec tools.Spec) {
	fmt.Fprintf(w, "Usage: cadmcp call %s [FLAGS]\n", spec.Command)
	if spec.Description != "" {
		fmt.Fprintf(w, "\nDescription:\n  %s\n", spec.Description)
	}

	fmt.Fprintln(w, "\nTool flags:")
	if len(spec.Params) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, p := range spec.Params {
		fmt.Fprintf(w, "  %s <%s>%s\n", toolFlagName(p.Name), p.Type, paramSemantics(p))
		if p.Description != "" {
			fmt.Fprintf(w, "    %s\n", p.Description)
		}
		if c := paramConstraints(p); c != "" {
			fmt.Fprintf(w, "    %s\n", c)
		}
	}

	fmt.Fprintln(w, "\nGlobal flags:")
	fmt.Fprintln(w, "  --config <path>      Config file.")
	fmt.Fprintln(w, "  --host <host>        Executor host.")
	fmt.Fprintln(w, "  --port <port>        Executor port.")
	fmt.Fprintln(w, "  --verbose, -v        Print debug logs to stderr.")
	fmt.Fprintln(w, "  --quiet, -q          Suppress error output.")
	fmt.Fprintln(w, "  --help, -h           Show this help output.")
	fmt.Fprintln(w, "\nPrefix tool params that collide with global flags with --tool- (for example: --tool-host).")
	fmt.Fprintln(w, "Use -- to force all following flags to tool parameters.")

	fmt.Fprintln(w, "\nExamples:")
	for _, ex := range toolExamples(spec) {
		fmt.Fprintf(w, "  %s\n", ex)
	}
}

func paramSemantics(p tools.Param) string {
	switch {
	case p.Required:
		return " (required)"
	case p.Default != nil:
		return fmt.Sprintf(" (default: %s)", formatDefault(p.Default))
	default:
		return " (optional)"
	}
}

func paramConstraints(p tools.Param) string {
	var parts []string
	if p.MinLength > 0 || p.MaxLength > 0 {
		switch {
		case p.MaxLength == 0:
			parts = append(parts, fmt.Sprintf("length >= %d", p.MinLength))
		case p.MinLength == 0:
			parts = append(parts, fmt.Sprintf("length <= %d", p.MaxLength))
		default:
			parts = append(parts, fmt.Sprintf("length %d-%d", p.MinLength, p.MaxLength))
		}
	}
	if p.Minimum != nil {
		op := ">="
		if p.ExclusiveMinimum {
			op = ">"
		}
		parts = append(parts, fmt.Sprintf("%s %s", op, strconv.FormatFloat(*p.Minimum, 'g', -1, 64)))
	}
	if p.Maximum != nil {
		parts = append(parts, "<= "+strconv.FormatFloat(*p.Maximum, 'g', -1, 64))
	}
	return strings.Join(parts, ", ")
}

func formatDefault(v any) string {
	switch d := v.(type) {
	case string:
		return strconv.Quote(d)
	case float64:
		return strconv.FormatFloat(d, 'g', -1, 64)
	default:
		return fmt.Sprint(d)
	}
}

func toolExamples(spec tools.Spec) []string {
	base := "cadmcp call " + string(spec.Command)
	var flags, fields []string
	for _, p := range spec.Params {
		if !p.Required {
			continue
		}
		value := exampleValue(p)
		flags = append(flags, fmt.Sprintf("%s=%s", toolFlagName(p.Name), value))
		if p.Type == tools.TypeString {
			value = strconv.Quote(value)
		}
		fields = append(fields, fmt.Sprintf("%q:%s", p.Name, value))
	}
	if len(flags) == 0 {
		return []string{base}
	}
	return []string{
		base + " " + strings.Join(flags, " "),
		base + " '{" + strings.Join(fields, ",") + "}'",
	}
}

func exampleValue(p tools.Param) string {
	switch p.Type {
	case tools.TypeInteger:
		return "1"
	case tools.TypeNumber:
		if p.Minimum != nil && *p.Minimum >= 0 {
			return "1.0"
		}
		return "0.0"
	default:
		return "Example"
	}
}
