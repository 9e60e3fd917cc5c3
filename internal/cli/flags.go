package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// toolCallArgs is the parsed command line of cadmcp call. Root flags are
// parsed here too because call takes arbitrary tool flags.
type toolCallArgs struct {
	tool     string
	toolArgs map[string]any

	configPath string
	host       string
	port       int
	verbose    bool
	quiet      bool
	help       bool
}

func parseToolCallArgs(args []string, stdin io.Reader, stdinIsTTY bool) (*toolCallArgs, error) {
	parsed := &toolCallArgs{
		toolArgs: make(map[string]any),
	}

	var positionalJSON string
	hasToolFlags := false
	afterSeparator := false

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" && !afterSeparator {
			afterSeparator = true
			continue
		}

		if !afterSeparator {
			switch {
			case arg == "-v" || arg == "--verbose":
				parsed.verbose = true
				continue
			case arg == "-q" || arg == "--quiet":
				parsed.quiet = true
				continue
			case arg == "-h" || arg == "--help":
				parsed.help = true
				continue
			}

			if value, ok, err := rootFlagValue(args, &i, "config"); ok {
				if err != nil {
					return nil, err
				}
				parsed.configPath = value
				continue
			}
			if value, ok, err := rootFlagValue(args, &i, "host"); ok {
				if err != nil {
					return nil, err
				}
				parsed.host = value
				continue
			}
			if value, ok, err := rootFlagValue(args, &i, "port"); ok {
				if err != nil {
					return nil, err
				}
				port, err := strconv.Atoi(value)
				if err != nil {
					return nil, fmt.Errorf("invalid --port value %q", value)
				}
				parsed.port = port
				continue
			}
		}

		if strings.HasPrefix(arg, "--") {
			if parsed.tool == "" {
				return nil, fmt.Errorf("tool flag %s given before the tool name", arg)
			}
			flagArg := arg
			if strings.HasPrefix(arg, "--tool-") {
				flagArg = "--" + strings.TrimPrefix(arg, "--tool-")
			}
			if positionalJSON != "" {
				return nil, fmt.Errorf("cannot mix positional JSON arguments with --flags")
			}

			key, value, err := parseLongFlagValue(args, &i, flagArg)
			if err != nil {
				return nil, err
			}
			if _, dup := parsed.toolArgs[key]; dup {
				return nil, fmt.Errorf("argument --%s given more than once", key)
			}
			parsed.toolArgs[key] = value
			hasToolFlags = true
			continue
		}

		if strings.HasPrefix(arg, "-") && len(arg) > 1 {
			return nil, fmt.Errorf("unsupported short flag: %s", arg)
		}

		if parsed.tool == "" {
			parsed.tool = arg
			continue
		}
		if hasToolFlags {
			return nil, fmt.Errorf("unexpected positional argument: %s", arg)
		}
		if positionalJSON != "" {
			return nil, fmt.Errorf("multiple positional arguments are not supported")
		}
		positionalJSON = arg
	}

	if positionalJSON != "" {
		obj, err := parseJSONObject(positionalJSON)
		if err != nil {
			return nil, err
		}
		parsed.toolArgs = obj
		return parsed, nil
	}

	if parsed.tool != "" && !parsed.help && !hasToolFlags && !stdinIsTTY && stdin != nil {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		trimmed := strings.TrimSpace(string(data))
		if trimmed != "" {
			obj, err := parseJSONObject(trimmed)
			if err != nil {
				return nil, err
			}
			parsed.toolArgs = obj
		}
	}

	return parsed, nil
}

// merge layers the call's root flags over the ones cobra parsed before the
// subcommand name.
func (p *toolCallArgs) merge(base *globalOptions) globalOptions {
	out := *base
	if p.configPath != "" {
		out.configPath = p.configPath
	}
	if p.host != "" {
		out.host = p.host
	}
	if p.port != 0 {
		out.port = p.port
	}
	if p.verbose {
		out.verbose = true
	}
	return out
}

// rootFlagValue consumes --name value or --name=value at args[*idx].
func rootFlagValue(args []string, idx *int, name string) (string, bool, error) {
	arg := args[*idx]
	flag := "--" + name
	if strings.HasPrefix(arg, flag+"=") {
		return strings.TrimPrefix(arg, flag+"="), true, nil
	}
	if arg != flag {
		return "", false, nil
	}
	if *idx+1 >= len(args) {
		return "", true, fmt.Errorf("missing value for %s", flag)
	}
	*idx = *idx + 1
	return args[*idx], true, nil
}

func parseJSONObject(raw string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("invalid JSON arguments: %w", err)
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("JSON arguments must be an object")
	}
	return obj, nil
}

func parseLongFlagValue(args []string, idx *int, token string) (string, any, error) {
	body := strings.TrimPrefix(token, "--")
	if body == "" {
		return "", nil, fmt.Errorf("invalid flag: %s", token)
	}

	if eq := strings.Index(body, "="); eq >= 0 {
		key := body[:eq]
		value := body[eq+1:]
		if key == "" {
			return "", nil, fmt.Errorf("invalid flag: %s", token)
		}
		return key, value, nil
	}

	key := body
	if *idx+1 < len(args) && !strings.HasPrefix(args[*idx+1], "--") {
		*idx = *idx + 1
		return key, args[*idx], nil
	}

	return key, true, nil
}
