package telemetry

import (
	"sort"
	"strings"
)

// EnvOTLPHeaders adds exporter headers as comma-separated name=value pairs.
// Entries override configured headers with the same name in any casing.
const EnvOTLPHeaders = "CADMCP_OTLP_HEADERS"

// exporterHeaders merges configured headers with the env list.
func exporterHeaders(configured map[string]string, envList string) map[string]string {
	out := mergeHeaders(nil, configured)
	return mergeHeaders(out, parseHeaderList(envList))
}

// parseHeaderList parses "a=1,b=2". Malformed entries are skipped.
func parseHeaderList(raw string) map[string]string {
	out := map[string]string{}
	for _, entry := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(entry, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			continue
		}
		out[name] = strings.TrimSpace(value)
	}
	return out
}

// mergeHeaders applies src over dst. Names match case-insensitively and the
// casing from src wins.
func mergeHeaders(dst, src map[string]string) map[string]string {
	if dst == nil {
		dst = make(map[string]string, len(src))
	}

	names := make([]string, 0, len(src))
	for name := range src {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		for existing := range dst {
			if strings.EqualFold(existing, trimmed) {
				delete(dst, existing)
			}
		}
		dst[trimmed] = src[name]
	}
	return dst
}
