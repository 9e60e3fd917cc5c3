package tools

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// compile checks raw caller arguments against the spec's parameters and
// returns coerced values with defaults filled in. A null value counts as
// absent.
func (s Spec) compile(raw map[string]any) (values, error) {
	params := make(map[string]Param, len(s.Params))
	for _, p := range s.Params {
		params[p.Name] = p
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make(values, len(s.Params))
	for _, key := range keys {
		p, ok := params[key]
		if !ok {
			return nil, argErrorf(key, "is not a parameter of %s", s.Command)
		}
		if raw[key] == nil {
			continue
		}
		coerced, err := coerceValue(raw[key], p)
		if err != nil {
			return nil, err
		}
		out[key] = coerced
	}

	for _, p := range s.Params {
		if _, ok := out[p.Name]; ok {
			continue
		}
		switch {
		case p.Required:
			return nil, argErrorf(p.Name, "is required")
		case p.Default != nil:
			out[p.Name] = p.Default
		}
	}
	return out, nil
}

func coerceValue(value any, p Param) (any, error) {
	switch p.Type {
	case TypeString:
		s, ok := value.(string)
		if !ok {
			return nil, argTypeError(p.Name, "string", value)
		}
		return s, nil
	case TypeInteger:
		return coerceInteger(value, p.Name)
	case TypeNumber:
		return coerceNumber(value, p.Name)
	default:
		return value, nil
	}
}

func coerceInteger(value any, name string) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float32:
		return integralFloat(float64(v), name)
	case float64:
		return integralFloat(v, name)
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0, argErrorf(name, "must be integer: %v", err)
		}
		return i, nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, argErrorf(name, "must be integer: %v", err)
		}
		return i, nil
	default:
		return 0, argTypeError(name, "integer", value)
	}
}

func integralFloat(v float64, name string) (int64, error) {
	if math.Trunc(v) != v || v < math.MinInt64 || v >= math.MaxInt64 {
		return 0, argErrorf(name, "must be integer")
	}
	return int64(v), nil
}

func coerceNumber(value any, name string) (float64, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, argErrorf(name, "must be number: %v", err)
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, argErrorf(name, "must be number: %v", err)
		}
		return f, nil
	default:
		return 0, argTypeError(name, "number", value)
	}
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// values holds coerced arguments keyed by parameter name.
type values map[string]any

func (v values) str(name string) string {
	s, _ := v[name].(string)
	return s
}

func (v values) optStr(name string) Opt[string] {
	s, ok := v[name].(string)
	if !ok {
		return None[string]()
	}
	return Some(s)
}

func (v values) num(name string) float64 {
	f, _ := v[name].(float64)
	return f
}

func (v values) integer(name string) int64 {
	i, _ := v[name].(int64)
	return i
}
