package tools

import (
	"math"
	"unicode/utf8"
)

// ParamType is the JSON schema type of a parameter.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
	TypeNumber  ParamType = "number"
)

// Param declares one named argument of a tool.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	// Required parameters have no default and must be supplied.
	Required bool
	// Default is filled in when the caller omits the parameter. A parameter
	// that is neither required nor defaulted is sent only when supplied.
	Default any

	// String length bounds, in code points. Zero MaxLength is unbounded.
	MinLength int
	MaxLength int

	// Numeric bounds. ExclusiveMinimum makes Minimum a strict bound.
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum bool
}

// Optional reports whether the parameter may be absent from the wire.
func (p Param) Optional() bool {
	return !p.Required && p.Default == nil
}

// check enforces the declared bounds on an already coerced value.
func (p Param) check(value any) error {
	switch p.Type {
	case TypeString:
		s, ok := value.(string)
		if !ok {
			return argTypeError(p.Name, "string", value)
		}
		n := utf8.RuneCountInString(s)
		if n < p.MinLength {
			if p.MinLength == 1 {
				return argErrorf(p.Name, "must not be empty")
			}
			return argErrorf(p.Name, "must be at least %d characters", p.MinLength)
		}
		if p.MaxLength > 0 && n > p.MaxLength {
			return argErrorf(p.Name, "must be at most %d characters, got %d", p.MaxLength, n)
		}
		return nil
	case TypeInteger:
		i, ok := value.(int64)
		if !ok {
			return argTypeError(p.Name, "integer", value)
		}
		return p.checkRange(float64(i))
	case TypeNumber:
		f, ok := value.(float64)
		if !ok {
			return argTypeError(p.Name, "number", value)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return argErrorf(p.Name, "must be a finite number")
		}
		return p.checkRange(f)
	default:
		return argErrorf(p.Name, "has unsupported type %q", p.Type)
	}
}

func (p Param) checkRange(v float64) error {
	if p.Minimum != nil {
		if p.ExclusiveMinimum && v <= *p.Minimum {
			return argErrorf(p.Name, "must be greater than %s", formatBound(*p.Minimum))
		}
		if !p.ExclusiveMinimum && v < *p.Minimum {
			return argErrorf(p.Name, "must be at least %s", formatBound(*p.Minimum))
		}
	}
	if p.Maximum != nil && v > *p.Maximum {
		return argErrorf(p.Name, "must be at most %s", formatBound(*p.Maximum))
	}
	return nil
}

func bound(v float64) *float64 { return &v }
