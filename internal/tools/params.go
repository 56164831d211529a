package tools

import (
	"strconv"
	"strings"
)

// ParamType is the declared semantic type of one tool parameter.
type ParamType string

const (
	TypeString     ParamType = "string"
	TypeBoolean    ParamType = "boolean"
	TypeInteger    ParamType = "integer"
	TypeStringList ParamType = "string_list"
)

// ParamSpec declares one tool parameter. Default applies only when
// Required is false. For integer parameters, Min is a validation floor
// (values below it are rejected) and Max, when positive, is a silent
// clamp ceiling.
type ParamSpec struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Default     any
	Min         int
	Max         int
}

// Args holds normalized, typed arguments for one handler invocation.
type Args map[string]any

// Has reports whether the argument was supplied or defaulted.
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// String returns the string argument, or "" when absent.
func (a Args) String(name string) string {
	v, _ := a[name].(string)
	return v
}

// Bool returns the boolean argument, or false when absent.
func (a Args) Bool(name string) bool {
	v, _ := a[name].(bool)
	return v
}

// Int returns the integer argument, or 0 when absent.
func (a Args) Int(name string) int {
	v, _ := a[name].(int)
	return v
}

// StringList returns the string-list argument, or nil when absent.
func (a Args) StringList(name string) []string {
	v, _ := a[name].([]string)
	return v
}

// Normalize validates raw caller arguments against the declared specs and
// produces a typed argument map. Coercion is deliberately narrow: booleans
// accept native bools or the strings "true"/"false" (case-insensitive),
// integers accept whole numbers or decimal-digit strings, and string lists
// are never auto-wrapped from a single string. Unknown argument names are
// rejected rather than silently dropped.
func Normalize(specs []ParamSpec, raw map[string]any) (Args, error) {
	declared := make(map[string]bool, len(specs))
	for _, spec := range specs {
		declared[spec.Name] = true
	}
	for name := range raw {
		if !declared[name] {
			return nil, Errorf(KindValidation, "unknown parameter %q", name)
		}
	}

	args := make(Args, len(specs))
	for _, spec := range specs {
		rv, present := raw[spec.Name]
		if !present || rv == nil {
			if spec.Required {
				return nil, Errorf(KindValidation, "parameter %q is required", spec.Name)
			}
			if spec.Default != nil {
				args[spec.Name] = spec.Default
			}
			continue
		}

		v, err := coerce(spec, rv)
		if err != nil {
			return nil, err
		}
		args[spec.Name] = v
	}
	return args, nil
}

func coerce(spec ParamSpec, rv any) (any, error) {
	switch spec.Type {
	case TypeString:
		s, ok := rv.(string)
		if !ok {
			return nil, Errorf(KindValidation, "parameter %q must be a string", spec.Name)
		}
		return s, nil

	case TypeBoolean:
		return coerceBool(spec.Name, rv)

	case TypeInteger:
		n, err := coerceInt(spec.Name, rv)
		if err != nil {
			return nil, err
		}
		if n < spec.Min {
			return nil, Errorf(KindValidation, "parameter %q must be at least %d, got %d", spec.Name, spec.Min, n)
		}
		if spec.Max > 0 && n > spec.Max {
			n = spec.Max
		}
		return n, nil

	case TypeStringList:
		return coerceStringList(spec.Name, rv)

	default:
		return nil, Errorf(KindInternal, "parameter %q has undeclared type %q", spec.Name, spec.Type)
	}
}

func coerceBool(name string, rv any) (bool, error) {
	switch v := rv.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(v) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, Errorf(KindValidation, "parameter %q must be a boolean or \"true\"/\"false\", got %v", name, rv)
}

func coerceInt(name string, rv any) (int, error) {
	switch v := rv.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		// JSON numbers arrive as float64; reject fractions.
		if v != float64(int(v)) {
			return 0, Errorf(KindValidation, "parameter %q must be a whole number, got %v", name, v)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, Errorf(KindValidation, "parameter %q must be an integer, got %q", name, v)
		}
		return n, nil
	}
	return 0, Errorf(KindValidation, "parameter %q must be an integer, got %v", name, rv)
}

func coerceStringList(name string, rv any) ([]string, error) {
	switch v := rv.(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, Errorf(KindValidation, "parameter %q must be a list of strings", name)
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		// A bare string is a caller mistake, not shorthand for a one-element list.
		return nil, Errorf(KindValidation, "parameter %q must be a list of strings, not a single string", name)
	}
	return nil, Errorf(KindValidation, "parameter %q must be a list of strings", name)
}
