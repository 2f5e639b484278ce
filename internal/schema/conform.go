package schema

import (
	"fmt"
	"math"
	"strings"

	"google.golang.org/genai"
)

// Conform checks a decoded JSON value against s. Required properties must be
// present and every present value must have the declared type.
func Conform(s *genai.Schema, v any) error {
	return conform(s, v, "$")
}

func conform(s *genai.Schema, v any, path string) error {
	if s == nil {
		return nil
	}

	switch strings.ToUpper(string(s.Type)) {
	case string(genai.TypeObject):
		obj, ok := v.(map[string]any)
		if !ok {
			return typeError(path, "object", v)
		}
		for _, name := range s.Required {
			if _, ok := obj[name]; !ok {
				return fmt.Errorf("%s: missing required field %q", path, name)
			}
		}
		for name, prop := range s.Properties {
			value, ok := obj[name]
			if !ok {
				continue
			}
			if err := conform(prop, value, path+"."+name); err != nil {
				return err
			}
		}
	case string(genai.TypeArray):
		items, ok := v.([]any)
		if !ok {
			return typeError(path, "array", v)
		}
		for i, item := range items {
			if err := conform(s.Items, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case string(genai.TypeString):
		if _, ok := v.(string); !ok {
			return typeError(path, "string", v)
		}
	case string(genai.TypeInteger):
		n, ok := v.(float64)
		if !ok || n != math.Trunc(n) {
			return typeError(path, "integer", v)
		}
	case string(genai.TypeNumber):
		if _, ok := v.(float64); !ok {
			return typeError(path, "number", v)
		}
	case string(genai.TypeBoolean):
		if _, ok := v.(bool); !ok {
			return typeError(path, "boolean", v)
		}
	}
	return nil
}

func typeError(path, want string, got any) error {
	if got == nil {
		return fmt.Errorf("%s: expected %s, got null", path, want)
	}
	return fmt.Errorf("%s: expected %s, got %T", path, want, got)
}
