package template

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// MaxDepth is the deepest dot-notation path an override key may encode.
const MaxDepth = 2

var (
	// ErrExcessiveNestingDepth indicates a dot-notation key with more than
	// MaxDepth segments.
	ErrExcessiveNestingDepth = errors.New("maximum depth of dot notation is 2")

	// ErrInvalidOverridePath indicates an override key that cannot be applied
	// to the template, such as an empty segment or a missing parent object.
	ErrInvalidOverridePath = errors.New("invalid override path")

	// ErrInvalidOverrideValue indicates a CSV value that cannot be coerced to
	// the type of the template field it overrides.
	ErrInvalidOverrideValue = errors.New("invalid override value")
)

// ParsePath splits a dot-notation override key into its segments. A key has
// either one segment (root-level field) or two ("object.field").
func ParsePath(key string) ([]string, error) {
	segments := strings.Split(key, ".")
	if len(segments) > MaxDepth {
		return nil, fmt.Errorf("%w: key %q has a depth of %d", ErrExcessiveNestingDepth, key, len(segments))
	}
	for _, segment := range segments {
		if segment == "" {
			return nil, fmt.Errorf("%w: key %q contains an empty segment", ErrInvalidOverridePath, key)
		}
	}
	return segments, nil
}

// Apply clones the template and applies every override from the row to the
// clone. A nil or empty row yields an unmodified copy of the template.
//
// Overrides targeting a nested field require the parent key to already hold
// an object in the template; auto-creating the parent would silently produce
// request bodies the server has never seen, so that case fails instead.
func Apply(tpl Template, row map[string]string) (Template, error) {
	prepared := Clone(tpl)

	// Sorted iteration keeps error reporting deterministic.
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		segments, err := ParsePath(key)
		if err != nil {
			return nil, err
		}

		switch len(segments) {
		case 1:
			value, err := coerce(prepared[key], row[key])
			if err != nil {
				return nil, fmt.Errorf("override %q: %w", key, err)
			}
			prepared[key] = value
		case 2:
			parent, ok := prepared[segments[0]]
			if !ok {
				return nil, fmt.Errorf("%w: parent key %q does not exist in the template", ErrInvalidOverridePath, segments[0])
			}
			obj, ok := parent.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: template key %q is not an object", ErrInvalidOverridePath, segments[0])
			}
			value, err := coerce(obj[segments[1]], row[key])
			if err != nil {
				return nil, fmt.Errorf("override %q: %w", key, err)
			}
			obj[segments[1]] = value
		}
	}

	return prepared, nil
}

// coerce converts a raw CSV string to the type of the template value it
// replaces. Numeric and boolean template fields keep their type; everything
// else, including fields absent from the template, takes the raw string.
func coerce(existing any, raw string) (any, error) {
	switch existing.(type) {
	case float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q does not parse as a number", ErrInvalidOverrideValue, raw)
		}
		return f, nil
	case bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q does not parse as a boolean", ErrInvalidOverrideValue, raw)
		}
		return b, nil
	default:
		return raw, nil
	}
}
