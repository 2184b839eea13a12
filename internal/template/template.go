// Package template loads the baseline JSON request body and applies
// dot-notation overrides to it. The template is read once and treated as
// read-only afterwards; every override pass works on a fresh deep clone so
// no CSV row can contaminate the next one.
package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrInvalidJSON indicates the template file content is not a JSON object.
var ErrInvalidJSON = errors.New("invalid JSON template")

// Template is the baseline request body. Root-level keys may themselves be
// objects; one level of nesting is significant for override targeting.
type Template map[string]any

// Load reads and decodes the JSON template file at path. The top-level value
// must be a JSON object.
func Load(path string) (Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file %q: %w", path, err)
	}

	var tpl Template
	if err := json.Unmarshal(data, &tpl); err != nil {
		return nil, fmt.Errorf("%w: file %q is not a valid JSON object", ErrInvalidJSON, path)
	}
	if tpl == nil {
		// "null" decodes into a nil map without an error.
		return nil, fmt.Errorf("%w: file %q does not contain a JSON object", ErrInvalidJSON, path)
	}

	return tpl, nil
}

// Clone returns a deep copy of the template. Nested objects and arrays are
// copied recursively; scalars are immutable and shared.
func Clone(tpl Template) Template {
	if tpl == nil {
		return Template{}
	}
	return cloneMap(tpl)
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		return cloneMap(tv)
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
