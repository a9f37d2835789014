package llm

import (
	"fmt"
)

// outputKeys are tried in order on a mapping found at output[0]
var outputKeys = []string{"generated_text", "text", "content"}

// ExtractText pulls the generated text out of a gateway response. Shapes are tried
// in a fixed order and the first hit wins:
//
//	choices[0].message.content
//	choices[0].text
//	generated_text
//	output[0] (generated_text, text or content of a mapping, or a plain string)
//	the response itself when it is a string
//
// A key that is present but null falls through to the next shape.
func ExtractText(resp any) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", extractionError(r, resp)
		}
	}()

	if m, ok := resp.(map[string]any); ok {
		if e, ok := m["error"]; ok && truthy(e) {
			return "", connectionError(e)
		}
	}

	found, err := extract(resp)
	if err != nil {
		return "", extractionError(err, resp)
	}
	if found == nil {
		return "", unexpectedFormatError(resp)
	}

	s, ok := found.(string)
	if !ok {
		return "", extractionError(fmt.Errorf("generated text is %s, not a string", describe(found)), resp)
	}
	return s, nil
}

// extract walks the known shapes and returns the first non-nil candidate
func extract(resp any) (any, error) {
	m, isMap := resp.(map[string]any)

	if isMap {
		if v, err := fromChoices(m); err != nil || v != nil {
			return v, err
		}
		if v := m["generated_text"]; v != nil {
			return v, nil
		}
		if v, err := fromOutput(m); err != nil || v != nil {
			return v, err
		}
	}

	if s, ok := resp.(string); ok {
		return s, nil
	}
	return nil, nil
}

func fromChoices(m map[string]any) (any, error) {
	raw, ok := m["choices"]
	if !ok || !truthy(raw) {
		return nil, nil
	}

	var first any
	switch choices := raw.(type) {
	case []any:
		first = choices[0]
	case string:
		// indexable but never a mapping, nothing to read
		return nil, nil
	default:
		return nil, fmt.Errorf("choices is %s, not a list", describe(raw))
	}

	choice, ok := first.(map[string]any)
	if !ok {
		return nil, nil
	}

	if msg, ok := choice["message"].(map[string]any); ok && len(msg) > 0 {
		if content, ok := msg["content"]; ok {
			return content, nil
		}
	}
	if text, ok := choice["text"]; ok {
		return text, nil
	}
	return nil, nil
}

func fromOutput(m map[string]any) (any, error) {
	out, ok := m["output"].([]any)
	if !ok || len(out) == 0 {
		return nil, nil
	}

	switch first := out[0].(type) {
	case map[string]any:
		for _, key := range outputKeys {
			if v, ok := first[key]; ok {
				return v, nil
			}
		}
	case string:
		return first, nil
	}
	return nil, nil
}

// truthy mirrors how a provider error flag is usually tested: empty values and
// zero numbers do not count.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	case float64:
		return t != 0
	case int:
		return t != 0
	case interface{ String() string }:
		s := t.String()
		return s != "" && s != "0"
	default:
		return true
	}
}
