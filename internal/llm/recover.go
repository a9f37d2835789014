package llm

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"unicode"
)

// bracketed matches the shortest [...] spans, newlines included
var bracketed = regexp.MustCompile(`(?s)\[.*?\]`)

// RecoverJSON finds the JSON payload in free model output. It tries, in order:
// the whole text decoded from its first byte, a leading value at every '[' offset,
// and finally each lazily matched [...] span parsed on its own. The first candidate
// that decodes wins.
func RecoverJSON(text string) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			value, err = nil, recoveryError(r)
		}
	}()

	if v, ok := decodeLeading(text); ok {
		return v, nil
	}

	for pos := strings.IndexByte(text, '['); pos >= 0; {
		if v, ok := decodeLeading(text[pos:]); ok {
			return v, nil
		}
		next := strings.IndexByte(text[pos+1:], '[')
		if next < 0 {
			break
		}
		pos += next + 1
	}

	for _, candidate := range bracketed.FindAllString(text, -1) {
		if v, ok := decodeStrict(candidate); ok {
			return v, nil
		}
	}

	return nil, &Error{Kind: KindRecovery, Message: msgNoJSONArray}
}

// decodeLeading decodes the JSON value that starts at the first byte of s and
// ignores whatever follows it. Leading whitespace is not skipped.
func decodeLeading(s string) (any, bool) {
	if s == "" || unicode.IsSpace(rune(s[0])) {
		return nil, false
	}

	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}

func decodeStrict(s string) (any, bool) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	if dec.More() {
		return nil, false
	}
	return v, true
}
