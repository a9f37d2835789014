package api

import (
	"bytes"
	"encoding/json"

	"github.com/pageza/mealmind/backend/internal/service"
)

// encodedList accepts a JSON list of strings or a string holding one. Anything that
// does not decode becomes an empty list.
type encodedList []string

func (l *encodedList) UnmarshalJSON(data []byte) error {
	*l = encodedList{}

	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		data = []byte(s)
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	if items != nil {
		*l = items
	}
	return nil
}

// commaList accepts a JSON list of strings or a comma-separated string. Entries are
// trimmed and blanks dropped.
type commaList []string

func (l *commaList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = service.SplitList(s)
		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = service.CleanList(items)
	return nil
}
