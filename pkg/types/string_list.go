package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// StringList is a list of strings persisted as JSON text, e.g. image or
// attachment storage keys.
type StringList []string

// Value marshals the list into JSON, storing "[]" for nil.
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	buf, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(buf), nil
}

// Scan decodes JSON text into the list. Blank or null columns become empty.
func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = StringList{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("string list: unsupported scan type %T", value)
	}

	return s.decode(raw)
}

func (s *StringList) decode(raw []byte) error {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		*s = StringList{}
		return nil
	}

	result := []string{}
	if err := json.Unmarshal([]byte(trimmed), &result); err != nil {
		return fmt.Errorf("string list: %w", err)
	}
	*s = result
	return nil
}

// MarshalJSON always emits an array, never null.
func (s StringList) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}

func (StringList) GormDataType() string {
	return "text"
}
