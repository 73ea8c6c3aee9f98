package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// SizeOption is a selectable size with its surcharge over the base price.
type SizeOption struct {
	Name      string `json:"name"`
	Surcharge int64  `json:"surcharge"`
}

// SizeOptions stores an ordered size list inside a text/JSON column.
type SizeOptions []SizeOption

// Value serializes the options to JSON.
func (s SizeOptions) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]SizeOption(s))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan decodes a JSON column into the options.
func (s *SizeOptions) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded []SizeOption
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*s = decoded
	return nil
}

// StringList stores a list of labels inside a text/JSON column. Postgres arrays
// are avoided so the same schema runs on sqlite.
type StringList []string

// Value serializes the list to JSON.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan decodes a JSON column into the list.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded []string
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*l = decoded
	return nil
}

func asJSON(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported scan type %T", value)
	}
}
