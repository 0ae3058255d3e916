package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MinCategories is the smallest pool a card source may provide (one small grid)
const MinCategories = 9

// CategoryID identifies a category within a pool. Sources may write it as a
// string or a number; it is always held as a string.
type CategoryID string

// UnmarshalJSON accepts both string and numeric IDs
func (id *CategoryID) UnmarshalJSON(data []byte) error {
	s, err := unmarshalStringOrNumber(data)
	if err != nil {
		return fmt.Errorf("category id: %w", err)
	}
	*id = CategoryID(s)
	return nil
}

// Category is one entry of a candidate pool
type Category struct {
	ID   CategoryID `json:"id"`
	Text string     `json:"name"`

	// Group marks categories as similar. Empty means ungrouped.
	Group string `json:"group,omitempty"`

	// NumericGroup is set when the source wrote Group as a number. Group 1
	// and group "1" are different groups.
	NumericGroup bool `json:"numericGroup,omitempty"`

	// Dynamic is set when Text contains NUMBER[...] or CHOOSE[...] tokens
	Dynamic bool `json:"dynamic,omitempty"`
}

// GroupKey identifies the category's group when checking for similar
// categories. Ungrouped categories have an empty key.
func (c Category) GroupKey() string {
	switch {
	case c.Group == "":
		return ""
	case c.NumericGroup:
		return "#" + c.Group
	}
	return "$" + c.Group
}

func unmarshalStringOrNumber(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", fmt.Errorf("expected string or number, got %s", data)
	}
	return n.String(), nil
}
