package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
)

// StringArray is a custom type for handling TEXT[] arrays in PostgreSQL,
// used for seat-label sets and weekday lists.
type StringArray []string

// Value implements the driver.Valuer interface
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return pq.Array([]string{}).Value()
	}
	return pq.Array(a).Value()
}

// Scan implements the sql.Scanner interface
func (a *StringArray) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	slice := (*[]string)(a)
	return pq.Array(slice).Scan(src)
}

// Contains reports whether the array holds the given value
func (a StringArray) Contains(v string) bool {
	for _, s := range a {
		if s == v {
			return true
		}
	}
	return false
}

// Intersect returns the values of other that are already present in a,
// preserving the order of other.
func (a StringArray) Intersect(other []string) []string {
	taken := []string{}
	for _, s := range other {
		if a.Contains(s) {
			taken = append(taken, s)
		}
	}
	return taken
}

// jsonbValue marshals a structure for storage in a JSONB column
func jsonbValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal jsonb value: %w", err)
	}
	return string(b), nil
}

// jsonbScan unmarshals a JSONB column into dest
func jsonbScan(src interface{}, dest interface{}) error {
	if src == nil {
		return nil
	}
	var data []byte
	switch s := src.(type) {
	case []byte:
		data = s
	case string:
		data = []byte(s)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
	return json.Unmarshal(data, dest)
}
