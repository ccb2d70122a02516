package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSONMap stores a question-id → answer mapping as a JSON column.
// Answers may be free text, booleans, or file references (string URLs).
type JSONMap map[string]interface{}

// Value implements driver.Valuer
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for JSONMap")
	}

	if len(data) == 0 {
		*m = JSONMap{}
		return nil
	}
	return json.Unmarshal(data, m)
}

// GormDataType tells GORM to create a JSON column
func (JSONMap) GormDataType() string {
	return "json"
}
