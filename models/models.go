package models

import (
	"encoding/json"
	"fmt"
)

// ErrorResponse is the standard error body returned by handlers.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// scanJSONB unmarshals a jsonb column value into dest. Postgres hands the
// value back as []byte; some drivers use string.
func scanJSONB(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
}
