package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// jsonValue marshals v for a jsonb column. A nil map is stored as an empty
// object so scans never produce nil.
func jsonValue(v any) (driver.Value, error) {
	if v == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal jsonb value: %w", err)
	}
	return data, nil
}

// scanJSON unmarshals a jsonb column into out.
func scanJSON(raw []byte, out any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to unmarshal jsonb value: %w", err)
	}
	return nil
}
