package services

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// jsonField converts a JSON-bearing request field into its stored string.
// A string is stored as given, an object or array is stored compacted.
// present is false when the field was not supplied; an explicit null is
// present with a nil value.
func jsonField(raw json.RawMessage) (value *string, present bool, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, false, nil
	}
	if string(raw) == "null" {
		return nil, true, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, true, fmt.Errorf("failed to decode json string field: %w", err)
		}
		return &s, true, nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, true, fmt.Errorf("failed to compact json field: %w", err)
	}
	s := buf.String()
	return &s, true, nil
}
