package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Location is a user-supplied coordinate pair plus a free-form address,
// persisted as a JSONB column.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// Valid reports whether both coordinates are present. Profiles are created
// with whatever location the client sent, so matching callers must check this
// before computing distances. A zero coordinate counts as absent, matching
// the permissive payloads clients send today.
func (l *Location) Valid() bool {
	if l == nil {
		return false
	}
	return l.Lat != 0 && l.Lng != 0
}

// Value serializes the location to JSON for the database driver.
func (l Location) Value() (driver.Value, error) {
	raw, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("location: marshal %w", err)
	}
	return string(raw), nil
}

// Scan accepts the JSON text or bytes returned by the database.
func (l *Location) Scan(value interface{}) error {
	if value == nil {
		*l = Location{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("location: unsupported scan type %T", value)
	}
}
