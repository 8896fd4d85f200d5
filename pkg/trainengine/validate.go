package trainengine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// DecodeUpdates parses a raw feed message into validated updates. A message
// is either a single JSON object or an array of objects. An undecodable
// payload fails the whole message; individual records that don't decode,
// are missing an id, or carry non-finite coordinates are skipped silently,
// preserving the order of the survivors.
func DecodeUpdates(raw []byte) ([]TrainUpdate, error) {
	var records []json.RawMessage
	if bytes.HasPrefix(bytes.TrimLeft(raw, " \t\r\n"), []byte("[")) {
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("undecodable feed message: %w", err)
		}
	} else {
		var single json.RawMessage
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, fmt.Errorf("undecodable feed message: %w", err)
		}
		records = []json.RawMessage{single}
	}

	// Coordinates decode into pointers so an absent field can be told
	// apart from an explicit 0.
	type record struct {
		ID    string   `json:"id"`
		Lat   *float64 `json:"lat"`
		Lng   *float64 `json:"lng"`
		Popup string   `json:"popup"`
	}

	updates := make([]TrainUpdate, 0, len(records))
	for _, raw := range records {
		var r record
		if err := json.Unmarshal(raw, &r); err != nil {
			continue
		}
		if r.ID == "" || r.Lat == nil || r.Lng == nil {
			continue
		}
		if !isFinite(*r.Lat) || !isFinite(*r.Lng) {
			continue
		}
		updates = append(updates, TrainUpdate{ID: r.ID, Lat: *r.Lat, Lng: *r.Lng, Popup: r.Popup})
	}
	return updates, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
