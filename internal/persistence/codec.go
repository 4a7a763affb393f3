// Package persistence contains the blob codec shared by entry store
// implementations.
package persistence

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"example.com/workoutlog/internal/domain"
)

// DefaultKey is the blob key used by key-value stores.
const DefaultKey = "workout-logger.entries.v1"

type record struct {
	ID        string          `json:"id"`
	Activity  string          `json:"activity"`
	Amount    json.RawMessage `json:"amount"`
	Unit      string          `json:"unit"`
	Timestamp string          `json:"timestamp"`
}

// Encode serialises entries as a JSON array, preserving order.
func Encode(entries []domain.Entry) ([]byte, error) {
	if entries == nil {
		entries = []domain.Entry{}
	}
	return json.Marshal(entries)
}

// Decode reads a JSON array of entries. It never fails: a blob that is empty,
// not JSON or not an array yields an empty collection, and records that are
// missing an id, activity or timestamp, or carry an unusable amount, unit or
// timestamp, are dropped.
func Decode(raw []byte) []domain.Entry {
	entries := make([]domain.Entry, 0)
	if len(strings.TrimSpace(string(raw))) == 0 {
		return entries
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return entries
	}
	for _, item := range items {
		if entry, ok := decodeRecord(item); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

func decodeRecord(item json.RawMessage) (domain.Entry, bool) {
	var rec record
	if err := json.Unmarshal(item, &rec); err != nil {
		return domain.Entry{}, false
	}
	if rec.ID == "" || strings.TrimSpace(rec.Activity) == "" || rec.Timestamp == "" {
		return domain.Entry{}, false
	}
	ts, err := time.Parse(time.RFC3339Nano, rec.Timestamp)
	if err != nil {
		return domain.Entry{}, false
	}
	amount, ok := decodeAmount(rec.Amount)
	if !ok {
		return domain.Entry{}, false
	}
	unit := domain.Unit(rec.Unit)
	if !unit.Valid() {
		return domain.Entry{}, false
	}
	return domain.Entry{
		ID:        rec.ID,
		Activity:  rec.Activity,
		Amount:    amount,
		Unit:      unit,
		Timestamp: ts,
	}, true
}

// decodeAmount accepts a JSON number or a numeric string.
func decodeAmount(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var amount float64
	if err := json.Unmarshal(raw, &amount); err != nil {
		var text json.Number
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, false
		}
		if amount, err = text.Float64(); err != nil {
			return 0, false
		}
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, false
	}
	return amount, true
}
