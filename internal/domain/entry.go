package domain

import (
	"errors"
	"math"
	"strings"
	"time"
)

// Unit is the measurement attached to an entry amount.
type Unit string

const (
	UnitReps    Unit = "reps"
	UnitSeconds Unit = "seconds"
	UnitMinutes Unit = "minutes"
	UnitHours   Unit = "hours"
)

// Valid reports whether u is one of the fixed units.
func (u Unit) Valid() bool {
	switch u {
	case UnitReps, UnitSeconds, UnitMinutes, UnitHours:
		return true
	}
	return false
}

// IsTime reports whether u measures a duration.
func (u Unit) IsTime() bool {
	return u == UnitSeconds || u == UnitMinutes || u == UnitHours
}

// Entry is one logged activity occurrence.
type Entry struct {
	ID        string    `json:"id"`
	Activity  string    `json:"activity"`
	Amount    float64   `json:"amount"`
	Unit      Unit      `json:"unit"`
	Timestamp time.Time `json:"timestamp"`
}

// EntryEdit carries the fields a manual edit may overwrite.
type EntryEdit struct {
	Activity string
	Amount   float64
	Unit     Unit
}

var (
	// ErrEntryNotFound is returned when no entry carries the requested id.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrInvalidEdit is returned when an edit would break the entry invariants.
	ErrInvalidEdit = errors.New("invalid entry edit")
)

// Validate checks the edit against the entry invariants.
func (e EntryEdit) Validate() error {
	if strings.TrimSpace(e.Activity) == "" {
		return errors.Join(ErrInvalidEdit, errors.New("activity is required"))
	}
	if math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) || e.Amount <= 0 {
		return errors.Join(ErrInvalidEdit, errors.New("amount must be a positive number"))
	}
	if !e.Unit.Valid() {
		return errors.Join(ErrInvalidEdit, errors.New("unit must be one of reps, seconds, minutes, hours"))
	}
	return nil
}

// ApplyEdit returns a copy of entries where the entry with id has its editable
// fields replaced. The id and timestamp are kept. The second result is false
// when no entry matched, in which case entries is returned untouched.
func ApplyEdit(entries []Entry, id string, edit EntryEdit) ([]Entry, bool) {
	index := indexOf(entries, id)
	if index < 0 {
		return entries, false
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	out[index].Activity = edit.Activity
	out[index].Amount = edit.Amount
	out[index].Unit = edit.Unit
	return out, true
}

// RemoveEntry returns a copy of entries without the entry carrying id.
func RemoveEntry(entries []Entry, id string) ([]Entry, bool) {
	index := indexOf(entries, id)
	if index < 0 {
		return entries, false
	}
	out := make([]Entry, 0, len(entries)-1)
	out = append(out, entries[:index]...)
	return append(out, entries[index+1:]...), true
}

func indexOf(entries []Entry, id string) int {
	for i, entry := range entries {
		if entry.ID == id {
			return i
		}
	}
	return -1
}

// DayKey formats t as a calendar day in loc.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(time.DateOnly)
}
