// Package aggregate derives totals, per-day metrics, streaks and trends from
// the entry collection. Every function is pure: it reads entries and returns
// newly built views.
package aggregate

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"example.com/workoutlog/internal/domain"
)

// Range selects which entries count toward totals.
type Range string

const (
	RangeDay   Range = "day"
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
	RangeAll   Range = "all"
)

// ErrUnknownRange is returned by ParseRange for unsupported values.
var ErrUnknownRange = errors.New("unknown range")

// ParseRange validates a range name. The empty string means all.
func ParseRange(value string) (Range, error) {
	switch r := Range(strings.ToLower(strings.TrimSpace(value))); r {
	case RangeDay, RangeWeek, RangeMonth, RangeAll:
		return r, nil
	case "":
		return RangeAll, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRange, value)
	}
}

// Amount is an amount paired with its unit.
type Amount struct {
	Amount float64
	Unit   domain.Unit
}

// NormalizeForAggregation converts time units to minutes. Reps pass through.
func NormalizeForAggregation(amount float64, unit domain.Unit) Amount {
	if unit.IsTime() {
		return Amount{Amount: ToMinutes(amount, unit), Unit: domain.UnitMinutes}
	}
	return Amount{Amount: amount, Unit: unit}
}

// ToMinutes converts a time amount to minutes. Non-time units are returned as is.
func ToMinutes(amount float64, unit domain.Unit) float64 {
	switch unit {
	case domain.UnitSeconds:
		return amount / 60
	case domain.UnitHours:
		return amount * 60
	default:
		return amount
	}
}

// Total is the summed amount for one activity in one normalized unit.
type Total struct {
	Activity string      `json:"activity"`
	Unit     domain.Unit `json:"unit"`
	Amount   float64     `json:"amount"`
}

// InRange reports whether ts falls inside r relative to now. Calendar days
// are taken in now's location.
func InRange(ts, now time.Time, r Range) bool {
	loc := now.Location()
	local := ts.In(loc)
	switch r {
	case RangeDay:
		return sameDay(local, now)
	case RangeWeek:
		start := startOfDay(now).AddDate(0, 0, -6)
		return !local.Before(start) && !local.After(now)
	case RangeMonth:
		return local.Year() == now.Year() && local.Month() == now.Month()
	default:
		return true
	}
}

// Totals groups the entries inside r by lowercased activity and normalized
// unit, largest amount first. Ties keep first-seen order.
func Totals(entries []domain.Entry, r Range, now time.Time) []Total {
	index := make(map[string]int)
	totals := make([]Total, 0)
	for _, entry := range entries {
		if !InRange(entry.Timestamp, now, r) {
			continue
		}
		normalized := NormalizeForAggregation(entry.Amount, entry.Unit)
		key := strings.ToLower(entry.Activity) + "|" + string(normalized.Unit)
		if i, ok := index[key]; ok {
			totals[i].Amount += normalized.Amount
			continue
		}
		index[key] = len(totals)
		totals = append(totals, Total{
			Activity: entry.Activity,
			Unit:     normalized.Unit,
			Amount:   normalized.Amount,
		})
	}
	slices.SortStableFunc(totals, func(a, b Total) int {
		switch {
		case a.Amount > b.Amount:
			return -1
		case a.Amount < b.Amount:
			return 1
		default:
			return 0
		}
	})
	return totals
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
