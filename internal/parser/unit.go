package parser

import (
	"strings"

	"example.com/workoutlog/internal/domain"
)

// NormalizeUnit maps a raw unit token to one of the fixed units by
// case-insensitive prefix. Anything that is not a time unit counts as reps.
func NormalizeUnit(raw string) domain.Unit {
	token := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(token, "minute"):
		return domain.UnitMinutes
	case strings.HasPrefix(token, "second"):
		return domain.UnitSeconds
	case strings.HasPrefix(token, "hour"):
		return domain.UnitHours
	default:
		return domain.UnitReps
	}
}
