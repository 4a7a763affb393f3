package parser

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Extraction is the raw result of matching one clause.
type Extraction struct {
	Amount   float64
	RawUnit  string
	Activity string
}

const unitWords = `minutes?|seconds?|hours?|reps?`

var (
	// <number>[unit] <activity>, consuming the whole clause.
	amountFirstPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*[- ]?\s*(` + unitWords + `)?\s+(.+)$`)
	// <activity> for <number>[unit], trailing text ignored.
	activityFirstPattern = regexp.MustCompile(`^(.+?)\s+for\s+(\d+(?:\.\d+)?)\s*[- ]?\s*(` + unitWords + `)?`)
)

// Matcher extracts a tuple from a single trimmed clause.
type Matcher func(clause string) (Extraction, bool)

// matchers are tried in order; the first match wins.
var matchers = []Matcher{MatchAmountFirst, MatchActivityFirst}

// MatchAmountFirst handles clauses such as "10 squats" or "1 minute dead hang".
func MatchAmountFirst(clause string) (Extraction, bool) {
	m := amountFirstPattern.FindStringSubmatch(clause)
	if m == nil {
		return Extraction{}, false
	}
	return build(m[1], m[2], m[3])
}

// MatchActivityFirst handles clauses such as "plank for 2 minutes".
func MatchActivityFirst(clause string) (Extraction, bool) {
	m := activityFirstPattern.FindStringSubmatch(clause)
	if m == nil {
		return Extraction{}, false
	}
	return build(m[2], m[3], m[1])
}

// build keeps out-of-range literals as infinities so the caller can drop the
// clause instead of falling through to the next matcher.
func build(number, unit, activity string) (Extraction, bool) {
	amount, err := strconv.ParseFloat(number, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Extraction{}, false
	}
	if unit == "" {
		unit = "reps"
	}
	return Extraction{Amount: amount, RawUnit: unit, Activity: activity}, true
}

// SplitClauses splits normalized text on commas and drops empty clauses.
func SplitClauses(normalized string) []string {
	parts := strings.Split(normalized, ",")
	clauses := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			clauses = append(clauses, trimmed)
		}
	}
	return clauses
}

// Extract returns one extraction per clause that matched a pattern, in
// clause order. Clauses that match nothing are dropped.
func Extract(normalized string) []Extraction {
	out := make([]Extraction, 0)
	for _, clause := range SplitClauses(normalized) {
		if ex, ok := matchClause(clause); ok {
			out = append(out, ex)
		}
	}
	return out
}

func matchClause(clause string) (Extraction, bool) {
	for _, match := range matchers {
		ex, ok := match(clause)
		if !ok {
			continue
		}
		if math.IsInf(ex.Amount, 0) || math.IsNaN(ex.Amount) {
			return Extraction{}, false
		}
		return ex, true
	}
	return Extraction{}, false
}
