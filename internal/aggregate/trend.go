package aggregate

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"example.com/workoutlog/internal/domain"
)

// Direction classifies a period-over-period comparison.
type Direction string

const (
	DirectionNoData     Direction = "no_data"
	DirectionUpFromZero Direction = "up_from_zero"
	DirectionUp         Direction = "up"
	DirectionDown       Direction = "down"
	DirectionFlat       Direction = "flat"
)

// TrendSummary compares the current window with the previous one.
type TrendSummary struct {
	Direction    Direction `json:"direction"`
	Current      float64   `json:"current"`
	Previous     float64   `json:"previous"`
	DeltaPercent float64   `json:"delta_percent"`
	Unit         string    `json:"unit"`
}

// Trend compares current against previous. Flat means an exact zero delta.
func Trend(current, previous float64, unitLabel string) TrendSummary {
	t := TrendSummary{Current: current, Previous: previous, Unit: unitLabel}
	switch {
	case current == 0 && previous == 0:
		t.Direction = DirectionNoData
	case previous == 0:
		t.Direction = DirectionUpFromZero
	default:
		delta := current - previous
		t.DeltaPercent = delta / previous * 100
		switch {
		case delta > 0:
			t.Direction = DirectionUp
		case delta < 0:
			t.Direction = DirectionDown
		default:
			t.Direction = DirectionFlat
		}
	}
	return t
}

// String renders the trend as a short sentence.
func (t TrendSummary) String() string {
	amount := formatForUnit(t.Current, t.Unit)
	switch t.Direction {
	case DirectionNoData:
		return "no data yet"
	case DirectionUpFromZero:
		return fmt.Sprintf("⬆️ up from 0 to %s %s", amount, t.Unit)
	case DirectionFlat:
		return fmt.Sprintf("➖ flat (%s %s this 7d)", amount, t.Unit)
	}
	arrow, sign := "⬇️", ""
	if t.Direction == DirectionUp {
		arrow, sign = "⬆️", "+"
	}
	return fmt.Sprintf("%s %s%s%% (%s %s this 7d)", arrow, sign, FormatOneDecimal(t.DeltaPercent), amount, t.Unit)
}

func formatForUnit(value float64, unit string) string {
	if unit == string(domain.UnitMinutes) {
		return FormatOneDecimal(value)
	}
	return TrimNumber(value)
}

// FormatOneDecimal rounds to one decimal place. Values that round to zero
// print without a sign.
func FormatOneDecimal(value float64) string {
	return strconv.FormatFloat(unsignedZero(math.Round(value*10)/10), 'f', 1, 64)
}

// TrimNumber prints integers without decimals and everything else rounded
// to at most two decimals.
func TrimNumber(value float64) string {
	if value == math.Trunc(value) {
		return strconv.FormatFloat(unsignedZero(value), 'f', 0, 64)
	}
	return strconv.FormatFloat(unsignedZero(math.Round(value*100)/100), 'f', -1, 64)
}

func unsignedZero(value float64) float64 {
	if value == 0 {
		return 0
	}
	return value
}

// DisplayTotal formats an amount for display. Time units are shown as
// minutes with one decimal.
func DisplayTotal(amount float64, unit domain.Unit) (string, domain.Unit) {
	if unit.IsTime() {
		return FormatOneDecimal(ToMinutes(amount, unit)), domain.UnitMinutes
	}
	return TrimNumber(amount), unit
}

// Report bundles the derived views shown on the trends screen.
type Report struct {
	GeneratedAt   time.Time    `json:"generated_at"`
	Today         []Total      `json:"today"`
	TimeTrend     TrendSummary `json:"time_trend"`
	RepsTrend     TrendSummary `json:"reps_trend"`
	Streak        int          `json:"streak"`
	Series        []DayPoint   `json:"series"`
	TopMinuteDays []DayValue   `json:"top_minute_days"`
	TopRepDays    []DayValue   `json:"top_rep_days"`
}

const (
	reportSeriesDays = 14
	reportWindowDays = 7
	reportTodayLimit = 6
	reportTopLimit   = 5
)

// BuildReport computes the trend report as of now.
func BuildReport(entries []domain.Entry, now time.Time) Report {
	byDay := DailyMetrics(entries, now.Location())
	current := RollingWindow(byDay, now, reportWindowDays, 0)
	previous := RollingWindow(byDay, now, reportWindowDays, reportWindowDays)

	today := Totals(entries, RangeDay, now)
	if len(today) > reportTodayLimit {
		today = today[:reportTodayLimit]
	}

	return Report{
		GeneratedAt:   now,
		Today:         today,
		TimeTrend:     Trend(current.Minutes, previous.Minutes, string(MetricMinutes)),
		RepsTrend:     Trend(current.Reps, previous.Reps, string(MetricReps)),
		Streak:        Streak(entries, now),
		Series:        Series(byDay, now, reportSeriesDays),
		TopMinuteDays: TopDays(byDay, MetricMinutes, reportTopLimit),
		TopRepDays:    TopDays(byDay, MetricReps, reportTopLimit),
	}
}
