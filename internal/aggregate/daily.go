package aggregate

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"example.com/workoutlog/internal/domain"
)

// DailyMetric holds the per-day sums. Time units are folded into minutes.
type DailyMetric struct {
	Minutes float64 `json:"minutes"`
	Reps    float64 `json:"reps"`
}

// Metric selects one field of a DailyMetric.
type Metric string

const (
	MetricMinutes Metric = "minutes"
	MetricReps    Metric = "reps"
)

// ErrUnknownMetric is returned by ParseMetric for unsupported values.
var ErrUnknownMetric = errors.New("unknown metric")

// ParseMetric validates a metric name. There is no default metric.
func ParseMetric(value string) (Metric, error) {
	switch m := Metric(strings.ToLower(strings.TrimSpace(value))); m {
	case MetricMinutes, MetricReps:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMetric, value)
	}
}

// Value returns the field selected by metric.
func (d DailyMetric) Value(metric Metric) float64 {
	if metric == MetricMinutes {
		return d.Minutes
	}
	return d.Reps
}

// DailyMetrics buckets every entry by calendar day in loc.
func DailyMetrics(entries []domain.Entry, loc *time.Location) map[string]DailyMetric {
	byDay := make(map[string]DailyMetric)
	for _, entry := range entries {
		day := domain.DayKey(entry.Timestamp, loc)
		current := byDay[day]
		if entry.Unit.IsTime() {
			current.Minutes += ToMinutes(entry.Amount, entry.Unit)
		} else {
			current.Reps += entry.Amount
		}
		byDay[day] = current
	}
	return byDay
}

// LastNDays lists count consecutive day keys, oldest first, ending offsetDays
// before now's calendar day.
func LastNDays(now time.Time, count, offsetDays int) []string {
	if count <= 0 {
		return nil
	}
	end := startOfDay(now).AddDate(0, 0, -offsetDays)
	days := make([]string, 0, count)
	for i := count - 1; i >= 0; i-- {
		days = append(days, end.AddDate(0, 0, -i).Format(time.DateOnly))
	}
	return days
}

// RollingWindow sums count days ending offsetDays before today. Offset 0
// covers the most recent count days including today.
func RollingWindow(byDay map[string]DailyMetric, now time.Time, count, offsetDays int) DailyMetric {
	var sum DailyMetric
	for _, day := range LastNDays(now, count, offsetDays) {
		metric := byDay[day]
		sum.Minutes += metric.Minutes
		sum.Reps += metric.Reps
	}
	return sum
}

// DayPoint is one day's value in a series.
type DayPoint struct {
	Day     string  `json:"day"`
	Minutes float64 `json:"minutes"`
	Reps    float64 `json:"reps"`
}

// Series returns one point per day for the last count days, oldest first.
func Series(byDay map[string]DailyMetric, now time.Time, count int) []DayPoint {
	days := LastNDays(now, count, 0)
	points := make([]DayPoint, 0, len(days))
	for _, day := range days {
		metric := byDay[day]
		points = append(points, DayPoint{Day: day, Minutes: metric.Minutes, Reps: metric.Reps})
	}
	return points
}

// DayValue pairs a day with one metric value.
type DayValue struct {
	Day   string  `json:"day"`
	Value float64 `json:"value"`
}

// TopDays returns the days whose metric is positive, largest first, at most
// limit of them. Equal values list the more recent day first.
func TopDays(byDay map[string]DailyMetric, metric Metric, limit int) []DayValue {
	rows := make([]DayValue, 0, len(byDay))
	for day, values := range byDay {
		if v := values.Value(metric); v > 0 {
			rows = append(rows, DayValue{Day: day, Value: v})
		}
	}
	slices.SortFunc(rows, func(a, b DayValue) int {
		switch {
		case a.Value > b.Value:
			return -1
		case a.Value < b.Value:
			return 1
		default:
			return strings.Compare(b.Day, a.Day)
		}
	})
	if limit >= 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// Streak counts consecutive calendar days with at least one entry, walking
// back from now's day. No entry today means a streak of zero.
func Streak(entries []domain.Entry, now time.Time) int {
	loc := now.Location()
	days := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		days[domain.DayKey(entry.Timestamp, loc)] = struct{}{}
	}
	streak := 0
	cursor := startOfDay(now)
	for {
		if _, ok := days[cursor.Format(time.DateOnly)]; !ok {
			return streak
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
}
