package api

import (
	"errors"
	"strings"
	"time"

	"example.com/workoutlog/internal/aggregate"
	"example.com/workoutlog/internal/domain"
)

// LogTextRequest is the payload for POST /v1/entries.
type LogTextRequest struct {
	Text string `json:"text"`
}

// Validate ensures request correctness.
func (r LogTextRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return errors.New("text is required")
	}
	return nil
}

// EditEntryRequest is the payload for PUT /v1/entries/{id}.
type EditEntryRequest struct {
	Activity string  `json:"activity"`
	Amount   float64 `json:"amount"`
	Unit     string  `json:"unit"`
}

// EntryView is the wire form of an entry.
type EntryView struct {
	ID            string    `json:"id"`
	Activity      string    `json:"activity"`
	Kind          string    `json:"kind,omitempty"`
	Amount        float64   `json:"amount"`
	Unit          string    `json:"unit"`
	Timestamp     time.Time `json:"timestamp"`
	DisplayAmount string    `json:"display_amount"`
	DisplayUnit   string    `json:"display_unit"`
}

// EntryListResponse packages a list of entries.
type EntryListResponse struct {
	Day   string      `json:"day,omitempty"`
	Items []EntryView `json:"items"`
}

// DaysResponse lists the days that have entries.
type DaysResponse struct {
	Days []string `json:"days"`
}

// TotalView is one per-activity total.
type TotalView struct {
	Activity string  `json:"activity"`
	Unit     string  `json:"unit"`
	Amount   float64 `json:"amount"`
	Display  string  `json:"display"`
}

// TotalsResponse packages totals for one range.
type TotalsResponse struct {
	Range string      `json:"range"`
	Items []TotalView `json:"items"`
}

// TrendView is a trend with its rendered summary.
type TrendView struct {
	aggregate.TrendSummary
	Summary string `json:"summary"`
}

// TrendsResponse is the trend report.
type TrendsResponse struct {
	GeneratedAt   time.Time            `json:"generated_at"`
	Streak        int                  `json:"streak"`
	Today         []TotalView          `json:"today"`
	TimeTrend     TrendView            `json:"time_trend"`
	RepsTrend     TrendView            `json:"reps_trend"`
	Series        []aggregate.DayPoint `json:"series"`
	TopMinuteDays []aggregate.DayValue `json:"top_minute_days"`
	TopRepDays    []aggregate.DayValue `json:"top_rep_days"`
}

func (h *Handler) view(entry domain.Entry) EntryView {
	amount, unit := aggregate.DisplayTotal(entry.Amount, entry.Unit)
	v := EntryView{
		ID:            entry.ID,
		Activity:      entry.Activity,
		Amount:        entry.Amount,
		Unit:          string(entry.Unit),
		Timestamp:     entry.Timestamp,
		DisplayAmount: amount,
		DisplayUnit:   string(unit),
	}
	if h.kinds != nil {
		v.Kind = h.kinds.KindOf(entry.Activity)
	}
	return v
}

func (h *Handler) views(entries []domain.Entry) []EntryView {
	out := make([]EntryView, 0, len(entries))
	for _, entry := range entries {
		out = append(out, h.view(entry))
	}
	return out
}

func toTotalView(total aggregate.Total) TotalView {
	amount, unit := aggregate.DisplayTotal(total.Amount, total.Unit)
	return TotalView{
		Activity: total.Activity,
		Unit:     string(total.Unit),
		Amount:   total.Amount,
		Display:  amount + " " + string(unit),
	}
}

func toTrendView(trend aggregate.TrendSummary) TrendView {
	return TrendView{TrendSummary: trend, Summary: trend.String()}
}

// TopDaysResponse lists the best days for one metric.
type TopDaysResponse struct {
	Metric string               `json:"metric"`
	Limit  int                  `json:"limit"`
	Items  []aggregate.DayValue `json:"items"`
}
