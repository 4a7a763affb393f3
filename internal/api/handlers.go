// Package api exposes the workout journal over HTTP.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"example.com/workoutlog/internal/aggregate"
	"example.com/workoutlog/internal/auth"
	"example.com/workoutlog/internal/domain"
)

// KindLookup resolves the catalog kind of a canonical activity name.
type KindLookup interface {
	KindOf(canonical string) string
}

// Handler coordinates HTTP requests with the journal service.
type Handler struct {
	service *domain.Service
	kinds   KindLookup
}

// NewHandler builds a Handler. kinds may be nil.
func NewHandler(service *domain.Service, kinds KindLookup) *Handler {
	return &Handler{service: service, kinds: kinds}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/entries", h.entries)
	mux.HandleFunc("/v1/entries/", h.entryByID)
	mux.HandleFunc("/v1/days", h.days)
	mux.HandleFunc("/v1/totals", h.totals)
	mux.HandleFunc("/v1/trends", h.trends)
	mux.HandleFunc("/v1/top-days", h.topDays)
	mux.HandleFunc("/healthz", healthz)
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) entries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		if requireScope(w, r, auth.ScopeEntriesWrite) {
			h.logText(w, r)
		}
	case http.MethodGet:
		if requireScope(w, r, auth.ScopeEntriesRead) {
			h.listEntries(w, r)
		}
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) entryByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/entries/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing entry id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		if requireScope(w, r, auth.ScopeEntriesRead) {
			h.getEntry(w, id)
		}
	case http.MethodPut:
		if requireScope(w, r, auth.ScopeEntriesWrite) {
			h.editEntry(w, r, id)
		}
	case http.MethodDelete:
		if requireScope(w, r, auth.ScopeEntriesWrite) {
			h.deleteEntry(w, r, id)
		}
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) logText(w http.ResponseWriter, r *http.Request) {
	var req LogTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	created, err := h.service.LogText(r.Context(), req.Text)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	if len(created) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "unparseable", "no entries could be parsed from text")
		return
	}
	writeJSON(w, http.StatusCreated, EntryListResponse{Items: h.views(created)})
}

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	day := strings.TrimSpace(r.URL.Query().Get("day"))
	if day == "" {
		writeJSON(w, http.StatusOK, EntryListResponse{Items: h.views(h.service.Entries())})
		return
	}
	if _, err := time.Parse(time.DateOnly, day); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "day must be formatted as YYYY-MM-DD")
		return
	}
	writeJSON(w, http.StatusOK, EntryListResponse{Day: day, Items: h.views(h.service.EntriesForDay(day))})
}

func (h *Handler) getEntry(w http.ResponseWriter, id string) {
	entry, err := h.service.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(entry))
}

func (h *Handler) editEntry(w http.ResponseWriter, r *http.Request, id string) {
	var req EditEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	updated, err := h.service.EditEntry(r.Context(), id, domain.EntryEdit{
		Activity: req.Activity,
		Amount:   req.Amount,
		Unit:     domain.Unit(strings.ToLower(strings.TrimSpace(req.Unit))),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(updated))
}

func (h *Handler) deleteEntry(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.service.DeleteEntry(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) days(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !requireScope(w, r, auth.ScopeEntriesRead) {
		return
	}
	writeJSON(w, http.StatusOK, DaysResponse{Days: h.service.Days()})
}

func (h *Handler) totals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !requireScope(w, r, auth.ScopeEntriesRead) {
		return
	}

	rng, err := aggregate.ParseRange(r.URL.Query().Get("range"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	totals := aggregate.Totals(h.service.Entries(), rng, h.service.Now())
	items := make([]TotalView, 0, len(totals))
	for _, total := range totals {
		items = append(items, toTotalView(total))
	}
	writeJSON(w, http.StatusOK, TotalsResponse{Range: string(rng), Items: items})
}

func (h *Handler) trends(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !requireScope(w, r, auth.ScopeEntriesRead) {
		return
	}

	report := aggregate.BuildReport(h.service.Entries(), h.service.Now())
	resp := TrendsResponse{
		GeneratedAt:   report.GeneratedAt,
		Streak:        report.Streak,
		Today:         make([]TotalView, 0, len(report.Today)),
		TimeTrend:     toTrendView(report.TimeTrend),
		RepsTrend:     toTrendView(report.RepsTrend),
		Series:        report.Series,
		TopMinuteDays: report.TopMinuteDays,
		TopRepDays:    report.TopRepDays,
	}
	for _, total := range report.Today {
		resp.Today = append(resp.Today, toTotalView(total))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) topDays(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !requireScope(w, r, auth.ScopeEntriesRead) {
		return
	}

	metric, err := aggregate.ParseMetric(r.URL.Query().Get("metric"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			if parsed > 50 {
				parsed = 50
			}
			limit = parsed
		}
	}

	byDay := aggregate.DailyMetrics(h.service.Entries(), h.service.Location())
	writeJSON(w, http.StatusOK, TopDaysResponse{
		Metric: string(metric),
		Limit:  limit,
		Items:  aggregate.TopDays(byDay, metric, limit),
	})
}

// requireScope writes the error response and returns false when the caller
// lacks scope. Write access implies read access.
func requireScope(w http.ResponseWriter, r *http.Request, scope string) bool {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return false
	}
	if claims.HasScope(scope) {
		return true
	}
	if scope == auth.ScopeEntriesRead && claims.HasScope(auth.ScopeEntriesWrite) {
		return true
	}
	writeError(w, http.StatusForbidden, "forbidden", "scope "+scope+" required")
	return false
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrEntryNotFound):
		writeError(w, http.StatusNotFound, "not_found", "entry not found")
	case errors.Is(err, domain.ErrInvalidEdit):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, map[string]string{
		"type":   code,
		"detail": detail,
	})
}

// writeJSON encodes before writing the status so an unencodable payload
// becomes a 500 instead of a truncated 200.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		status = http.StatusInternalServerError
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(map[string]string{
			"type":   "server_error",
			"detail": "encode response: " + err.Error(),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
