package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/workoutlog/internal/auth"
	"example.com/workoutlog/internal/catalog"
	"example.com/workoutlog/internal/domain"
	"example.com/workoutlog/internal/parser"
)

type memoryStore struct {
	saved []domain.Entry
}

func (m *memoryStore) Load(context.Context) ([]domain.Entry, error) {
	return append([]domain.Entry(nil), m.saved...), nil
}

func (m *memoryStore) Save(_ context.Context, entries []domain.Entry) error {
	m.saved = append([]domain.Entry(nil), entries...)
	return nil
}

var fixedNow = time.Date(2025, time.June, 10, 15, 0, 0, 0, time.UTC)

func newTestHandler(t *testing.T) (http.Handler, *memoryStore) {
	t.Helper()
	index := catalog.Build(catalog.Default())
	seq := 0
	p := parser.New(index,
		parser.WithClock(func() time.Time { return fixedNow }),
		parser.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
	)
	store := &memoryStore{}
	svc := domain.NewService(store, p,
		domain.WithLocation(time.UTC),
		domain.WithClock(func() time.Time { return fixedNow }),
	)
	require.NoError(t, svc.Load(context.Background()))

	mux := http.NewServeMux()
	NewHandler(svc, index).RegisterRoutes(mux)
	return mux, store
}

func do(t *testing.T, h http.Handler, method, target string, body any, scopes ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if scopes != nil {
		claims := &auth.Claims{Subject: "user-1", Scopes: map[string]struct{}{}}
		for _, s := range scopes {
			claims.Scopes[s] = struct{}{}
		}
		req = req.WithContext(auth.WithClaims(req.Context(), claims))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestLogTextCreatesEntries(t *testing.T) {
	h, store := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/v1/entries", LogTextRequest{Text: "10 pushups and 20 squats"}, auth.ScopeEntriesWrite)
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decode[EntryListResponse](t, rec)
	require.Len(t, resp.Items, 2)
	require.Equal(t, "push ups", resp.Items[0].Activity)
	require.Equal(t, "exercise", resp.Items[0].Kind)
	require.Equal(t, 10.0, resp.Items[0].Amount)
	require.Equal(t, "reps", resp.Items[0].Unit)
	require.Equal(t, "squats", resp.Items[1].Activity)
	require.Len(t, store.saved, 2)
}

func TestLogTextUnparseable(t *testing.T) {
	h, store := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/v1/entries", LogTextRequest{Text: "blah"}, auth.ScopeEntriesWrite)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "unparseable", decode[map[string]string](t, rec)["type"])
	require.Empty(t, store.saved)

	rec = do(t, h, http.MethodPost, "/v1/entries", LogTextRequest{Text: "  "}, auth.ScopeEntriesWrite)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScopesAreEnforced(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/v1/entries", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/entries", LogTextRequest{Text: "10 squats"}, auth.ScopeEntriesRead)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/days", nil, auth.ScopeEntriesWrite)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestEditAndDeleteEntry(t *testing.T) {
	h, store := newTestHandler(t)
	rec := do(t, h, http.MethodPost, "/v1/entries", LogTextRequest{Text: "plank for 90 seconds"}, auth.ScopeEntriesWrite)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[EntryListResponse](t, rec).Items[0].ID

	rec = do(t, h, http.MethodPut, "/v1/entries/"+id, EditEntryRequest{Activity: "Deep Squat", Amount: 2, Unit: "minutes"}, auth.ScopeEntriesWrite)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[EntryView](t, rec)
	require.Equal(t, "deep squat hold", view.Activity)
	require.Equal(t, "stretch", view.Kind)
	require.Equal(t, "2.0", view.DisplayAmount)
	require.True(t, view.Timestamp.Equal(fixedNow))

	rec = do(t, h, http.MethodPut, "/v1/entries/"+id, EditEntryRequest{Activity: "plank", Amount: -1, Unit: "reps"}, auth.ScopeEntriesWrite)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/v1/entries/missing", EditEntryRequest{Activity: "plank", Amount: 1, Unit: "reps"}, auth.ScopeEntriesWrite)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/entries/"+id, nil, auth.ScopeEntriesRead)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodDelete, "/v1/entries/"+id, nil, auth.ScopeEntriesWrite)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, store.saved)

	rec = do(t, h, http.MethodDelete, "/v1/entries/"+id, nil, auth.ScopeEntriesWrite)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListEntriesByDay(t *testing.T) {
	h, _ := newTestHandler(t)
	do(t, h, http.MethodPost, "/v1/entries", LogTextRequest{Text: "5 lunges"}, auth.ScopeEntriesWrite)

	rec := do(t, h, http.MethodGet, "/v1/entries?day=2025-06-10", nil, auth.ScopeEntriesRead)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[EntryListResponse](t, rec)
	require.Equal(t, "2025-06-10", resp.Day)
	require.Len(t, resp.Items, 1)

	rec = do(t, h, http.MethodGet, "/v1/entries?day=2025-06-09", nil, auth.ScopeEntriesRead)
	require.Empty(t, decode[EntryListResponse](t, rec).Items)

	rec = do(t, h, http.MethodGet, "/v1/entries?day=yesterday", nil, auth.ScopeEntriesRead)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/days", nil, auth.ScopeEntriesRead)
	require.Equal(t, []string{"2025-06-10"}, decode[DaysResponse](t, rec).Days)
}

func TestTotalsAndTrends(t *testing.T) {
	h, _ := newTestHandler(t)
	do(t, h, http.MethodPost, "/v1/entries", LogTextRequest{Text: "10 squats, 20 squats, plank for 90 seconds"}, auth.ScopeEntriesWrite)

	rec := do(t, h, http.MethodGet, "/v1/totals?range=week", nil, auth.ScopeEntriesRead)
	require.Equal(t, http.StatusOK, rec.Code)
	totals := decode[TotalsResponse](t, rec)
	require.Equal(t, "week", totals.Range)
	require.Equal(t, []TotalView{
		{Activity: "squats", Unit: "reps", Amount: 30, Display: "30 reps"},
		{Activity: "plank", Unit: "minutes", Amount: 1.5, Display: "1.5 minutes"},
	}, totals.Items)

	rec = do(t, h, http.MethodGet, "/v1/totals?range=decade", nil, auth.ScopeEntriesRead)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/trends", nil, auth.ScopeEntriesRead)
	require.Equal(t, http.StatusOK, rec.Code)
	trends := decode[TrendsResponse](t, rec)
	require.Equal(t, 1, trends.Streak)
	require.Len(t, trends.Series, 14)
	require.Equal(t, "⬆️ up from 0 to 30 reps", trends.RepsTrend.Summary)
	require.Len(t, trends.Today, 2)
}

func TestTotalsOverflowIsServerError(t *testing.T) {
	h, _ := newTestHandler(t)
	huge := "15" + strings.Repeat("0", 307) + " squats"
	for range 2 {
		rec := do(t, h, http.MethodPost, "/v1/entries", LogTextRequest{Text: huge}, auth.ScopeEntriesWrite)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := do(t, h, http.MethodGet, "/v1/totals", nil, auth.ScopeEntriesRead)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode[map[string]string](t, rec)
	require.Equal(t, "server_error", body["type"])
}

func TestTopDays(t *testing.T) {
	h, _ := newTestHandler(t)
	do(t, h, http.MethodPost, "/v1/entries", LogTextRequest{Text: "10 squats, plank for 90 seconds"}, auth.ScopeEntriesWrite)

	rec := do(t, h, http.MethodGet, "/v1/top-days?metric=reps", nil, auth.ScopeEntriesRead)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[TopDaysResponse](t, rec)
	require.Equal(t, "reps", resp.Metric)
	require.Equal(t, 5, resp.Limit)
	require.Len(t, resp.Items, 1)
	require.Equal(t, "2025-06-10", resp.Items[0].Day)
	require.Equal(t, 10.0, resp.Items[0].Value)

	rec = do(t, h, http.MethodGet, "/v1/top-days?metric=Minutes&limit=500", nil, auth.ScopeEntriesRead)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[TopDaysResponse](t, rec)
	require.Equal(t, 50, resp.Limit)
	require.Equal(t, 1.5, resp.Items[0].Value)

	rec = do(t, h, http.MethodGet, "/v1/top-days?metric=calories", nil, auth.ScopeEntriesRead)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h, http.MethodGet, "/v1/top-days", nil, auth.ScopeEntriesRead)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/top-days?metric=reps", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := do(t, h, http.MethodPatch, "/v1/entries", nil, auth.ScopeEntriesWrite)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
