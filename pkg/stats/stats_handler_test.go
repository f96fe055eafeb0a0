package stats

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lineboard/lineboard/internal/utils"
	"github.com/lineboard/lineboard/pkg/cause"
	"github.com/lineboard/lineboard/pkg/shift"
	"github.com/lineboard/lineboard/pkg/stop"
	"github.com/stretchr/testify/assert"
)

func setupHandlerTest() (*StatsHandler, *stop.StubStopRepo) {
	repo := &stop.StubStopRepo{}
	clock := &utils.MockClock{FixedNow: testNow}
	service := NewStatsService(repo, clock, 0)
	return NewStatsHandler(service, NewCsvStatsRenderer()), repo
}

func TestStatsHandler_GetDailySummary(t *testing.T) {
	t.Run("returns JSON rows by default", func(t *testing.T) {
		handler, repo := setupHandlerTest()
		_, _ = repo.Store(context.Background(), stop.Stop{
			Day:             "2024-05-14",
			StartTime:       "07:00:00",
			EndTime:         strPtr("07:10:00"),
			DurationSeconds: intPtr(600),
			Shift:           shift.Shift1,
			CauseID:         1,
			Cause:           &cause.Cause{ID: 1, Name: "Mechanical failure", AffectsTrs: true, IsActive: true},
		})

		req := httptest.NewRequest(http.MethodGet, "/api/stops/analytics/daily?shift=1", nil)
		w := httptest.NewRecorder()
		handler.GetDailySummary(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var rows []DailySummaryDTO
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&rows))
		assert.Len(t, rows, 1)
		assert.Equal(t, "2024-05-14", rows[0].Day)
		assert.Equal(t, "Team 1", rows[0].Shift)
		assert.Equal(t, 600, rows[0].TotalDowntimeSeconds)
		assert.Equal(t, 97.92, rows[0].Trs)
	})

	t.Run("renders CSV when requested via Accept", func(t *testing.T) {
		handler, repo := setupHandlerTest()
		_, _ = repo.Store(context.Background(), stop.Stop{
			Day:             "2024-05-14",
			StartTime:       "07:00:00",
			EndTime:         strPtr("07:10:00"),
			DurationSeconds: intPtr(600),
			Shift:           shift.Shift1,
			CauseID:         1,
			Cause:           &cause.Cause{ID: 1, Name: "Mechanical failure", AffectsTrs: true, IsActive: true},
		})

		req := httptest.NewRequest(http.MethodGet, "/api/stops/analytics/daily?shift=1", nil)
		req.Header.Set("Accept", "text/csv")
		w := httptest.NewRecorder()
		handler.GetDailySummary(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
		lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
		assert.Len(t, lines, 2)
		assert.Equal(t, "Day,Shift,Stops,Downtime,TRS downtime,Work time,Available,TRS %", lines[0])
		assert.Equal(t, "2024-05-14,Team 1,1,00:10:00,00:10:00,07:50:00,08:00:00,97.92", lines[1])
	})

	t.Run("rejects an inverted range", func(t *testing.T) {
		handler, _ := setupHandlerTest()

		req := httptest.NewRequest(http.MethodGet, "/api/stops/analytics/daily?from=2024-05-15&to=2024-05-10", nil)
		w := httptest.NewRecorder()
		handler.GetDailySummary(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects a malformed date parameter", func(t *testing.T) {
		handler, _ := setupHandlerTest()

		req := httptest.NewRequest(http.MethodGet, "/api/stops/analytics/daily?from=yesterday", nil)
		w := httptest.NewRecorder()
		handler.GetDailySummary(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func strPtr(s string) *string {
	return &s
}

func intPtr(n int) *int {
	return &n
}
