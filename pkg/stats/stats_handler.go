package stats

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lineboard/lineboard/internal/rest"
)

type DailySummaryDTO struct {
	Day                  string  `json:"day"`
	Shift                string  `json:"shift"`
	StopsCount           int     `json:"stopsCount"`
	TotalDowntimeSeconds int     `json:"totalDowntimeSeconds"`
	TrsDowntimeSeconds   int     `json:"trsDowntimeSeconds"`
	TotalWorkSeconds     int     `json:"totalWorkSeconds"`
	AvailableSeconds     int     `json:"availableSeconds"`
	Trs                  float64 `json:"trs"`
}

type StatsHandler struct {
	statsService     StatsService
	csvStatsRenderer StatsRenderer
}

func NewStatsHandler(statsService StatsService, csvStatsRenderer StatsRenderer) *StatsHandler {
	return &StatsHandler{statsService, csvStatsRenderer}
}

func (handler *StatsHandler) GetDailySummary(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	from, err := rest.ParseDateParam(query, "from")
	if err != nil {
		writeBadRequest(w, "Invalid from date", err.Error())
		return
	}
	to, err := rest.ParseDateParam(query, "to")
	if err != nil {
		writeBadRequest(w, "Invalid to date", err.Error())
		return
	}

	summary, err := handler.statsService.GetDailySummary(r.Context(), from, to, query.Get("shift"))
	if err != nil {
		if errors.Is(err, rest.ErrInvalidRange) {
			writeBadRequest(w, err.Error(), "")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		csv, err := handler.csvStatsRenderer.RenderDailySummary(summary)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err := w.Write([]byte(csv)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	response := make([]DailySummaryDTO, 0, len(summary))
	for _, row := range summary {
		response = append(response, DailySummaryDTO{
			Day:                  row.Day,
			Shift:                row.Shift.Label(),
			StopsCount:           row.StopsCount,
			TotalDowntimeSeconds: row.TotalDowntimeSeconds,
			TrsDowntimeSeconds:   row.TrsDowntimeSeconds,
			TotalWorkSeconds:     row.TotalWorkSeconds,
			AvailableSeconds:     row.AvailableSeconds,
			Trs:                  row.TrsPercentage,
		})
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeBadRequest(w http.ResponseWriter, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
		Error:   message,
		Details: details,
	})
	if encodeErr != nil {
		http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
	}
}
