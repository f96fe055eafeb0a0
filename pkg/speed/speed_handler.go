package speed

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/lineboard/lineboard/internal/rest"
	log "github.com/sirupsen/logrus"
)

type EntryDTO struct {
	ID         int     `json:"id"`
	RecordedAt string  `json:"recordedAt"`
	Speed      float64 `json:"speed"`
	Note       string  `json:"note,omitempty"`
}

type DailyStatsDTO struct {
	Day      string  `json:"day"`
	AvgSpeed float64 `json:"avgSpeed"`
	MaxSpeed float64 `json:"maxSpeed"`
	Samples  int     `json:"samples"`
}

type RangeSummaryDTO struct {
	From     *string `json:"from"`
	To       *string `json:"to"`
	AvgSpeed float64 `json:"avgSpeed"`
	MaxSpeed float64 `json:"maxSpeed"`
	Samples  int     `json:"samples"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Recording new speed sample")

	var request struct {
		RecordedAt string  `json:"recordedAt"`
		Speed      float64 `json:"speed"`
		Note       string  `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeBadRequest(w, "Invalid request body format", "")
		return
	}

	entry := Entry{Speed: request.Speed, Note: request.Note}
	if request.RecordedAt != "" {
		recordedAt, err := time.Parse(time.RFC3339, request.RecordedAt)
		if err != nil {
			writeBadRequest(w, "Invalid recordedAt format", "recordedAt must be in RFC3339 format")
			return
		}
		entry.RecordedAt = recordedAt
	}

	created, err := h.service.Create(r.Context(), entry)
	if err != nil {
		if errors.Is(err, ErrInvalidEntry) {
			writeBadRequest(w, err.Error(), "")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(entryToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	query := r.URL.Query()
	pagination := rest.ParsePagination(query, 50, 200)
	from, to, ok := parseRangeParams(w, r)
	if !ok {
		return
	}

	entries, total, err := h.service.List(r.Context(), from, to, pagination.Page, pagination.Limit)
	if err != nil {
		writeRangeError(w, err)
		return
	}

	items := make([]EntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, entryToDTO(entry))
	}

	response := rest.PaginatedResponse[EntryDTO]{
		Items: items,
		Total: total,
		Page:  pagination.Page,
		Limit: pagination.Limit,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetDailySeries(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	from, to, ok := parseRangeParams(w, r)
	if !ok {
		return
	}

	series, err := h.service.GetDailySeries(r.Context(), from, to)
	if err != nil {
		writeRangeError(w, err)
		return
	}

	response := make([]DailyStatsDTO, 0, len(series))
	for _, stats := range series {
		response = append(response, DailyStatsDTO(stats))
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	from, to, ok := parseRangeParams(w, r)
	if !ok {
		return
	}

	summary, err := h.service.GetSummary(r.Context(), from, to)
	if err != nil {
		writeRangeError(w, err)
		return
	}

	response := RangeSummaryDTO{
		From:     nullableDay(summary.From),
		To:       nullableDay(summary.To),
		AvgSpeed: summary.AvgSpeed,
		MaxSpeed: summary.MaxSpeed,
		Samples:  summary.Samples,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func parseRangeParams(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	query := r.URL.Query()
	from, err := rest.ParseDateParam(query, "from")
	if err != nil {
		writeBadRequest(w, "Invalid from date", err.Error())
		return "", "", false
	}
	to, err := rest.ParseDateParam(query, "to")
	if err != nil {
		writeBadRequest(w, "Invalid to date", err.Error())
		return "", "", false
	}
	return from, to, true
}

func writeRangeError(w http.ResponseWriter, err error) {
	if errors.Is(err, rest.ErrInvalidRange) || errors.Is(err, ErrInvalidEntry) {
		writeBadRequest(w, err.Error(), "")
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func entryToDTO(entry Entry) EntryDTO {
	return EntryDTO{
		ID:         entry.ID,
		RecordedAt: entry.RecordedAt.Format(time.RFC3339),
		Speed:      entry.Speed,
		Note:       entry.Note,
	}
}

func nullableDay(day string) *string {
	if day == "" {
		return nil
	}
	return &day
}

func writeBadRequest(w http.ResponseWriter, message, details string) {
	w.WriteHeader(http.StatusBadRequest)
	encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
		Error:   message,
		Details: details,
	})
	if encodeErr != nil {
		http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
	}
}
