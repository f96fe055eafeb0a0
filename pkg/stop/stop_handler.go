package stop

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/lineboard/lineboard/internal/rest"
	"github.com/lineboard/lineboard/pkg/cause"
	"github.com/lineboard/lineboard/pkg/shift"
	log "github.com/sirupsen/logrus"
)

type StopDTO struct {
	ID              int             `json:"id"`
	Day             string          `json:"day"`
	StartTime       string          `json:"startTime"`
	EndTime         *string         `json:"endTime"`
	DurationSeconds *int            `json:"durationSeconds"`
	Shift           string          `json:"shift"`
	CauseID         int             `json:"causeId"`
	Cause           *cause.CauseDTO `json:"cause"`
}

type stopRequest struct {
	Day       *string `json:"day"`
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
	CauseID   *int    `json:"causeId"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) ListStops(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	query := r.URL.Query()
	pagination := rest.ParsePagination(query, 50, 200)

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
	if err := rest.ValidateRange(from, to); err != nil {
		writeBadRequest(w, err.Error(), "")
		return
	}

	filter := ListFilter{
		From:  from,
		To:    to,
		Page:  pagination.Page,
		Limit: pagination.Limit,
	}
	if v := query.Get("causeId"); v != "" {
		causeID, err := strconv.Atoi(v)
		if err != nil {
			writeBadRequest(w, "Invalid causeId", "causeId must be an integer")
			return
		}
		filter.CauseID = causeID
	}
	if v := query.Get("shift"); v != "" {
		selected := shift.Parse(v)
		filter.Shift = &selected
	}

	stops, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	items := make([]StopDTO, 0, len(stops))
	for _, s := range stops {
		items = append(items, stopToDTO(s))
	}

	response := rest.PaginatedResponse[StopDTO]{
		Items: items,
		Total: total,
		Page:  pagination.Page,
		Limit: pagination.Limit,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetStop(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, err := strconv.Atoi(mux.Vars(r)["stopId"])
	if err != nil {
		writeBadRequest(w, "Invalid stop id", "stop id must be an integer")
		return
	}

	found, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrStopNotFound) {
			http.Error(w, "Stop not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(stopToDTO(found)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) CreateStop(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Recording new stop")

	var request stopRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeBadRequest(w, "Invalid request body format", "")
		return
	}

	input := CreateStop{EndTime: request.EndTime}
	if request.Day != nil {
		input.Day = *request.Day
	}
	if request.StartTime != nil {
		input.StartTime = *request.StartTime
	}
	if request.CauseID != nil {
		input.CauseID = *request.CauseID
	}

	created, err := h.service.Create(r.Context(), input)
	if err != nil {
		if errors.Is(err, ErrInvalidStop) || errors.Is(err, ErrUnknownCause) {
			writeBadRequest(w, err.Error(), "")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(stopToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) UpdateStop(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, err := strconv.Atoi(mux.Vars(r)["stopId"])
	if err != nil {
		writeBadRequest(w, "Invalid stop id", "stop id must be an integer")
		return
	}

	var request stopRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeBadRequest(w, "Invalid request body format", "")
		return
	}

	updated, err := h.service.Update(r.Context(), id, UpdateStop{
		Day:       request.Day,
		StartTime: request.StartTime,
		EndTime:   request.EndTime,
		CauseID:   request.CauseID,
	})
	if err != nil {
		if errors.Is(err, ErrStopNotFound) {
			http.Error(w, "Stop not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, ErrInvalidStop) || errors.Is(err, ErrUnknownCause) {
			writeBadRequest(w, err.Error(), "")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(stopToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func stopToDTO(s Stop) StopDTO {
	dto := StopDTO{
		ID:              s.ID,
		Day:             s.Day,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		DurationSeconds: s.DurationSeconds,
		Shift:           s.Shift.Label(),
		CauseID:         s.CauseID,
	}
	if s.Cause != nil {
		dto.Cause = &cause.CauseDTO{
			ID:          s.Cause.ID,
			Name:        s.Cause.Name,
			Description: s.Cause.Description,
			AffectsTrs:  s.Cause.AffectsTrs,
			IsActive:    s.Cause.IsActive,
		}
	}
	return dto
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
